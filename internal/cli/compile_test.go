package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esq/internal/compiler"
)

func TestCompileSinglePlan(t *testing.T) {
	path := writePlan(t, t.TempDir(), "by-user.yaml", termPlan)

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, `{"term":{"user":{"value":"kimchy"}}}`+"\n", buf.String())
}

func TestCompileDirectory(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, "a_term.yaml", termPlan)
	writePlan(t, dir, "b_range.cue", cuePlan)
	writePlan(t, dir, "notes.txt", "ignored")

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "# by-user ")
	assert.Contains(t, out, "# range ")
	assert.Contains(t, out, `{"range":{"age":{"gte":18,"lt":65}}}`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("# by-user")), bytes.Index(buf.Bytes(), []byte("# range")))
}

func TestCompileJSON(t *testing.T) {
	path := writePlan(t, t.TempDir(), "legacy.yaml", deprecatedPlan)

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string         `json:"status"`
		Data   []CompiledPlan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	plan := resp.Data[0]
	assert.Equal(t, "legacy", plan.Name)
	assert.Equal(t, "query.bool", plan.Type)
	assert.Len(t, plan.Fingerprint, 64)
	require.Len(t, plan.Warnings, 2)
	assert.Equal(t, compiler.WarnDeprecatedKey, plan.Warnings[0].Code)
	assert.Equal(t, compiler.WarnDroppedEnum, plan.Warnings[1].Code)
	assert.Equal(t, "document.set.must[0].set.operator", plan.Warnings[1].Path)
}

func TestCompileWarningsGoToStderr(t *testing.T) {
	path := writePlan(t, t.TempDir(), "legacy.yaml", deprecatedPlan)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.NotContains(t, out.String(), "warning")
	assert.Contains(t, errOut.String(), "warning [W201] document.set.disable_coord")
	assert.Contains(t, errOut.String(), "warning [W202]")
}

func TestCompileOutputToFile(t *testing.T) {
	dir := t.TempDir()
	path := writePlan(t, dir, "by-user.yaml", termPlan)
	outputFile := filepath.Join(dir, "out.json")

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--output", outputFile})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Wrote by-user")

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"term":{"user":{"value":"kimchy"}}}`, string(data))
}

func TestCompileOutputNeedsOnePlan(t *testing.T) {
	dir := t.TempDir()
	writePlan(t, dir, "a.yaml", termPlan)
	writePlan(t, dir, "b.cue", cuePlan)

	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{dir, "-o", filepath.Join(dir, "out.json")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileInvalidPlan(t *testing.T) {
	path := writePlan(t, t.TempDir(), "broken.yaml", brokenPlan)

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out := buf.String()
	assert.Contains(t, out, "✗ Compilation failed")
	assert.Contains(t, out, path+":6:15: [E203] document.set.must[0].type: unknown type \"query.fuzzy\"")
}

func TestCompileInvalidPlanJSON(t *testing.T) {
	path := writePlan(t, t.TempDir(), "broken.yaml", brokenPlan)

	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Errors []PlanError `json:"errors"`
		} `json:"data"`
		Error *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrUnknownType, resp.Error.Code)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, 6, resp.Data.Errors[0].Line)
	assert.Equal(t, "document.set.must[0].type", resp.Data.Errors[0].Path)
}

func TestCompileNonExistentPath(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E005]")
}

func TestCompileVerboseOutput(t *testing.T) {
	path := writePlan(t, t.TempDir(), "by-user.yaml", termPlan)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: "json", Verbose: true})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "Found 1 plan file(s)")
	assert.Contains(t, errOut.String(), "Compiled "+path+": query.term")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), "verbose logs must not corrupt JSON")
}
