package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esq/internal/compiler"
	"github.com/roach88/esq/internal/dsl"
	"github.com/roach88/esq/internal/registry"
)

func newCompiler() *compiler.Compiler { return compiler.New(registry.Default(), nil) }

func TestGoldenPlans(t *testing.T) {
	RunDir(t, newCompiler(), filepath.Join("testdata", "plans"))
}

func TestLoadFixtures(t *testing.T) {
	fixtures, err := LoadFixtures(filepath.Join("testdata", "plans"))
	require.NoError(t, err)

	names := make([]string, len(fixtures))
	for i, f := range fixtures {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"sales_by_month", "stores_near_berlin", "tag_price_stats"}, names)
	assert.Equal(t, filepath.Join("testdata", "plans", "sales_by_month.cue"), fixtures[0].Path)
}

func TestLoadFixtures_Empty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	_, err := LoadFixtures(dir)
	assert.ErrorContains(t, err, "no plan files")

	_, err = LoadFixtures(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompile_FingerprintMatchesDocument(t *testing.T) {
	snap, err := Compile(newCompiler(), Fixture{
		Name: "stores_near_berlin",
		Path: filepath.Join("testdata", "plans", "stores_near_berlin.yaml"),
	})
	require.NoError(t, err)

	fp, err := dsl.FingerprintDocument(snap.Document)
	require.NoError(t, err)
	assert.Equal(t, fp, snap.Fingerprint)
	assert.Equal(t, "stores-near-berlin", snap.Name)
	assert.Empty(t, snap.Warnings)
}

func TestCompile_ReportsPlanErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("document:\n  type: query.nope\n"), 0o644))

	_, err := Compile(newCompiler(), Fixture{Name: "broken", Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixture broken")
	assert.Contains(t, err.Error(), compiler.ErrUnknownType)
}

func TestSnapshot_MarshalCanonical(t *testing.T) {
	snap := &Snapshot{
		Name:        "x",
		Type:        "query.match_all",
		Fingerprint: "abc",
		Document:    dsl.Object{"match_all": dsl.Object{}},
		Warnings:    []compiler.Warning{{Path: "document", Code: "W200", Message: "m"}},
	}
	data, err := snap.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"document":{"match_all":{}},"fingerprint":"abc","name":"x","type":"query.match_all","warnings":[{"code":"W200","message":"m","path":"document"}]}`,
		string(data))
}
