package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	termPlan = `name: by-user
document:
  type: query.term
  args: [user, kimchy]
`
	deprecatedPlan = `name: legacy
document:
  type: query.bool
  set:
    disable_coord: true
    must:
      - type: query.match
        args: [title, elasticsearch]
        set:
          operator: xor
`
	brokenPlan = `name: broken
document:
  type: query.bool
  set:
    must:
      - type: query.fuzzy
`
	cuePlan = `name: "range"
document: {
	type: "query.range"
	args: ["age"]
	set: {gte: 18, lt: 65}
}
`
)

// writePlan writes content to dir/name and returns the path.
func writePlan(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
