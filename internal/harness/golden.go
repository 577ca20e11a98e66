package harness

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/esq/internal/compiler"
)

// RunWithGolden compiles a fixture and compares its snapshot against
// testdata/golden/{fixture.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, c *compiler.Compiler, f Fixture) error {
	t.Helper()

	snap, err := Compile(c, f)
	if err != nil {
		return err
	}
	return AssertGolden(t, f.Name, snap)
}

// AssertGolden compares an already computed snapshot against its golden file.
func AssertGolden(t *testing.T, name string, snap *Snapshot) error {
	t.Helper()

	data, err := snap.MarshalCanonical()
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// RunDir runs every fixture in dir as a subtest.
func RunDir(t *testing.T, c *compiler.Compiler, dir string) {
	t.Helper()

	fixtures, err := LoadFixtures(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			if err := RunWithGolden(t, c, f); err != nil {
				t.Fatal(err)
			}
		})
	}
}
