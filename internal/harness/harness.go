package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/esq/internal/compiler"
	"github.com/roach88/esq/internal/dsl"
)

// Fixture is one plan file to compile and snapshot.
type Fixture struct {
	// Name is the plan file name without extension; it names the golden file.
	Name string
	// Path is the plan file path.
	Path string
}

// planExts are the plan file extensions LoadFixtures picks up.
var planExts = map[string]bool{".yaml": true, ".yml": true, ".cue": true, ".json": true}

// LoadFixtures lists the plan files in dir, sorted by name.
func LoadFixtures(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []Fixture
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !planExts[ext] {
			continue
		}
		fixtures = append(fixtures, Fixture{
			Name: strings.TrimSuffix(e.Name(), ext),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].Name < fixtures[j].Name })
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no plan files found in %s", dir)
	}
	return fixtures, nil
}

// Snapshot is the comparable outcome of compiling a plan.
type Snapshot struct {
	Name        string
	Type        string
	Fingerprint string
	Document    dsl.Object
	Warnings    []compiler.Warning
}

// NewSnapshot captures a compile result.
func NewSnapshot(res *compiler.Result) *Snapshot {
	return &Snapshot{
		Name:        res.Name,
		Type:        res.Type,
		Fingerprint: res.Fingerprint,
		Document:    res.Document(),
		Warnings:    res.Warnings,
	}
}

// toCanonicalMap converts the snapshot to plain maps for canonical JSON.
func (s *Snapshot) toCanonicalMap() map[string]any {
	warnings := make([]any, len(s.Warnings))
	for i, w := range s.Warnings {
		warnings[i] = map[string]any{
			"code":    w.Code,
			"path":    w.Path,
			"message": w.Message,
		}
	}
	return map[string]any{
		"name":        s.Name,
		"type":        s.Type,
		"fingerprint": s.Fingerprint,
		"document":    s.Document,
		"warnings":    warnings,
	}
}

// MarshalCanonical returns the snapshot as canonical JSON.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return dsl.MarshalCanonical(s.toCanonicalMap())
}

// Compile loads and compiles a fixture.
func Compile(c *compiler.Compiler, f Fixture) (*Snapshot, error) {
	plan, err := compiler.LoadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
	}
	res, err := c.Compile(plan)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
	}
	return NewSnapshot(res), nil
}
