package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// Plan is a named builder graph read from a YAML or CUE file.
//
// The document is a node: a map with a string "type" naming a registry
// entry, optional positional "args" and an optional "set" map of keyed
// values. Any map shaped like a node inside args or set is compiled to a
// builder too.
//
//	name: red-shoes
//	document:
//	  type: search.request
//	  set:
//	    query:
//	      type: query.term
//	      args: [color, red]
//	    size: 10
type Plan struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Document    map[string]any `yaml:"document" json:"document"`

	// source locates plan paths in the file they were read from.
	source locator
}

// locator maps a plan path to a position in the source file.
type locator interface {
	locate(sels []cue.Selector) (file string, line, col int)
}

// LoadFile reads a plan from path. Files ending in .cue are read as CUE,
// everything else as YAML (which includes JSON). A plan without a name is
// named after the file.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	p, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Parse decodes a plan. filename selects the format and is used in
// error positions.
func Parse(data []byte, filename string) (*Plan, error) {
	var (
		p   *Plan
		err error
	)
	if filepath.Ext(filename) == ".cue" {
		p, err = parseCUE(data, filename)
	} else {
		p, err = parseYAML(data, filename)
	}
	if err != nil {
		return nil, err
	}
	if len(p.Document) == 0 {
		ce := &CompileError{Path: "document", Code: ErrMissingDocument, Message: "document is required"}
		ce.File, ce.Line, ce.Column = p.locate(nil)
		return nil, ce
	}
	return p, nil
}

/***** YAML *****/

func parseYAML(data []byte, filename string) (*Plan, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &CompileError{File: filename, Code: ErrParse, Message: err.Error(), Err: err}
	}

	p := &Plan{source: yamlSource{file: filename, root: &root}}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return nil, &CompileError{File: filename, Code: ErrParse, Message: err.Error(), Err: err}
	}
	return p, nil
}

type yamlSource struct {
	file string
	root *yaml.Node
}

func (s yamlSource) locate(sels []cue.Selector) (string, int, int) {
	n := s.root
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	// "document" is the first selector of every plan path.
	for _, sel := range append([]cue.Selector{cue.Str("document")}, sels...) {
		next := yamlChild(n, sel)
		if next == nil {
			break
		}
		n = next
	}
	return s.file, n.Line, n.Column
}

func yamlChild(n *yaml.Node, sel cue.Selector) *yaml.Node {
	switch {
	case n.Kind == yaml.MappingNode && sel.LabelType() == cue.StringLabel:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == sel.Unquoted() {
				return n.Content[i+1]
			}
		}
	case n.Kind == yaml.SequenceNode && sel.LabelType() == cue.IndexLabel:
		if i := sel.Index(); i < len(n.Content) {
			return n.Content[i]
		}
	}
	return nil
}

/***** CUE *****/

func parseCUE(data []byte, filename string) (*Plan, error) {
	v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	p := &Plan{source: cueSource{file: filename, root: v}}
	if err := v.Decode(p); err != nil {
		return nil, formatCUEError(err)
	}
	return p, nil
}

type cueSource struct {
	file string
	root cue.Value
}

func (s cueSource) locate(sels []cue.Selector) (string, int, int) {
	path := append([]cue.Selector{cue.Str("document")}, sels...)
	for len(path) > 0 {
		if v := s.root.LookupPath(cue.MakePath(path...)); v.Exists() {
			if pos := v.Pos(); pos.IsValid() {
				return pos.Filename(), pos.Line(), pos.Column()
			}
		}
		path = slices.Clip(path[:len(path)-1])
	}
	return s.file, 0, 0
}

// formatCUEError turns the first CUE error into a CompileError carrying
// its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Code: ErrParse, Message: err.Error(), Err: err}
	}
	first := errs[0]
	ce := &CompileError{Path: "cue", Code: ErrParse, Message: first.Error(), Err: err}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		pos := positions[0]
		ce.File, ce.Line, ce.Column = pos.Filename(), pos.Line(), pos.Column()
	}
	return ce
}

// locate returns the source position of a plan path. Plans built in
// memory have none.
func (p *Plan) locate(sels []cue.Selector) (string, int, int) {
	if p.source == nil {
		return "", 0, 0
	}
	return p.source.locate(sels)
}
