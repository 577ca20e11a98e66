// Package compiler turns plans (YAML or CUE builder graphs) into Query DSL
// documents by driving a registry.
//
// Compilation is strict: an unknown type, an unknown key or a value of the
// wrong category stops with a CompileError naming the plan path. Lint
// findings (deprecated constructs, enum values a builder would silently
// drop) never stop compilation; they are returned as Warnings.
package compiler

import (
	"fmt"
	"slices"
	"sort"

	"cuelang.org/go/cue"
	"go.uber.org/zap"

	"github.com/roach88/esq/internal/dsl"
	"github.com/roach88/esq/internal/registry"
)

// Compile error codes (E200-E299).
const (
	ErrParse           = "E200" // plan file does not parse
	ErrMissingDocument = "E201" // plan has no document
	ErrInvalidNode     = "E202" // node shape is wrong (type, args, set)
	ErrUnknownType     = "E203" // type is not registered
	ErrBadArgument     = "E204" // constructor rejected its arguments
	ErrUnknownKey      = "E205" // set key has no setter
	ErrBadValue        = "E206" // setter rejected its value
	ErrConflictingKeys = "E207" // node sets two keys that replace each other
)

// CompileError is a compilation failure at one plan path.
type CompileError struct {
	// Path is the plan path, e.g. "document.set.query.args[0]".
	Path    string
	Code    string
	Message string

	File   string
	Line   int
	Column int

	// Err is the underlying error, often a *dsl.TypeError.
	Err error
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, msg)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error { return e.Err }

// Result is a compiled plan.
type Result struct {
	Name string
	// Type is the registry type of the document root.
	Type    string
	Builder dsl.Builder
	// Fingerprint is dsl.Fingerprint of the compiled document.
	Fingerprint string
	Warnings    []Warning
}

// Document returns the compiled document.
func (r *Result) Document() dsl.Object { return r.Builder.Document() }

// Compiler compiles plans against a registry.
type Compiler struct {
	reg    *registry.Registry
	logger *zap.Logger
}

// New returns a compiler over reg. A nil logger discards output.
func New(reg *registry.Registry, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{reg: reg, logger: logger}
}

// Registry returns the registry the compiler builds from.
func (c *Compiler) Registry() *registry.Registry { return c.reg }

// Compile builds the plan's document.
func (c *Compiler) Compile(p *Plan) (*Result, error) {
	if len(p.Document) == 0 {
		return nil, &CompileError{Path: "document", Code: ErrMissingDocument, Message: "document is required"}
	}
	run := &compilation{c: c, plan: p}
	b, typ, err := run.node(location{str: "document"}, p.Document)
	if err != nil {
		return nil, err
	}
	fp, err := dsl.Fingerprint(b)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", p.Name, err)
	}
	c.logger.Debug("compiled plan",
		zap.String("plan", p.Name),
		zap.String("type", typ),
		zap.String("fingerprint", fp),
		zap.Int("warnings", len(run.warnings)))
	return &Result{Name: p.Name, Type: typ, Builder: b, Fingerprint: fp, Warnings: run.warnings}, nil
}

// Lint compiles the plan and returns only its warnings.
func (c *Compiler) Lint(p *Plan) ([]Warning, error) {
	res, err := c.Compile(p)
	if err != nil {
		return nil, err
	}
	return res.Warnings, nil
}

/***** walking *****/

// location is a plan path in printable form and as CUE selectors.
type location struct {
	str  string
	sels []cue.Selector
}

func (l location) key(k string) location {
	return location{str: l.str + "." + k, sels: append(slices.Clip(l.sels), cue.Str(k))}
}

func (l location) index(i int) location {
	return location{str: fmt.Sprintf("%s[%d]", l.str, i), sels: append(slices.Clip(l.sels), cue.Index(i))}
}

// compilation is the state of one Compile call.
type compilation struct {
	c        *Compiler
	plan     *Plan
	warnings []Warning
}

func (run *compilation) fail(at location, code, msg string, cause error) *CompileError {
	ce := &CompileError{Path: at.str, Code: code, Message: msg, Err: cause}
	ce.File, ce.Line, ce.Column = run.plan.locate(at.sels)
	return ce
}

func (run *compilation) warn(at location, code, msg string) {
	run.warnings = append(run.warnings, Warning{Path: at.str, Code: code, Message: msg})
}

var nodeKeys = map[string]bool{"type": true, "args": true, "set": true}

// isNode reports whether v is shaped like a node.
func isNode(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := m["type"].(string); !ok {
		return false
	}
	for k := range m {
		if !nodeKeys[k] {
			return false
		}
	}
	return true
}

// node compiles one node to a builder.
func (run *compilation) node(at location, m map[string]any) (dsl.Builder, string, error) {
	if !isNode(m) {
		return nil, "", run.fail(at, ErrInvalidNode, "a node needs a string type and only type, args and set keys", nil)
	}
	typ := m["type"].(string)
	entry, ok := run.c.reg.Lookup(typ)
	if !ok {
		return nil, "", run.fail(at.key("type"), ErrUnknownType, fmt.Sprintf("unknown type %q", typ), registry.ErrUnknownType)
	}
	if note, ok := entry.Deprecated[""]; ok {
		run.warn(at.key("type"), WarnDeprecatedType, fmt.Sprintf("%s: %s", typ, note))
	}

	args, err := run.args(at.key("args"), entry, m["args"])
	if err != nil {
		return nil, "", err
	}
	b, err := run.c.reg.Build(typ, args)
	if err != nil {
		return nil, "", run.fail(at.key("args"), ErrBadArgument, err.Error(), err)
	}

	if err := run.set(at.key("set"), entry, b, m["set"]); err != nil {
		return nil, "", err
	}
	return b, typ, nil
}

func (run *compilation) args(at location, entry *registry.Entry, raw any) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, run.fail(at, ErrInvalidNode, "args must be a list", nil)
	}
	args := make([]any, len(list))
	for i, v := range list {
		val, err := run.value(at.index(i), v)
		if err != nil {
			return nil, err
		}
		run.checkEnum(at.index(i), entry, fmt.Sprintf("args[%d]", i), val)
		args[i] = val
	}
	return args, nil
}

func (run *compilation) set(at location, entry *registry.Entry, b dsl.Builder, raw any) error {
	if raw == nil {
		return nil
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return run.fail(at, ErrInvalidNode, "set must be a map", nil)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	applied := make(map[string]bool, len(keys))
	for _, k := range keys {
		kat := at.key(k)
		if _, ok := entry.Setters[k]; !ok {
			return run.fail(kat, ErrUnknownKey, fmt.Sprintf("%s has no key %q (known: %v)", entry.Type, k, entry.Keys()), registry.ErrUnknownKey)
		}
		if other, ok := entry.Exclusive[k]; ok && applied[other] {
			return run.fail(kat, ErrConflictingKeys, fmt.Sprintf("%s and %s replace each other; set only one", other, k), nil)
		}
		if note, ok := entry.Deprecated[k]; ok {
			run.warn(kat, WarnDeprecatedKey, note)
		}
		val, err := run.value(kat, values[k])
		if err != nil {
			return err
		}
		run.checkEnum(kat, entry, k, val)
		if other, ok := entry.Shared[k]; ok && applied[other] {
			err = run.appendEach(kat, entry, b, k, val)
		} else if err = run.c.reg.Set(b, entry.Type, k, val); err != nil {
			err = run.fail(kat, ErrBadValue, err.Error(), err)
		}
		if err != nil {
			return err
		}
		applied[k] = true
	}
	return nil
}

// appendEach sets the elements of val one at a time, so a key that shares
// its clause list with an earlier key adds to the list instead of
// replacing it.
func (run *compilation) appendEach(at location, entry *registry.Entry, b dsl.Builder, key string, val any) error {
	items, ok := val.([]any)
	if !ok {
		if err := run.c.reg.Set(b, entry.Type, key, val); err != nil {
			return run.fail(at, ErrBadValue, err.Error(), err)
		}
		return nil
	}
	for i, item := range items {
		if dsl.IsArray(item) {
			err := &dsl.TypeError{Op: entry.Type + "." + key, Want: "a clause, not a list", Got: item}
			return run.fail(at.index(i), ErrBadValue, err.Error(), err)
		}
		if err := run.c.reg.Set(b, entry.Type, key, item); err != nil {
			return run.fail(at.index(i), ErrBadValue, err.Error(), err)
		}
	}
	return nil
}

// value compiles nested nodes inside v. Lists are walked; other maps and
// scalars are passed through.
func (run *compilation) value(at location, v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		if !isNode(x) {
			return x, nil
		}
		b, _, err := run.node(at, x)
		if err != nil {
			return nil, err
		}
		return b, nil
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			val, err := run.value(at.index(i), elem)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	default:
		return v, nil
	}
}
