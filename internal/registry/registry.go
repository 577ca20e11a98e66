// Package registry maps builder type names to constructors and keyed
// setters so builders can be assembled from untyped data (plan files, HTTP
// bodies).
//
// Type names are namespaced by package: "query.bool", "filter.term",
// "agg.max", "facet.terms_stats", "geo.shape", "search.rescore".
// Registries are plain values; Default builds a fresh one on every call.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/esq/internal/dsl"
)

var (
	// ErrUnknownType is returned for a type name with no entry.
	ErrUnknownType = errors.New("unknown builder type")
	// ErrUnknownKey is returned for a key the type has no setter for.
	ErrUnknownKey = errors.New("unknown key")
	// ErrDuplicateType is returned by Register for an existing name.
	ErrDuplicateType = errors.New("duplicate builder type")
)

// Setter applies a runtime value to one key of a builder. op names the key
// in errors, e.g. "query.bool.must".
type Setter func(op string, b dsl.Builder, v any) error

// Entry describes one builder type.
type Entry struct {
	// Type is the namespaced type name.
	Type string
	// Kind is the capability tag of the builders New returns.
	Kind dsl.Kind
	// Args names the positional constructor arguments.
	Args []string
	// MinArgs is how many leading Args are required.
	MinArgs int
	// Variadic allows extra arguments beyond Args (terms values).
	Variadic bool
	// New constructs the builder from already checked arity.
	New func(args []any) (dsl.Builder, error)
	// Setters maps wire keys to setters.
	Setters map[string]Setter
	// Enums lists setter keys (and "args[i]" for arguments) backed by a
	// soft enum. Values outside the enum are dropped by the builder.
	Enums map[string]dsl.Enum
	// Deprecated maps keys (or "" for the type itself) to a deprecation note.
	Deprecated map[string]string
	// Shared pairs keys that write the same clause list (bool filter and
	// filter_query). Both directions are listed.
	Shared map[string]string
	// Exclusive pairs keys where setting one removes the other (geo_shape
	// shape and indexed_shape). Both directions are listed.
	Exclusive map[string]string
}

// pair returns a symmetric key pairing for Shared and Exclusive.
func pair(a, b string) map[string]string {
	return map[string]string{a: b, b: a}
}

// Registry is a table of builder types.
type Registry struct {
	entries map[string]*Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds entries. It fails on a duplicate or incomplete entry and
// registers nothing in that case.
func (r *Registry) Register(entries ...*Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e == nil || e.Type == "" || e.New == nil {
			return fmt.Errorf("register: incomplete entry %+v", e)
		}
		for _, pairs := range []map[string]string{e.Shared, e.Exclusive} {
			for k, other := range pairs {
				if e.Setters[k] == nil || e.Setters[other] == nil || pairs[other] != k {
					return fmt.Errorf("register %q: key pairing %s/%s needs setters in both directions", e.Type, k, other)
				}
			}
		}
		if _, exists := r.entries[e.Type]; exists || seen[e.Type] {
			return fmt.Errorf("register %q: %w", e.Type, ErrDuplicateType)
		}
		seen[e.Type] = true
	}
	for _, e := range entries {
		r.entries[e.Type] = e
	}
	return nil
}

// Lookup returns the entry for typ.
func (r *Registry) Lookup(typ string) (*Entry, bool) {
	e, ok := r.entries[typ]
	return e, ok
}

// Types returns every registered type name, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Build constructs a builder of type typ from positional args.
func (r *Registry) Build(typ string, args []any) (dsl.Builder, error) {
	e, ok := r.entries[typ]
	if !ok {
		return nil, fmt.Errorf("%q: %w", typ, ErrUnknownType)
	}
	if len(args) < e.MinArgs || (!e.Variadic && len(args) > len(e.Args)) {
		return nil, &dsl.TypeError{
			Op:   typ,
			Want: fmt.Sprintf("arguments %v", e.Args),
			Got:  args,
		}
	}
	padded := make([]any, max(len(args), len(e.Args)))
	copy(padded, args)
	return e.New(padded)
}

// Set applies v to key on b, a builder of type typ.
func (r *Registry) Set(b dsl.Builder, typ, key string, v any) error {
	e, ok := r.entries[typ]
	if !ok {
		return fmt.Errorf("%q: %w", typ, ErrUnknownType)
	}
	set, ok := e.Setters[key]
	if !ok {
		return fmt.Errorf("%s.%s: %w", typ, key, ErrUnknownKey)
	}
	return set(typ+"."+key, b, v)
}

// Keys returns the setter keys of typ, sorted.
func (e *Entry) Keys() []string {
	keys := make([]string, 0, len(e.Setters))
	for k := range e.Setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
