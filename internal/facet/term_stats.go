// Package facet provides the legacy facet builders.
//
// Facets were removed from Elasticsearch in 2.0 in favour of aggregations.
// They are kept for clusters that still speak them; Lint reports every
// request that uses one.
package facet

import "github.com/roach88/esq/internal/dsl"

// TermStatsOrders is the set of orderings TermStatsFacet accepts.
var TermStatsOrders = dsl.NewEnum(
	"count", "term", "reverse_count", "reverse_term",
	"total", "reverse_total", "min", "reverse_min",
	"max", "reverse_max", "mean", "reverse_mean",
)

// TermStatsFacet computes statistics of a value field per term of a key
// field: a pivot table.
type TermStatsFacet struct {
	dsl.FacetMixin[*TermStatsFacet]
}

// NewTermStatsFacet returns {name: {"terms_stats": {}}}.
func NewTermStatsFacet(name string) (*TermStatsFacet, error) {
	f := &TermStatsFacet{}
	m, err := dsl.NewFacetMixin(name, f)
	if err != nil {
		return nil, err
	}
	f.FacetMixin = m
	f.Body()["terms_stats"] = dsl.Object{}
	return f, nil
}

func (f *TermStatsFacet) opts() dsl.Object { return f.Body().Child("terms_stats") }

func (f *TermStatsFacet) setString(key, v string) *TermStatsFacet {
	if v != "" {
		f.opts()[key] = v
	}
	return f
}

func (f *TermStatsFacet) getString(key string) (string, bool) {
	return dsl.Lookup[string](f.opts(), key)
}

// SetValueField sets the field statistics are computed over.
func (f *TermStatsFacet) SetValueField(field string) *TermStatsFacet {
	return f.setString("value_field", field)
}

// ValueField returns value_field, if set.
func (f *TermStatsFacet) ValueField() (string, bool) { return f.getString("value_field") }

// SetKeyField sets the field to pivot on.
func (f *TermStatsFacet) SetKeyField(field string) *TermStatsFacet {
	return f.setString("key_field", field)
}

// KeyField returns key_field, if set.
func (f *TermStatsFacet) KeyField() (string, bool) { return f.getString("key_field") }

// SetScriptField sets a script providing the terms for a document.
func (f *TermStatsFacet) SetScriptField(script string) *TermStatsFacet {
	return f.setString("script_field", script)
}

// ScriptField returns script_field, if set.
func (f *TermStatsFacet) ScriptField() (string, bool) { return f.getString("script_field") }

// SetValueScript sets a script producing the values statistics are
// computed over.
func (f *TermStatsFacet) SetValueScript(script string) *TermStatsFacet {
	return f.setString("value_script", script)
}

// ValueScript returns value_script, if set.
func (f *TermStatsFacet) ValueScript() (string, bool) { return f.getString("value_script") }

// SetAllTerms returns all terms, including those with a zero count.
func (f *TermStatsFacet) SetAllTerms(all bool) *TermStatsFacet {
	f.opts()["all_terms"] = all
	return f
}

// AllTerms returns all_terms, if set.
func (f *TermStatsFacet) AllTerms() (bool, bool) { return dsl.Lookup[bool](f.opts(), "all_terms") }

// SetLang sets the script language.
func (f *TermStatsFacet) SetLang(lang string) *TermStatsFacet { return f.setString("lang", lang) }

// Lang returns the script language, if set.
func (f *TermStatsFacet) Lang() (string, bool) { return f.getString("lang") }

// SetParams sets the script parameters.
func (f *TermStatsFacet) SetParams(params map[string]any) *TermStatsFacet {
	if params != nil {
		f.opts()["params"] = params
	}
	return f
}

// Params returns the script parameters, if set.
func (f *TermStatsFacet) Params() (map[string]any, bool) {
	return dsl.Lookup[map[string]any](f.opts(), "params")
}

// SetSize sets the number of terms returned.
func (f *TermStatsFacet) SetSize(size int) *TermStatsFacet {
	f.opts()["size"] = size
	return f
}

// Size returns the size, if set.
func (f *TermStatsFacet) Size() (int, bool) { return dsl.Lookup[int](f.opts(), "size") }

// SetOrder sets the ordering of the terms, one of TermStatsOrders.
// Other values are ignored.
func (f *TermStatsFacet) SetOrder(order string) *TermStatsFacet {
	if o, ok := TermStatsOrders.Normalize(order); ok {
		f.opts()["order"] = o
	}
	return f
}

// Order returns the ordering, if set.
func (f *TermStatsFacet) Order() (string, bool) { return f.getString("order") }
