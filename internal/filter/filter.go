// Package filter provides Filter builders for filter context: term, terms,
// range, exists and fquery.
//
// Every builder embeds dsl.FilterMixin, so _name, _cache and _cache_key are
// available on all of them and sit next to the filter's own options.
package filter

import "github.com/roach88/esq/internal/dsl"

func requireField(op, field string) error {
	if field == "" {
		return &dsl.TypeError{Op: op, Want: "non-empty field name", Got: field}
	}
	return nil
}

/***** term *****/

// TermFilter keeps documents whose field contains the exact term.
type TermFilter struct {
	dsl.FilterMixin[*TermFilter]
	field string
}

// NewTermFilter returns {"term": {field: value}}.
func NewTermFilter(field string, value any) (*TermFilter, error) {
	if err := requireField("term", field); err != nil {
		return nil, err
	}
	if dsl.IsNil(value) {
		return nil, &dsl.TypeError{Op: "term", Want: "term value", Got: value}
	}
	f := &TermFilter{field: field}
	f.FilterMixin = dsl.NewFilterMixin("term", f)
	f.Body()[field] = value
	return f, nil
}

// Field returns the field.
func (f *TermFilter) Field() string { return f.field }

// Value returns the term.
func (f *TermFilter) Value() any { return f.Body()[f.field] }

/***** terms *****/

// TermsExecutions are the execution modes of a terms filter.
var TermsExecutions = dsl.NewEnum(
	"plain", "fielddata", "bool", "bool_nocache", "and", "and_nocache", "or", "or_nocache",
)

// TermsFilter keeps documents whose field contains any of the terms.
type TermsFilter struct {
	dsl.FilterMixin[*TermsFilter]
	field string
}

// NewTermsFilter returns {"terms": {field: values}}.
func NewTermsFilter(field string, values ...any) (*TermsFilter, error) {
	if err := requireField("terms", field); err != nil {
		return nil, err
	}
	f := &TermsFilter{field: field}
	f.FilterMixin = dsl.NewFilterMixin("terms", f)
	f.Body()[field] = []any{}
	return f.AddValues(values...), nil
}

// Field returns the field.
func (f *TermsFilter) Field() string { return f.field }

// AddValues appends terms. nil values are skipped.
func (f *TermsFilter) AddValues(values ...any) *TermsFilter {
	terms := f.Values()
	for _, v := range values {
		if !dsl.IsNil(v) {
			terms = append(terms, v)
		}
	}
	f.Body()[f.field] = terms
	return f
}

// Values returns the live term list.
func (f *TermsFilter) Values() []any {
	terms, _ := dsl.Lookup[[]any](f.Body(), f.field)
	return terms
}

// SetExecution sets the execution mode, e.g. plain, bool or and.
// Other values are ignored.
func (f *TermsFilter) SetExecution(mode string) *TermsFilter {
	if m, ok := TermsExecutions.Normalize(mode); ok {
		f.Body()["execution"] = m
	}
	return f
}

// Execution returns the execution mode, if set.
func (f *TermsFilter) Execution() (string, bool) {
	return dsl.Lookup[string](f.Body(), "execution")
}

/***** range *****/

// RangeFilter keeps documents with field values inside the given bounds.
type RangeFilter struct {
	dsl.FilterMixin[*RangeFilter]
	field string
}

// NewRangeFilter returns {"range": {field: {}}}.
func NewRangeFilter(field string) (*RangeFilter, error) {
	if err := requireField("range", field); err != nil {
		return nil, err
	}
	f := &RangeFilter{field: field}
	f.FilterMixin = dsl.NewFilterMixin("range", f)
	f.Body()[field] = dsl.Object{}
	return f, nil
}

// Field returns the field.
func (f *RangeFilter) Field() string { return f.field }

func (f *RangeFilter) bound(key string, v any) *RangeFilter {
	if !dsl.IsNil(v) {
		f.Body().Child(f.field)[key] = v
	}
	return f
}

// SetGte sets the inclusive lower bound.
func (f *RangeFilter) SetGte(v any) *RangeFilter { return f.bound("gte", v) }

// SetGt sets the exclusive lower bound.
func (f *RangeFilter) SetGt(v any) *RangeFilter { return f.bound("gt", v) }

// SetLte sets the inclusive upper bound.
func (f *RangeFilter) SetLte(v any) *RangeFilter { return f.bound("lte", v) }

// SetLt sets the exclusive upper bound.
func (f *RangeFilter) SetLt(v any) *RangeFilter { return f.bound("lt", v) }

// Bound returns one of gte, gt, lte or lt, if set.
func (f *RangeFilter) Bound(key string) (any, bool) {
	v, ok := f.Body().Child(f.field)[key]
	return v, ok
}

/***** exists *****/

// ExistsFilter keeps documents that have a value in field.
type ExistsFilter struct {
	dsl.FilterMixin[*ExistsFilter]
}

// NewExistsFilter returns {"exists": {"field": field}}.
func NewExistsFilter(field string) (*ExistsFilter, error) {
	if err := requireField("exists", field); err != nil {
		return nil, err
	}
	f := &ExistsFilter{}
	f.FilterMixin = dsl.NewFilterMixin("exists", f)
	f.Body()["field"] = field
	return f, nil
}

// Field returns the field.
func (f *ExistsFilter) Field() string {
	field, _ := dsl.Lookup[string](f.Body(), "field")
	return field
}

/***** fquery *****/

// QueryFilter wraps a query so it can be used in filter context:
// {"fquery": {"query": {...}}}.
type QueryFilter struct {
	dsl.FilterMixin[*QueryFilter]
}

// NewQueryFilter wraps q. A nil query is a TypeError.
func NewQueryFilter(q dsl.Query) (*QueryFilter, error) {
	if dsl.IsNil(q) {
		return nil, &dsl.TypeError{Op: "fquery", Want: "Query", Got: nil}
	}
	f := &QueryFilter{}
	f.FilterMixin = dsl.NewFilterMixin("fquery", f)
	return f.SetQuery(q), nil
}

// SetQuery replaces the wrapped query.
func (f *QueryFilter) SetQuery(q dsl.Query) *QueryFilter {
	if !dsl.IsNil(q) {
		f.Body()["query"] = dsl.CloneObject(q.Document())
	}
	return f
}

// AssignQuery is the runtime-checked form of SetQuery.
func (f *QueryFilter) AssignQuery(v any) error {
	return dsl.AssignSingle(f.Body(), "query", "fquery.query", "Query", dsl.IsQuery, v)
}

// Query returns the wrapped query document.
func (f *QueryFilter) Query() dsl.Object {
	q, _ := dsl.Lookup[dsl.Object](f.Body(), "query")
	return q
}
