package agg

import "github.com/roach88/esq/internal/dsl"

// CompositeAggregation pages through every bucket combination of its
// sources:
//
//	{name: {"composite": {"sources": [{src: {"terms": {...}}}, ...], "size": n, "after": {...}}}}
//
// Sources are terms, histogram or date_histogram aggregations. Their names
// become the keys of each composite bucket.
type CompositeAggregation struct {
	dsl.AggregationMixin[*CompositeAggregation]
	sources dsl.Slot
}

// NewComposite returns a composite aggregation with an empty source list.
func NewComposite(name string) (*CompositeAggregation, error) {
	a := &CompositeAggregation{}
	m, err := dsl.NewAggregationMixin(name, a)
	if err != nil {
		return nil, err
	}
	a.AggregationMixin = m
	a.sources = dsl.NewSlot(a.opts(), "sources", name+".sources", "composite source", isSource)
	a.sources.Items()
	return a, nil
}

// Source is an aggregation usable as a composite value source: terms,
// histogram or date_histogram.
type Source interface {
	dsl.Aggregation
	compositeSource()
}

// isSource reports whether v can be a composite value source.
func isSource(v any) bool {
	if !dsl.IsAggregation(v) {
		return false
	}
	_, ok := v.(Source)
	return ok
}

func (a *CompositeAggregation) opts() dsl.Object { return a.Body().Child("composite") }

// AddSources appends value sources.
func (a *CompositeAggregation) AddSources(srcs ...Source) *CompositeAggregation {
	a.sources.Append(dsl.Builders(srcs)...)
	return a
}

// Sources returns the live source list.
func (a *CompositeAggregation) Sources() []dsl.Object { return a.sources.Items() }

// AssignSources appends one source or atomically replaces the list with a
// sequence of sources.
func (a *CompositeAggregation) AssignSources(v any) error { return a.sources.Assign(v) }

// SetSize sets the number of composite buckets per page.
func (a *CompositeAggregation) SetSize(size int) *CompositeAggregation {
	a.opts()["size"] = size
	return a
}

// Size returns the page size, if set.
func (a *CompositeAggregation) Size() (int, bool) { return dsl.Lookup[int](a.opts(), "size") }

// SetAfter resumes paging after the given composite key.
func (a *CompositeAggregation) SetAfter(after map[string]any) *CompositeAggregation {
	if after != nil {
		a.opts()["after"] = after
	}
	return a
}

// After returns the after key, if set.
func (a *CompositeAggregation) After() (map[string]any, bool) {
	return dsl.Lookup[map[string]any](a.opts(), "after")
}
