// Package search provides the search request body and the builders that
// only make sense at its top level: sorts and rescores.
package search

import (
	"math"

	"github.com/roach88/esq/internal/dsl"
)

// Request is a complete search request body. Every child builder is deep
// copied when it is added.
type Request struct {
	*dsl.Mixin

	sort    dsl.Slot
	rescore dsl.Slot
}

// NewRequest returns an empty request body.
func NewRequest() *Request {
	r := &Request{Mixin: dsl.NewFlat(dsl.KindRequest)}
	r.sort = dsl.NewSlot(r.Body(), "sort", "request.sort", "Sort", dsl.IsSort)
	r.rescore = dsl.NewSlot(r.Body(), "rescore", "request.rescore", "Rescore", dsl.IsRescore)
	return r
}

// SetQuery sets the query.
func (r *Request) SetQuery(q dsl.Query) *Request {
	if !dsl.IsNil(q) {
		r.Body()["query"] = dsl.CloneObject(q.Document())
	}
	return r
}

// AssignQuery is the runtime-checked form of SetQuery.
func (r *Request) AssignQuery(v any) error {
	return dsl.AssignSingle(r.Body(), "query", "request.query", "Query", dsl.IsQuery, v)
}

// Query returns the query document, if set.
func (r *Request) Query() (dsl.Object, bool) { return dsl.Lookup[dsl.Object](r.Body(), "query") }

// SetPostFilter filters hits after aggregations are computed.
func (r *Request) SetPostFilter(f dsl.Filter) *Request {
	if !dsl.IsNil(f) {
		r.Body()["post_filter"] = dsl.CloneObject(f.Document())
	}
	return r
}

// AssignPostFilter is the runtime-checked form of SetPostFilter.
func (r *Request) AssignPostFilter(v any) error {
	return dsl.AssignSingle(r.Body(), "post_filter", "request.post_filter", "Filter", dsl.IsFilter, v)
}

// PostFilter returns the post filter document, if set.
func (r *Request) PostFilter() (dsl.Object, bool) {
	return dsl.Lookup[dsl.Object](r.Body(), "post_filter")
}

// AddAggregation adds top level aggregations keyed by name. A later
// aggregation with the same name replaces the earlier one.
func (r *Request) AddAggregation(aggs ...dsl.Aggregation) *Request {
	for _, a := range aggs {
		// Assign cannot fail for a non-nil Aggregation.
		_ = r.AssignAggregation(a)
	}
	return r
}

// AssignAggregation takes one Aggregation or a sequence of them.
func (r *Request) AssignAggregation(v any) error {
	return dsl.AssignKeyed(r.Body(), "aggs", "request.aggs", "Aggregation", dsl.IsAggregation, v)
}

// Aggregations returns the aggregations object, if any were added.
func (r *Request) Aggregations() (dsl.Object, bool) { return dsl.Lookup[dsl.Object](r.Body(), "aggs") }

// AddFacet adds facets keyed by name.
func (r *Request) AddFacet(facets ...dsl.Facet) *Request {
	for _, f := range facets {
		_ = r.AssignFacet(f)
	}
	return r
}

// AssignFacet takes one Facet or a sequence of them.
func (r *Request) AssignFacet(v any) error {
	return dsl.AssignKeyed(r.Body(), "facets", "request.facets", "Facet", dsl.IsFacet, v)
}

// Facets returns the facets object, if any were added.
func (r *Request) Facets() (dsl.Object, bool) { return dsl.Lookup[dsl.Object](r.Body(), "facets") }

// AddSort appends sort clauses.
func (r *Request) AddSort(sorts ...dsl.Sort) *Request {
	r.sort.Append(dsl.Builders(sorts)...)
	return r
}

// Sorts returns the live sort list.
func (r *Request) Sorts() []dsl.Object { return r.sort.Items() }

// AssignSort appends one Sort or replaces the list with a sequence.
func (r *Request) AssignSort(v any) error { return r.sort.Assign(v) }

// AddRescore appends rescores. They run in order.
func (r *Request) AddRescore(rescores ...dsl.Rescore) *Request {
	r.rescore.Append(dsl.Builders(rescores)...)
	return r
}

// Rescores returns the live rescore list.
func (r *Request) Rescores() []dsl.Object { return r.rescore.Items() }

// AssignRescore appends one Rescore or replaces the list with a sequence.
func (r *Request) AssignRescore(v any) error { return r.rescore.Assign(v) }

// SetSize sets the number of hits returned.
func (r *Request) SetSize(size int) *Request {
	r.Body()["size"] = size
	return r
}

// Size returns the size, if set.
func (r *Request) Size() (int, bool) { return dsl.Lookup[int](r.Body(), "size") }

// SetFrom sets the offset of the first hit.
func (r *Request) SetFrom(from int) *Request {
	r.Body()["from"] = from
	return r
}

// From returns the offset, if set.
func (r *Request) From() (int, bool) { return dsl.Lookup[int](r.Body(), "from") }

// SetMinScore drops hits scoring below score. NaN and infinities are
// rejected.
func (r *Request) SetMinScore(score float64) (*Request, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return r, &dsl.TypeError{Op: "request.min_score", Want: "Number", Got: score}
	}
	r.Body()["min_score"] = score
	return r, nil
}

// MinScore returns min_score, if set.
func (r *Request) MinScore() (float64, bool) { return dsl.Lookup[float64](r.Body(), "min_score") }

// SetExplain returns a score explanation with every hit.
func (r *Request) SetExplain(explain bool) *Request {
	r.Body()["explain"] = explain
	return r
}

// SetTrackScores computes scores even when sorting on a field.
func (r *Request) SetTrackScores(track bool) *Request {
	r.Body()["track_scores"] = track
	return r
}

// SetTimeout bounds the search time, e.g. "2s".
func (r *Request) SetTimeout(timeout string) *Request {
	if timeout != "" {
		r.Body()["timeout"] = timeout
	}
	return r
}

// Timeout returns the timeout, if set.
func (r *Request) Timeout() (string, bool) { return dsl.Lookup[string](r.Body(), "timeout") }
