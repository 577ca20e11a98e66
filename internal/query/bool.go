package query

import "github.com/roach88/esq/internal/dsl"

// BoolQuery matches documents matching boolean combinations of other
// queries.
//
// The clause accessors follow one pattern: AddX appends, X returns the live
// clause list and AssignX takes a runtime value (one builder appends, a
// sequence replaces the whole list).
type BoolQuery struct {
	dsl.QueryMixin[*BoolQuery]

	must        dsl.Slot
	mustNot     dsl.Slot
	should      dsl.Slot
	filter      dsl.Slot
	filterQuery dsl.Slot
}

// NewBoolQuery returns an empty bool query.
func NewBoolQuery() *BoolQuery {
	q := &BoolQuery{}
	q.QueryMixin = dsl.NewQueryMixin("bool", q)

	body := q.Body()
	q.must = dsl.NewSlot(body, "must", "bool.must", "Query", dsl.IsQuery)
	q.mustNot = dsl.NewSlot(body, "must_not", "bool.must_not", "Query", dsl.IsQuery)
	q.should = dsl.NewSlot(body, "should", "bool.should", "Query", dsl.IsQuery)
	// filter and filter_query share the bool.filter array.
	q.filter = dsl.NewSlot(body, "filter", "bool.filter", "Filter", dsl.IsFilter)
	q.filterQuery = dsl.NewSlot(body, "filter", "bool.filter_query", "Query", dsl.IsQuery)
	return q
}

// AddMust adds queries that must appear in matching documents.
func (q *BoolQuery) AddMust(qs ...dsl.Query) *BoolQuery {
	q.must.Append(dsl.Builders(qs)...)
	return q
}

// Must returns the live must clause list.
func (q *BoolQuery) Must() []dsl.Object { return q.must.Items() }

// AssignMust is the runtime-checked form of AddMust.
func (q *BoolQuery) AssignMust(v any) error { return q.must.Assign(v) }

// AddMustNot adds queries that must not appear in matching documents.
func (q *BoolQuery) AddMustNot(qs ...dsl.Query) *BoolQuery {
	q.mustNot.Append(dsl.Builders(qs)...)
	return q
}

// MustNot returns the live must_not clause list.
func (q *BoolQuery) MustNot() []dsl.Object { return q.mustNot.Items() }

// AssignMustNot is the runtime-checked form of AddMustNot.
func (q *BoolQuery) AssignMustNot(v any) error { return q.mustNot.Assign(v) }

// AddShould adds queries that should appear in matching documents.
func (q *BoolQuery) AddShould(qs ...dsl.Query) *BoolQuery {
	q.should.Append(dsl.Builders(qs)...)
	return q
}

// Should returns the live should clause list.
func (q *BoolQuery) Should() []dsl.Object { return q.should.Items() }

// AssignShould is the runtime-checked form of AddShould.
func (q *BoolQuery) AssignShould(v any) error { return q.should.Assign(v) }

// AddFilter adds filters in filter context.
func (q *BoolQuery) AddFilter(fs ...dsl.Filter) *BoolQuery {
	q.filter.Append(dsl.Builders(fs)...)
	return q
}

// Filter returns the live filter clause list.
func (q *BoolQuery) Filter() []dsl.Object { return q.filter.Items() }

// AssignFilter is the runtime-checked form of AddFilter.
func (q *BoolQuery) AssignFilter(v any) error { return q.filter.Assign(v) }

// AddFilterQuery adds queries in filter context. They land in the same
// list as AddFilter.
func (q *BoolQuery) AddFilterQuery(qs ...dsl.Query) *BoolQuery {
	q.filterQuery.Append(dsl.Builders(qs)...)
	return q
}

// FilterQuery returns the live filter clause list (the same list as Filter).
func (q *BoolQuery) FilterQuery() []dsl.Object { return q.filterQuery.Items() }

// AssignFilterQuery is the runtime-checked form of AddFilterQuery.
func (q *BoolQuery) AssignFilterQuery(v any) error { return q.filterQuery.Assign(v) }

// SetAdjustPureNegative controls whether a query with only must_not clauses
// is enhanced with a match_all so it acts as a pure exclude.
func (q *BoolQuery) SetAdjustPureNegative(adjust bool) *BoolQuery {
	q.Body()["adjust_pure_negative"] = adjust
	return q
}

// AdjustPureNegative returns adjust_pure_negative, if set.
func (q *BoolQuery) AdjustPureNegative() (bool, bool) {
	return dsl.Lookup[bool](q.Body(), "adjust_pure_negative")
}

// SetDisableCoord enables or disables coord scoring.
// Deprecated on the wire since Elasticsearch 6; Lint reports it.
func (q *BoolQuery) SetDisableCoord(disable bool) *BoolQuery {
	q.Body()["disable_coord"] = disable
	return q
}

// DisableCoord returns disable_coord, if set.
func (q *BoolQuery) DisableCoord() (bool, bool) {
	return dsl.Lookup[bool](q.Body(), "disable_coord")
}

// SetMinimumShouldMatch sets a fixed number of optional clauses that must
// match. Negative values count clauses that may be missing.
func (q *BoolQuery) SetMinimumShouldMatch(n int) *BoolQuery {
	q.Body()["minimum_should_match"] = n
	return q
}

// SetMinimumShouldMatchSpec sets minimum_should_match from a textual
// specification such as "75%", "-25%" or "3<90%".
func (q *BoolQuery) SetMinimumShouldMatchSpec(spec string) *BoolQuery {
	if spec != "" {
		q.Body()["minimum_should_match"] = spec
	}
	return q
}

// MinimumShouldMatch returns minimum_should_match (an int or a string), if set.
func (q *BoolQuery) MinimumShouldMatch() (any, bool) {
	v, ok := q.Body()["minimum_should_match"]
	return v, ok
}
