package query

import "github.com/roach88/esq/internal/dsl"

// MatchAllQuery matches every document.
type MatchAllQuery struct {
	dsl.QueryMixin[*MatchAllQuery]
}

// NewMatchAllQuery returns {"match_all": {}}.
func NewMatchAllQuery() *MatchAllQuery {
	q := &MatchAllQuery{}
	q.QueryMixin = dsl.NewQueryMixin("match_all", q)
	return q
}

/***** term *****/

// TermQuery matches documents whose field contains the exact term.
type TermQuery struct {
	fieldQuery[*TermQuery]
}

// NewTermQuery returns {"term": {field: {"value": value}}}.
func NewTermQuery(field string, value any) (*TermQuery, error) {
	if dsl.IsNil(value) {
		return nil, &dsl.TypeError{Op: "term", Want: "term value", Got: value}
	}
	q := &TermQuery{}
	fq, err := newFieldQuery("term", field, q)
	if err != nil {
		return nil, err
	}
	q.fieldQuery = fq
	q.fieldBody()["value"] = value
	return q, nil
}

// Value returns the term.
func (q *TermQuery) Value() any { return q.fieldBody()["value"] }

// SetValue replaces the term. nil is ignored.
func (q *TermQuery) SetValue(value any) *TermQuery {
	if !dsl.IsNil(value) {
		q.fieldBody()["value"] = value
	}
	return q
}

/***** terms *****/

// TermsQuery matches documents whose field contains any of the terms.
// Boost sits next to the field key: {"terms": {field: [...], "boost": b}}.
type TermsQuery struct {
	dsl.QueryMixin[*TermsQuery]
	field string
}

// NewTermsQuery returns {"terms": {field: values}}.
func NewTermsQuery(field string, values ...any) (*TermsQuery, error) {
	if field == "" {
		return nil, &dsl.TypeError{Op: "terms", Want: "non-empty field name", Got: field}
	}
	q := &TermsQuery{field: field}
	q.QueryMixin = dsl.NewQueryMixin("terms", q)
	q.Body()[field] = []any{}
	return q.AddValues(values...), nil
}

// Field returns the field being queried.
func (q *TermsQuery) Field() string { return q.field }

// AddValues appends terms. nil values are skipped.
func (q *TermsQuery) AddValues(values ...any) *TermsQuery {
	terms := q.Values()
	for _, v := range values {
		if !dsl.IsNil(v) {
			terms = append(terms, v)
		}
	}
	q.Body()[q.field] = terms
	return q
}

// Values returns the live term list.
func (q *TermsQuery) Values() []any {
	terms, _ := dsl.Lookup[[]any](q.Body(), q.field)
	return terms
}

/***** match *****/

// MatchOperators are the boolean operators a match query accepts.
var MatchOperators = dsl.NewEnum("or", "and")

// MatchQuery is a full text query analysed with the field's analyzer.
type MatchQuery struct {
	fieldQuery[*MatchQuery]
}

// NewMatchQuery returns {"match": {field: {"query": text}}}.
func NewMatchQuery(field, text string) (*MatchQuery, error) {
	q := &MatchQuery{}
	fq, err := newFieldQuery("match", field, q)
	if err != nil {
		return nil, err
	}
	q.fieldQuery = fq
	q.fieldBody()["query"] = text
	return q, nil
}

// Query returns the query text.
func (q *MatchQuery) Query() string {
	text, _ := dsl.Lookup[string](q.fieldBody(), "query")
	return text
}

// SetOperator sets how terms combine: or (default) or and.
// Other values are ignored.
func (q *MatchQuery) SetOperator(op string) *MatchQuery {
	if v, ok := MatchOperators.Normalize(op); ok {
		q.fieldBody()["operator"] = v
	}
	return q
}

// Operator returns the operator, if set.
func (q *MatchQuery) Operator() (string, bool) {
	return dsl.Lookup[string](q.fieldBody(), "operator")
}

// SetAnalyzer overrides the search analyzer.
func (q *MatchQuery) SetAnalyzer(analyzer string) *MatchQuery {
	if analyzer != "" {
		q.fieldBody()["analyzer"] = analyzer
	}
	return q
}

// Analyzer returns the analyzer, if set.
func (q *MatchQuery) Analyzer() (string, bool) {
	return dsl.Lookup[string](q.fieldBody(), "analyzer")
}

// SetFuzziness sets the allowed edit distance, e.g. "AUTO" or "2".
func (q *MatchQuery) SetFuzziness(fuzziness string) *MatchQuery {
	if fuzziness != "" {
		q.fieldBody()["fuzziness"] = fuzziness
	}
	return q
}

// Fuzziness returns the fuzziness, if set.
func (q *MatchQuery) Fuzziness() (string, bool) {
	return dsl.Lookup[string](q.fieldBody(), "fuzziness")
}

/***** range *****/

// RangeQuery matches documents with field values inside the given bounds.
type RangeQuery struct {
	fieldQuery[*RangeQuery]
}

// NewRangeQuery returns {"range": {field: {}}}.
func NewRangeQuery(field string) (*RangeQuery, error) {
	q := &RangeQuery{}
	fq, err := newFieldQuery("range", field, q)
	if err != nil {
		return nil, err
	}
	q.fieldQuery = fq
	return q, nil
}

func (q *RangeQuery) bound(key string, v any) *RangeQuery {
	if !dsl.IsNil(v) {
		q.fieldBody()[key] = v
	}
	return q
}

// SetGte sets the inclusive lower bound.
func (q *RangeQuery) SetGte(v any) *RangeQuery { return q.bound("gte", v) }

// SetGt sets the exclusive lower bound.
func (q *RangeQuery) SetGt(v any) *RangeQuery { return q.bound("gt", v) }

// SetLte sets the inclusive upper bound.
func (q *RangeQuery) SetLte(v any) *RangeQuery { return q.bound("lte", v) }

// SetLt sets the exclusive upper bound.
func (q *RangeQuery) SetLt(v any) *RangeQuery { return q.bound("lt", v) }

// Bound returns one of gte, gt, lte or lt, if set.
func (q *RangeQuery) Bound(key string) (any, bool) {
	v, ok := q.fieldBody()[key]
	return v, ok
}

// SetFormat sets the date format used to parse the bounds.
func (q *RangeQuery) SetFormat(format string) *RangeQuery {
	if format != "" {
		q.fieldBody()["format"] = format
	}
	return q
}

// SetTimeZone sets the time zone applied to date bounds.
func (q *RangeQuery) SetTimeZone(tz string) *RangeQuery {
	if tz != "" {
		q.fieldBody()["time_zone"] = tz
	}
	return q
}

/***** exists *****/

// ExistsQuery matches documents that have a value in field.
type ExistsQuery struct {
	dsl.QueryMixin[*ExistsQuery]
}

// NewExistsQuery returns {"exists": {"field": field}}.
func NewExistsQuery(field string) (*ExistsQuery, error) {
	if field == "" {
		return nil, &dsl.TypeError{Op: "exists", Want: "non-empty field name", Got: field}
	}
	q := &ExistsQuery{}
	q.QueryMixin = dsl.NewQueryMixin("exists", q)
	q.Body()["field"] = field
	return q, nil
}

// Field returns the field.
func (q *ExistsQuery) Field() string {
	field, _ := dsl.Lookup[string](q.Body(), "field")
	return field
}
