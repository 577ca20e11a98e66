package agg

import "github.com/roach88/esq/internal/dsl"

// OrderDirections are the bucket order directions.
var OrderDirections = dsl.NewEnum("asc", "desc")

// valuesSource is the shared part of bucket aggregations that read values
// from a field or script: {name: {kind: {...}}}. The same builders double as
// composite sources.
type valuesSource[T any] struct {
	dsl.AggregationMixin[T]
	kind string
	self T
}

func newValuesSource[T any](name, kind string, self T) (valuesSource[T], error) {
	agg, err := dsl.NewAggregationMixin(name, self)
	if err != nil {
		return valuesSource[T]{}, err
	}
	agg.Body()[kind] = dsl.Object{}
	return valuesSource[T]{AggregationMixin: agg, kind: kind, self: self}, nil
}

func (valuesSource[T]) compositeSource() {}

func (v valuesSource[T]) opts() dsl.Object { return v.Body().Child(v.kind) }

func (v valuesSource[T]) setString(key, s string) T {
	if s != "" {
		v.opts()[key] = s
	}
	return v.self
}

// BucketKind returns the aggregation type key, e.g. "terms".
func (v valuesSource[T]) BucketKind() string { return v.kind }

// SetField sets the field values are read from.
func (v valuesSource[T]) SetField(field string) T { return v.setString("field", field) }

// Field returns the field, if set.
func (v valuesSource[T]) Field() (string, bool) { return dsl.Lookup[string](v.opts(), "field") }

// SetScript sets a script producing the values.
func (v valuesSource[T]) SetScript(script string) T { return v.setString("script", script) }

// Script returns the script, if set.
func (v valuesSource[T]) Script() (string, bool) { return dsl.Lookup[string](v.opts(), "script") }

// SetMinDocCount hides buckets with fewer documents.
func (v valuesSource[T]) SetMinDocCount(n int) T {
	v.opts()["min_doc_count"] = n
	return v.self
}

// MinDocCount returns min_doc_count, if set.
func (v valuesSource[T]) MinDocCount() (int, bool) { return dsl.Lookup[int](v.opts(), "min_doc_count") }

// SetOrderBy orders buckets by key (e.g. "_count", "_key" or a sub
// aggregation name) in direction asc or desc. An invalid direction is
// ignored.
func (v valuesSource[T]) SetOrderBy(key, direction string) T {
	if d, ok := OrderDirections.Normalize(direction); ok && key != "" {
		v.opts()["order"] = dsl.Object{key: d}
	}
	return v.self
}

// SetOrder sets the plain direction used when the builder is a composite
// source. An invalid direction is ignored.
func (v valuesSource[T]) SetOrder(direction string) T {
	if d, ok := OrderDirections.Normalize(direction); ok {
		v.opts()["order"] = d
	}
	return v.self
}

// Order returns the order (a direction or an object), if set.
func (v valuesSource[T]) Order() (any, bool) {
	o, ok := v.opts()["order"]
	return o, ok
}

// SetMissing sets the value used for documents without the field.
func (v valuesSource[T]) SetMissing(missing any) T {
	if !dsl.IsNil(missing) {
		v.opts()["missing"] = missing
	}
	return v.self
}

// SetMissingBucket puts documents without a value in their own bucket
// (composite sources only).
func (v valuesSource[T]) SetMissingBucket(missing bool) T {
	v.opts()["missing_bucket"] = missing
	return v.self
}

/***** terms *****/

// TermsAggregation buckets documents by unique field value.
type TermsAggregation struct {
	valuesSource[*TermsAggregation]
}

// NewTerms returns {name: {"terms": {}}}.
func NewTerms(name string) (*TermsAggregation, error) {
	a := &TermsAggregation{}
	vs, err := newValuesSource(name, "terms", a)
	if err != nil {
		return nil, err
	}
	a.valuesSource = vs
	return a, nil
}

// SetSize sets the number of buckets returned.
func (a *TermsAggregation) SetSize(size int) *TermsAggregation {
	a.opts()["size"] = size
	return a
}

// Size returns the size, if set.
func (a *TermsAggregation) Size() (int, bool) { return dsl.Lookup[int](a.opts(), "size") }

// SetShardSize sets how many candidate buckets each shard returns.
func (a *TermsAggregation) SetShardSize(size int) *TermsAggregation {
	a.opts()["shard_size"] = size
	return a
}

// SetInclude keeps only terms matching the pattern.
func (a *TermsAggregation) SetInclude(pattern string) *TermsAggregation {
	return a.setString("include", pattern)
}

// SetExclude drops terms matching the pattern.
func (a *TermsAggregation) SetExclude(pattern string) *TermsAggregation {
	return a.setString("exclude", pattern)
}

/***** histogram *****/

// HistogramAggregation buckets numeric values into fixed size intervals.
type HistogramAggregation struct {
	valuesSource[*HistogramAggregation]
}

// NewHistogram returns {name: {"histogram": {"interval": interval}}}.
// The interval must be positive.
func NewHistogram(name string, interval float64) (*HistogramAggregation, error) {
	if !(interval > 0) {
		return nil, &dsl.TypeError{Op: "histogram.interval", Want: "positive number", Got: interval}
	}
	a := &HistogramAggregation{}
	vs, err := newValuesSource(name, "histogram", a)
	if err != nil {
		return nil, err
	}
	a.valuesSource = vs
	a.opts()["interval"] = interval
	return a, nil
}

// Interval returns the bucket interval.
func (a *HistogramAggregation) Interval() float64 {
	i, _ := dsl.Lookup[float64](a.opts(), "interval")
	return i
}

// SetOffset shifts bucket boundaries.
func (a *HistogramAggregation) SetOffset(offset float64) *HistogramAggregation {
	a.opts()["offset"] = offset
	return a
}

// SetKeyed returns buckets as an object keyed by bucket key.
func (a *HistogramAggregation) SetKeyed(keyed bool) *HistogramAggregation {
	a.opts()["keyed"] = keyed
	return a
}

// SetExtendedBounds forces empty buckets between low and high to be returned.
func (a *HistogramAggregation) SetExtendedBounds(low, high float64) *HistogramAggregation {
	a.opts()["extended_bounds"] = dsl.Object{"min": low, "max": high}
	return a
}

/***** date_histogram *****/

// DateHistogramAggregation buckets dates into calendar or fixed intervals.
type DateHistogramAggregation struct {
	valuesSource[*DateHistogramAggregation]
}

// NewDateHistogram returns {name: {"date_histogram": {}}}.
func NewDateHistogram(name string) (*DateHistogramAggregation, error) {
	a := &DateHistogramAggregation{}
	vs, err := newValuesSource(name, "date_histogram", a)
	if err != nil {
		return nil, err
	}
	a.valuesSource = vs
	return a, nil
}

// SetCalendarInterval sets a calendar aware interval such as "1M" or "week".
// It replaces any fixed interval.
func (a *DateHistogramAggregation) SetCalendarInterval(interval string) *DateHistogramAggregation {
	if interval != "" {
		delete(a.opts(), "fixed_interval")
		a.opts()["calendar_interval"] = interval
	}
	return a
}

// SetFixedInterval sets a fixed interval such as "90s". It replaces any
// calendar interval.
func (a *DateHistogramAggregation) SetFixedInterval(interval string) *DateHistogramAggregation {
	if interval != "" {
		delete(a.opts(), "calendar_interval")
		a.opts()["fixed_interval"] = interval
	}
	return a
}

// SetFormat sets the format of bucket keys as strings.
func (a *DateHistogramAggregation) SetFormat(format string) *DateHistogramAggregation {
	return a.setString("format", format)
}

// SetTimeZone sets the time zone used for bucketing.
func (a *DateHistogramAggregation) SetTimeZone(tz string) *DateHistogramAggregation {
	return a.setString("time_zone", tz)
}

// SetOffset shifts bucket boundaries, e.g. "+6h".
func (a *DateHistogramAggregation) SetOffset(offset string) *DateHistogramAggregation {
	return a.setString("offset", offset)
}
