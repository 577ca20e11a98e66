// Package agg provides Aggregation builders: numeric metrics, the terms,
// histogram and date_histogram bucket aggregations, and composite.
package agg

import "github.com/roach88/esq/internal/dsl"

// MetricsAggregation is a single or multi value numeric metric computed
// over a field or a script: {name: {metric: {...}}}.
type MetricsAggregation struct {
	dsl.MetricsMixin[*MetricsAggregation]
}

func newMetrics(name, metric string) (*MetricsAggregation, error) {
	a := &MetricsAggregation{}
	m, err := dsl.NewMetricsMixin(name, metric, a)
	if err != nil {
		return nil, err
	}
	a.MetricsMixin = m
	return a, nil
}

// NewMax keeps track of the maximum value.
func NewMax(name string) (*MetricsAggregation, error) { return newMetrics(name, "max") }

// NewMin keeps track of the minimum value.
func NewMin(name string) (*MetricsAggregation, error) { return newMetrics(name, "min") }

// NewAvg computes the average.
func NewAvg(name string) (*MetricsAggregation, error) { return newMetrics(name, "avg") }

// NewSum sums the values.
func NewSum(name string) (*MetricsAggregation, error) { return newMetrics(name, "sum") }

// NewStats computes min, max, sum, count and avg.
func NewStats(name string) (*MetricsAggregation, error) { return newMetrics(name, "stats") }

// NewExtendedStats is NewStats plus sum_of_squares, variance and
// std_deviation.
func NewExtendedStats(name string) (*MetricsAggregation, error) {
	return newMetrics(name, "extended_stats")
}

// NewValueCount counts the values extracted.
func NewValueCount(name string) (*MetricsAggregation, error) {
	return newMetrics(name, "value_count")
}

// SetMissing sets the value used for documents without the field.
func (a *MetricsAggregation) SetMissing(v any) *MetricsAggregation {
	if !dsl.IsNil(v) {
		a.Body().Child(a.Metric())["missing"] = v
	}
	return a
}

// Missing returns the missing value, if set.
func (a *MetricsAggregation) Missing() (any, bool) {
	v, ok := a.Body().Child(a.Metric())["missing"]
	return v, ok
}
