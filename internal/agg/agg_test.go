package agg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esq/internal/dsl"
	"github.com/roach88/esq/internal/query"
)

func TestMetrics_Constructors(t *testing.T) {
	tests := []struct {
		ctor   func(string) (*MetricsAggregation, error)
		metric string
	}{
		{NewMax, "max"},
		{NewMin, "min"},
		{NewAvg, "avg"},
		{NewSum, "sum"},
		{NewStats, "stats"},
		{NewExtendedStats, "extended_stats"},
		{NewValueCount, "value_count"},
	}

	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			a, err := tt.ctor("price")
			require.NoError(t, err)

			assert.Equal(t, dsl.KindAggregation, a.Kind())
			assert.Equal(t, "price", a.Name())
			assert.Equal(t, dsl.Object{"price": dsl.Object{tt.metric: dsl.Object{}}}, a.Document())

			_, err = tt.ctor("")
			assert.ErrorIs(t, err, dsl.ErrTypeMismatch, "name is required")
		})
	}
}

func TestMaxAggregation_FieldScriptParams(t *testing.T) {
	a, err := NewMax("max_price")
	require.NoError(t, err)

	a.SetField("price").SetScript("_value * rate").SetParams(map[string]any{"rate": 1.2}).SetMissing(0)

	assert.Equal(t, dsl.Object{"max_price": dsl.Object{"max": dsl.Object{
		"field":   "price",
		"script":  "_value * rate",
		"params":  map[string]any{"rate": 1.2},
		"missing": 0,
	}}}, a.Document())
}

func TestExtendedStats_NestedUnderTerms(t *testing.T) {
	stats, err := NewExtendedStats("grades")
	require.NoError(t, err)
	stats.SetField("grade")

	terms, err := NewTerms("by_class")
	require.NoError(t, err)
	terms.SetField("class").SetSize(5).AddAggregation(stats)

	want := dsl.Object{"by_class": dsl.Object{
		"terms": dsl.Object{"field": "class", "size": 5},
		"aggs": dsl.Object{
			"grades": dsl.Object{"extended_stats": dsl.Object{"field": "grade"}},
		},
	}}
	if diff := cmp.Diff(want, terms.Document()); diff != "" {
		t.Errorf("terms document mismatch (-want +got):\n%s", diff)
	}
}

func TestTermsAggregation_Order(t *testing.T) {
	a, err := NewTerms("genres")
	require.NoError(t, err)

	a.SetOrderBy("_count", "DESC").SetOrderBy("_key", "sideways")

	order, ok := a.Order()
	require.True(t, ok)
	assert.Equal(t, dsl.Object{"_count": "desc"}, order, "invalid direction is dropped")
}

func TestHistogram(t *testing.T) {
	a, err := NewHistogram("prices", 50)
	require.NoError(t, err)
	a.SetField("price").SetMinDocCount(1).SetExtendedBounds(0, 500)

	assert.Equal(t, 50.0, a.Interval())
	assert.Equal(t, "histogram", a.BucketKind())

	_, err = NewHistogram("prices", 0)
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)
}

func TestDateHistogram_IntervalsExclusive(t *testing.T) {
	a, err := NewDateHistogram("per_month")
	require.NoError(t, err)

	a.SetField("date").SetFixedInterval("30d").SetCalendarInterval("1M").SetTimeZone("Europe/Berlin")

	assert.Equal(t, dsl.Object{"per_month": dsl.Object{"date_histogram": dsl.Object{
		"field":             "date",
		"calendar_interval": "1M",
		"time_zone":         "Europe/Berlin",
	}}}, a.Document())
}

func TestComposite_Sources(t *testing.T) {
	product, err := NewTerms("product")
	require.NoError(t, err)
	product.SetField("product.keyword").SetOrder("asc").SetMissingBucket(true)

	day, err := NewDateHistogram("date")
	require.NoError(t, err)
	day.SetField("timestamp").SetCalendarInterval("1d")

	c, err := NewComposite("my_buckets")
	require.NoError(t, err)
	c.AddSources(product, day).SetSize(100).SetAfter(map[string]any{"product": "x", "date": 1})

	want := dsl.Object{"my_buckets": dsl.Object{"composite": dsl.Object{
		"sources": []dsl.Object{
			{"product": dsl.Object{"terms": dsl.Object{"field": "product.keyword", "order": "asc", "missing_bucket": true}}},
			{"date": dsl.Object{"date_histogram": dsl.Object{"field": "timestamp", "calendar_interval": "1d"}}},
		},
		"size":  100,
		"after": map[string]any{"product": "x", "date": 1},
	}}}
	if diff := cmp.Diff(want, c.Document()); diff != "" {
		t.Errorf("composite document mismatch (-want +got):\n%s", diff)
	}
}

func TestComposite_EmptySources(t *testing.T) {
	c, err := NewComposite("empty")
	require.NoError(t, err)

	assert.Equal(t, []dsl.Object{}, c.Sources())
	assert.Equal(t, `{"empty":{"composite":{"sources":[]}}}`, string(dsl.Must(dsl.Encode(c))))
}

func TestComposite_AssignSources(t *testing.T) {
	c, err := NewComposite("c")
	require.NoError(t, err)
	t1 := dsl.Must(NewTerms("a"))
	t2 := dsl.Must(NewTerms("b"))
	require.NoError(t, c.AssignSources(t1))
	require.NoError(t, c.AssignSources([]Source{t1, t2}))
	assert.Len(t, c.Sources(), 2, "sequence replaces")

	maxAgg := dsl.Must(NewMax("m"))
	err = c.AssignSources([]dsl.Aggregation{t1, maxAgg})
	require.Error(t, err)
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "c.sources[1]")
	assert.Len(t, c.Sources(), 2, "rejected sequence leaves sources intact")

	err = c.AssignSources(query.NewMatchAllQuery())
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)
}

func TestAggregations_SubAggregationCopied(t *testing.T) {
	child := dsl.Must(NewAvg("avg_price"))
	parent := dsl.Must(NewTerms("by_brand")).AddAggregation(child)

	child.SetField("changed")

	aggs, ok := parent.Aggregations()
	require.True(t, ok)
	assert.Equal(t, dsl.Object{"avg_price": dsl.Object{"avg": dsl.Object{}}}, aggs)
}
