package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esq/internal/dsl"
)

func TestMatchAllQuery(t *testing.T) {
	q := NewMatchAllQuery().SetBoost(1.2)

	assert.Equal(t, dsl.Object{"match_all": dsl.Object{"boost": 1.2}}, q.Document())
}

func TestTermQuery(t *testing.T) {
	q := mustTerm(t, "user", "kimchy").SetBoost(2)

	assert.Equal(t, "kimchy", q.Value())
	assert.Equal(t, dsl.Object{"term": dsl.Object{
		"user": dsl.Object{"value": "kimchy", "boost": 2.0},
	}}, q.Document())

	q.SetValue(nil).SetValue("shay")
	assert.Equal(t, "shay", q.Value())

	_, err := NewTermQuery("user", nil)
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)
	_, err = NewTermQuery("", "x")
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)
}

func TestTermsQuery(t *testing.T) {
	q, err := NewTermsQuery("tags", "go", "es")
	require.NoError(t, err)

	q.AddValues("search", nil).SetBoost(3)

	want := dsl.Object{"terms": dsl.Object{
		"tags":  []any{"go", "es", "search"},
		"boost": 3.0,
	}}
	if diff := cmp.Diff(want, q.Document()); diff != "" {
		t.Errorf("terms document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "tags", q.Field())
}

func TestMatchQuery(t *testing.T) {
	q, err := NewMatchQuery("message", "this is a test")
	require.NoError(t, err)

	q.SetOperator("AND").SetOperator("xor").SetAnalyzer("standard").SetFuzziness("AUTO")

	op, _ := q.Operator()
	analyzer, _ := q.Analyzer()
	fuzz, _ := q.Fuzziness()
	assert.Equal(t, "and", op)
	assert.Equal(t, "standard", analyzer)
	assert.Equal(t, "AUTO", fuzz)
	assert.Equal(t, "this is a test", q.Query())
}

func TestRangeQuery(t *testing.T) {
	q, err := NewRangeQuery("born")
	require.NoError(t, err)

	q.SetGte("now-1d/d").SetLt("now/d").SetFormat("yyyy-MM-dd").SetTimeZone("+01:00").SetField("created")

	assert.Equal(t, dsl.Object{"range": dsl.Object{"created": dsl.Object{
		"gte":       "now-1d/d",
		"lt":        "now/d",
		"format":    "yyyy-MM-dd",
		"time_zone": "+01:00",
	}}}, q.Document())

	v, ok := q.Bound("gte")
	require.True(t, ok)
	assert.Equal(t, "now-1d/d", v)
	_, ok = q.Bound("gt")
	assert.False(t, ok)
}

func TestExistsQuery(t *testing.T) {
	q, err := NewExistsQuery("user")
	require.NoError(t, err)

	assert.Equal(t, "user", q.Field())
	assert.Equal(t, dsl.Object{"exists": dsl.Object{"field": "user"}}, q.Document())

	_, err = NewExistsQuery("")
	assert.Error(t, err)
}

func TestQueries_ImplementQuery(t *testing.T) {
	term := mustTerm(t, "a", 1)
	gs := mustGeoShape(t, "loc")
	exists, _ := NewExistsQuery("a")
	terms, _ := NewTermsQuery("a")
	match, _ := NewMatchQuery("a", "b")
	rng, _ := NewRangeQuery("a")

	for _, q := range []dsl.Query{NewBoolQuery(), NewMatchAllQuery(), term, gs, exists, terms, match, rng} {
		assert.True(t, dsl.IsQuery(q), "%T", q)
		assert.False(t, dsl.IsFilter(q), "%T", q)
	}
}
