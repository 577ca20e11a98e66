package dsl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMixin_SeedsRoot(t *testing.T) {
	m, err := NewMixin(KindQuery, "bool")
	require.NoError(t, err)

	assert.Equal(t, KindQuery, m.Kind())
	assert.Equal(t, "bool", m.Root())
	assert.Equal(t, Object{"bool": Object{}}, m.Document())
}

func TestNewMixin_EmptyRoot(t *testing.T) {
	_, err := NewMixin(KindAggregation, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.True(t, IsTypeError(err))
}

func TestNewFlat(t *testing.T) {
	m := NewFlat(KindShape)
	m.Body()["type"] = "point"

	assert.Equal(t, "", m.Root())
	assert.Equal(t, Object{"type": "point"}, m.Document())
}

func TestQueryMixin_Boost(t *testing.T) {
	q := newTestQuery("match_all")

	_, ok := q.Boost()
	assert.False(t, ok, "boost unset on a new query")

	got := q.SetBoost(1.5)
	assert.Same(t, q, got, "setter returns the builder for chaining")

	boost, ok := q.Boost()
	require.True(t, ok)
	assert.Equal(t, 1.5, boost)
	assert.Equal(t, Object{"match_all": Object{"boost": 1.5}}, q.Document())
}

func TestQueryMixin_BoostIgnoresNonFinite(t *testing.T) {
	q := newTestQuery("match_all").SetBoost(2)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Same(t, q, q.SetBoost(bad))
	}

	boost, _ := q.Boost()
	assert.Equal(t, 2.0, boost)
	_, err := Encode(q)
	assert.NoError(t, err)
}

func TestMixin_DocumentIsLive(t *testing.T) {
	q := newTestQuery("match_all")
	doc := q.Document()

	q.SetBoost(2)

	assert.Equal(t, 2.0, doc["match_all"].(Object)["boost"], "earlier Document() reflects later setters")
}

func TestFilterMixin_CacheKnobs(t *testing.T) {
	f := newTestFilter("exists").SetName("has_user").SetCache(true).SetCacheKey("k1")

	name, _ := f.Name()
	cache, _ := f.Cache()
	key, _ := f.CacheKey()
	assert.Equal(t, "has_user", name)
	assert.True(t, cache)
	assert.Equal(t, "k1", key)
	assert.Equal(t, KindFilter, f.Kind())
}

func TestFilterMixin_EmptyStringIsAbsent(t *testing.T) {
	f := newTestFilter("exists").SetName("a").SetName("")

	name, ok := f.Name()
	assert.True(t, ok)
	assert.Equal(t, "a", name, "empty string leaves the previous value")
}

func TestMetricsMixin_Accessors(t *testing.T) {
	m := mustTestMetrics(t, "price_max", "max")
	m.SetField("price").
		SetScript("doc['price'].value * factor").
		SetLang("painless").
		SetScriptValuesSorted(true).
		SetParams(map[string]any{"factor": 2})

	field, _ := m.Field()
	script, _ := m.Script()
	lang, _ := m.Lang()
	sorted, _ := m.ScriptValuesSorted()
	params, _ := m.Params()

	assert.Equal(t, "price", field)
	assert.Equal(t, "doc['price'].value * factor", script, "field and script coexist")
	assert.Equal(t, "painless", lang)
	assert.True(t, sorted)
	assert.Equal(t, map[string]any{"factor": 2}, params)
	assert.Equal(t, "price_max", m.Name())
	assert.Equal(t, "max", m.Metric())

	want := Object{"price_max": Object{"max": Object{
		"field":                "price",
		"script":               "doc['price'].value * factor",
		"lang":                 "painless",
		"script_values_sorted": true,
		"params":               map[string]any{"factor": 2},
	}}}
	assert.Equal(t, want, m.Document())
}

func TestMetricsMixin_RequiresName(t *testing.T) {
	_, err := NewMetricsMixin("", "max", &testMetrics{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestAggregationMixin_SubAggregationsAreCopies(t *testing.T) {
	parent := mustTestMetrics(t, "outer", "stats")
	child := mustTestMetrics(t, "inner", "max").SetField("a")

	parent.AddAggregation(child, nil)
	child.SetField("b")

	aggs, ok := parent.Aggregations()
	require.True(t, ok)
	assert.Equal(t, Object{"inner": Object{"max": Object{"field": "a"}}}, aggs,
		"mutating the child after embedding is not visible in the parent")
}

func TestAggregationMixin_AssignAggregation(t *testing.T) {
	parent := mustTestMetrics(t, "outer", "stats")
	a := mustTestMetrics(t, "a", "max")
	b := mustTestMetrics(t, "b", "min")

	require.NoError(t, parent.AssignAggregation([]Aggregation{a, b}))
	aggs, _ := parent.Aggregations()
	assert.Len(t, aggs, 2)

	err := parent.AssignAggregation([]any{a, newTestQuery("match_all")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outer.aggs[1]")
	aggs, _ = parent.Aggregations()
	assert.Len(t, aggs, 2, "rejected sequence leaves the aggs untouched")
}

func TestAggregationMixin_Meta(t *testing.T) {
	m := mustTestMetrics(t, "x", "avg").SetMeta(map[string]any{"color": "blue"})

	meta, ok := m.Meta()
	require.True(t, ok)
	assert.Equal(t, "blue", meta["color"])
}

func TestFacetMixin_Mode(t *testing.T) {
	f := mustTestFacet(t, "tags")

	f.SetMode("POST")
	mode, _ := f.Mode()
	assert.Equal(t, "post", mode, "mode is case folded")

	got := f.SetMode("bogus")
	assert.Same(t, f, got)
	mode, _ = f.Mode()
	assert.Equal(t, "post", mode, "invalid mode is dropped")
}

func TestFacetMixin_FacetFilter(t *testing.T) {
	f := mustTestFacet(t, "tags")
	filter := newTestFilter("exists").SetName("n")

	f.SetFacetFilter(filter).SetGlobal(true).SetScope("s").SetCacheFilter(false).SetNested("comments")

	ff, ok := f.FacetFilter()
	require.True(t, ok)
	assert.Equal(t, Object{"exists": Object{"_name": "n"}}, ff)

	err := f.AssignFacetFilter(newTestQuery("match_all"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	ff, _ = f.FacetFilter()
	assert.Equal(t, Object{"exists": Object{"_name": "n"}}, ff, "failed assign leaves the filter")

	global, _ := f.Global()
	nested, _ := f.Nested()
	assert.True(t, global)
	assert.Equal(t, "comments", nested)
}

func TestNewSortMixin_EmptyField(t *testing.T) {
	_, err := NewSortMixin("")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	s, err := NewSortMixin("date")
	require.NoError(t, err)
	assert.True(t, IsSort(s))
}
