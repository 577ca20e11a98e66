package registry

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esq/internal/dsl"
	"github.com/roach88/esq/internal/query"
)

func TestDefault_Types(t *testing.T) {
	r := Default()
	types := r.Types()

	for _, want := range []string{
		"query.bool", "query.geo_shape", "query.match_all", "query.term",
		"filter.term", "filter.query",
		"agg.max", "agg.extended_stats", "agg.terms", "agg.composite",
		"facet.terms_stats",
		"geo.shape", "geo.indexed_shape",
		"search.rescore", "search.sort", "search.request",
	} {
		assert.Contains(t, types, want)
	}
	assert.IsNonDecreasing(t, types)
}

func TestDefault_EntriesBuildTheirKind(t *testing.T) {
	r := Default()
	args := map[string][]any{
		"query.geo_shape":    {"location"},
		"query.term":         {"user", "kimchy"},
		"query.terms":        {"tag", "a", "b"},
		"query.match":        {"title", "quick fox"},
		"query.range":        {"age"},
		"query.exists":       {"user"},
		"filter.term":        {"user", "kimchy"},
		"filter.terms":       {"tag", "a"},
		"filter.range":       {"age"},
		"filter.exists":      {"user"},
		"filter.query":       {query.NewMatchAllQuery()},
		"agg.histogram":      {"prices", 50},
		"facet.terms_stats":  {"stats"},
		"geo.shape":          {"point", []any{1.0, 2.0}},
		"geo.indexed_shape":  {"shapes", "deu"},
		"search.rescore":     {50, query.NewMatchAllQuery()},
		"search.sort":        {"date"},
		"agg.terms":          {"brands"},
		"agg.date_histogram": {"per_day"},
		"agg.composite":      {"pages"},
	}
	for _, typ := range r.Types() {
		e, _ := r.Lookup(typ)
		a, ok := args[typ]
		if !ok && e.Kind == dsl.KindAggregation {
			a = []any{"name"}
		}
		b, err := r.Build(typ, a)
		require.NoError(t, err, typ)
		assert.Equal(t, e.Kind, b.Kind(), typ)
	}
}

func TestBuild_UnknownType(t *testing.T) {
	_, err := Default().Build("query.fuzzy", nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestBuild_Arity(t *testing.T) {
	r := Default()

	_, err := r.Build("query.term", []any{"user"})
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)

	_, err = r.Build("query.match_all", []any{"extra"})
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)

	b, err := r.Build("query.terms", []any{"tag", "a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, dsl.Object{"terms": dsl.Object{"tag": []any{"a", "b", "c"}}}, b.Document())
}

func TestBuild_RescoreWindowSizeMustBeInteger(t *testing.T) {
	r := Default()
	q := query.NewMatchAllQuery()

	_, err := r.Build("search.rescore", []any{"fifty", q})
	require.Error(t, err)
	assert.True(t, dsl.IsTypeError(err))
	assert.Contains(t, err.Error(), "rescore.window_size")

	b, err := r.Build("search.rescore", []any{json.Number("50"), q})
	require.NoError(t, err)
	assert.Equal(t, 50, b.Document()["window_size"])
}

func TestBuild_EmptyFieldIsTypeError(t *testing.T) {
	_, err := Default().Build("query.geo_shape", []any{""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query.geo_shape.field")
}

func TestSet(t *testing.T) {
	r := Default()
	b, err := r.Build("query.bool", nil)
	require.NoError(t, err)

	term, err := r.Build("query.term", []any{"user", "kimchy"})
	require.NoError(t, err)

	require.NoError(t, r.Set(b, "query.bool", "must", []any{term}))
	require.NoError(t, r.Set(b, "query.bool", "boost", 1.5))
	require.NoError(t, r.Set(b, "query.bool", "minimum_should_match", "75%"))

	assert.Equal(t, dsl.Object{"bool": dsl.Object{
		"must":                 []dsl.Object{{"term": dsl.Object{"user": dsl.Object{"value": "kimchy"}}}},
		"boost":                1.5,
		"minimum_should_match": "75%",
	}}, b.Document())

	require.NoError(t, r.Set(b, "query.bool", "minimum_should_match", 2))
	msm, _ := b.(*query.BoolQuery).MinimumShouldMatch()
	assert.Equal(t, 2, msm)
}

func TestSet_Errors(t *testing.T) {
	r := Default()
	b, err := r.Build("query.bool", nil)
	require.NoError(t, err)

	err = r.Set(b, "query.bool", "should_not", true)
	assert.ErrorIs(t, err, ErrUnknownKey)

	err = r.Set(b, "query.bool", "boost", "high")
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "query.bool.boost")

	err = r.Set(b, "query.bool", "minimum_should_match", true)
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)

	err = r.Set(b, "query.bool", "boost", math.Inf(1))
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)

	// Setter for another type.
	err = r.Set(b, "query.match_all", "boost", 1.0)
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)

	assert.Equal(t, dsl.Object{"bool": dsl.Object{}}, b.Document())
}

func TestSet_OrderAcceptsDirectionOrObject(t *testing.T) {
	r := Default()
	b, err := r.Build("agg.terms", []any{"brands"})
	require.NoError(t, err)

	require.NoError(t, r.Set(b, "agg.terms", "order", map[string]any{"_count": "asc"}))
	assert.Equal(t, dsl.Object{"_count": "asc"}, b.Document().Child("brands").Child("terms")["order"])

	require.NoError(t, r.Set(b, "agg.terms", "order", "desc"))
	assert.Equal(t, "desc", b.Document().Child("brands").Child("terms")["order"])

	err = r.Set(b, "agg.terms", "order", map[string]any{"a": "asc", "b": "desc"})
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)
}

func TestSet_FilterMixinKeys(t *testing.T) {
	r := Default()
	b, err := r.Build("filter.exists", []any{"user"})
	require.NoError(t, err)

	require.NoError(t, r.Set(b, "filter.exists", "_name", "has_user"))
	require.NoError(t, r.Set(b, "filter.exists", "_cache", true))

	assert.Equal(t, dsl.Object{"exists": dsl.Object{
		"field":  "user",
		"_name":  "has_user",
		"_cache": true,
	}}, b.Document())
}

func TestRegister(t *testing.T) {
	r := New()
	noop := func([]any) (dsl.Builder, error) { return query.NewMatchAllQuery(), nil }

	require.NoError(t, r.Register(&Entry{Type: "x.one", Kind: dsl.KindQuery, New: noop}))

	err := r.Register(&Entry{Type: "x.two", New: noop}, &Entry{Type: "x.one", New: noop})
	assert.ErrorIs(t, err, ErrDuplicateType)
	_, ok := r.Lookup("x.two")
	assert.False(t, ok, "a failed register adds nothing")

	assert.Error(t, r.Register(&Entry{Type: "x.three"}))

	oneSided := &Entry{
		Type:    "x.four",
		New:     noop,
		Setters: map[string]Setter{"a": floatSetter((*query.MatchAllQuery).SetBoost)},
		Shared:  map[string]string{"a": "b"},
	}
	assert.ErrorContains(t, r.Register(oneSided), "key pairing a/b")
}

func TestEntry_Metadata(t *testing.T) {
	r := Default()

	e, _ := r.Lookup("query.bool")
	assert.Contains(t, e.Deprecated, "disable_coord")
	assert.Equal(t, []string{"adjust_pure_negative", "boost", "disable_coord"}, e.Keys()[:3])

	e, _ = r.Lookup("facet.terms_stats")
	assert.Contains(t, e.Deprecated, "")

	e, _ = r.Lookup("geo.shape")
	assert.True(t, e.Enums["args[0]"].Contains("polygon"))

	e, _ = r.Lookup("agg.terms")
	assert.True(t, e.Enums["order"].Contains("asc"))
	e, _ = r.Lookup("agg.max")
	assert.Nil(t, e.Enums)
}

func TestEntry_KeyPairings(t *testing.T) {
	r := Default()

	e, _ := r.Lookup("query.bool")
	assert.Equal(t, map[string]string{"filter": "filter_query", "filter_query": "filter"}, e.Shared)

	e, _ = r.Lookup("query.geo_shape")
	assert.Equal(t, "indexed_shape", e.Exclusive["shape"])
	assert.Equal(t, "shape", e.Exclusive["indexed_shape"])

	e, _ = r.Lookup("agg.date_histogram")
	assert.Equal(t, "fixed_interval", e.Exclusive["calendar_interval"])
}

func TestEntry_EnumsMatchBuilders(t *testing.T) {
	r := Default()

	e, _ := r.Lookup("query.geo_shape")
	assert.Equal(t, query.ShapeRelations.Values(), e.Enums["relation"].Values())
	assert.Equal(t, query.ShapeStrategies.Values(), e.Enums["strategy"].Values())

	e, _ = r.Lookup("facet.terms_stats")
	assert.Equal(t, dsl.FacetModes.Values(), e.Enums["mode"].Values())
}
