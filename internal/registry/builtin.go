package registry

import (
	"fmt"

	"github.com/roach88/esq/internal/agg"
	"github.com/roach88/esq/internal/dsl"
	"github.com/roach88/esq/internal/facet"
	"github.com/roach88/esq/internal/filter"
	"github.com/roach88/esq/internal/geo"
	"github.com/roach88/esq/internal/query"
	"github.com/roach88/esq/internal/search"
)

// Default returns a registry holding every builder esq ships.
func Default() *Registry {
	r := New()
	groups := [][]*Entry{queryEntries(), filterEntries(), aggEntries(), facetEntries(), geoEntries(), searchEntries()}
	for _, g := range groups {
		if err := r.Register(g...); err != nil {
			panic(fmt.Sprintf("registry: builtin entries: %v", err))
		}
	}
	return r
}

/***** queries *****/

func queryEntries() []*Entry {
	return []*Entry{
		{
			Type: "query.bool",
			Kind: dsl.KindQuery,
			New:  func([]any) (dsl.Builder, error) { return query.NewBoolQuery(), nil },
			Setters: map[string]Setter{
				"boost":                floatSetter((*query.BoolQuery).SetBoost),
				"must":                 assignSetter((*query.BoolQuery).AssignMust),
				"must_not":             assignSetter((*query.BoolQuery).AssignMustNot),
				"should":               assignSetter((*query.BoolQuery).AssignShould),
				"filter":               assignSetter((*query.BoolQuery).AssignFilter),
				"filter_query":         assignSetter((*query.BoolQuery).AssignFilterQuery),
				"adjust_pure_negative": boolSetter((*query.BoolQuery).SetAdjustPureNegative),
				"disable_coord":        boolSetter((*query.BoolQuery).SetDisableCoord),
				"minimum_should_match": minimumShouldMatch,
			},
			Deprecated: map[string]string{
				"disable_coord": "disable_coord was removed in Elasticsearch 6.0",
			},
			Shared: pair("filter", "filter_query"),
		},
		{
			Type:    "query.geo_shape",
			Kind:    dsl.KindQuery,
			Args:    []string{"field"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("query.geo_shape", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return query.NewGeoShapeQuery(field)
			},
			Setters: map[string]Setter{
				"field":         stringSetter((*query.GeoShapeQuery).SetField),
				"shape":         assignSetter((*query.GeoShapeQuery).AssignShape),
				"indexed_shape": assignSetter((*query.GeoShapeQuery).AssignIndexedShape),
				"relation":      stringSetter((*query.GeoShapeQuery).SetRelation),
				"strategy":      stringSetter((*query.GeoShapeQuery).SetStrategy),
				"boost":         floatSetter((*query.GeoShapeQuery).SetBoost),
			},
			Enums:     map[string]dsl.Enum{"relation": query.ShapeRelations, "strategy": query.ShapeStrategies},
			Exclusive: pair("shape", "indexed_shape"),
		},
		{
			Type: "query.match_all",
			Kind: dsl.KindQuery,
			New:  func([]any) (dsl.Builder, error) { return query.NewMatchAllQuery(), nil },
			Setters: map[string]Setter{
				"boost": floatSetter((*query.MatchAllQuery).SetBoost),
			},
		},
		{
			Type:    "query.term",
			Kind:    dsl.KindQuery,
			Args:    []string{"field", "value"},
			MinArgs: 2,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("query.term", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return query.NewTermQuery(field, args[1])
			},
			Setters: map[string]Setter{
				"field": stringSetter((*query.TermQuery).SetField),
				"value": valueSetter((*query.TermQuery).SetValue),
				"boost": floatSetter((*query.TermQuery).SetBoost),
			},
		},
		{
			Type:     "query.terms",
			Kind:     dsl.KindQuery,
			Args:     []string{"field"},
			MinArgs:  1,
			Variadic: true,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("query.terms", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return query.NewTermsQuery(field, args[1:]...)
			},
			Setters: map[string]Setter{
				"boost": floatSetter((*query.TermsQuery).SetBoost),
			},
		},
		{
			Type:    "query.match",
			Kind:    dsl.KindQuery,
			Args:    []string{"field", "query"},
			MinArgs: 2,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("query.match", args, 0, "field")
				if err != nil {
					return nil, err
				}
				text, err := stringArg("query.match", args, 1, "query")
				if err != nil {
					return nil, err
				}
				return query.NewMatchQuery(field, text)
			},
			Setters: map[string]Setter{
				"field":     stringSetter((*query.MatchQuery).SetField),
				"operator":  stringSetter((*query.MatchQuery).SetOperator),
				"analyzer":  stringSetter((*query.MatchQuery).SetAnalyzer),
				"fuzziness": stringSetter((*query.MatchQuery).SetFuzziness),
				"boost":     floatSetter((*query.MatchQuery).SetBoost),
			},
			Enums: map[string]dsl.Enum{"operator": query.MatchOperators},
		},
		{
			Type:    "query.range",
			Kind:    dsl.KindQuery,
			Args:    []string{"field"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("query.range", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return query.NewRangeQuery(field)
			},
			Setters: map[string]Setter{
				"field":     stringSetter((*query.RangeQuery).SetField),
				"gte":       valueSetter((*query.RangeQuery).SetGte),
				"gt":        valueSetter((*query.RangeQuery).SetGt),
				"lte":       valueSetter((*query.RangeQuery).SetLte),
				"lt":        valueSetter((*query.RangeQuery).SetLt),
				"format":    stringSetter((*query.RangeQuery).SetFormat),
				"time_zone": stringSetter((*query.RangeQuery).SetTimeZone),
				"boost":     floatSetter((*query.RangeQuery).SetBoost),
			},
		},
		{
			Type:    "query.exists",
			Kind:    dsl.KindQuery,
			Args:    []string{"field"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("query.exists", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return query.NewExistsQuery(field)
			},
			Setters: map[string]Setter{
				"boost": floatSetter((*query.ExistsQuery).SetBoost),
			},
		},
	}
}

// minimumShouldMatch accepts an integer or a textual specification.
func minimumShouldMatch(op string, b dsl.Builder, v any) error {
	q, err := asBuilder[*query.BoolQuery](op, b)
	if err != nil {
		return err
	}
	if n, ok := dsl.AsInt(v); ok {
		q.SetMinimumShouldMatch(n)
		return nil
	}
	if s, ok := dsl.AsString(v); ok && s != "" {
		q.SetMinimumShouldMatchSpec(s)
		return nil
	}
	return &dsl.TypeError{Op: op, Want: "integer or string", Got: v}
}

/***** filters *****/

// cacheDeprecations applies to every filter: filter caching became
// automatic in Elasticsearch 2.0.
var cacheDeprecations = map[string]string{
	"_cache":     "_cache is ignored since Elasticsearch 2.0",
	"_cache_key": "_cache_key is ignored since Elasticsearch 2.0",
}

// withFilterMixin adds the FilterMixin setters to a filter entry.
func withFilterMixin[B interface {
	dsl.Filter
	SetName(string) B
	SetCache(bool) B
	SetCacheKey(string) B
}](setters map[string]Setter) map[string]Setter {
	setters["_name"] = stringSetter(func(f B, name string) B { return f.SetName(name) })
	setters["_cache"] = boolSetter(func(f B, cache bool) B { return f.SetCache(cache) })
	setters["_cache_key"] = stringSetter(func(f B, key string) B { return f.SetCacheKey(key) })
	return setters
}

func filterEntries() []*Entry {
	return []*Entry{
		{
			Type:    "filter.term",
			Kind:    dsl.KindFilter,
			Args:    []string{"field", "value"},
			MinArgs: 2,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("filter.term", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return filter.NewTermFilter(field, args[1])
			},
			Setters:    withFilterMixin[*filter.TermFilter](map[string]Setter{}),
			Deprecated: cacheDeprecations,
		},
		{
			Type:     "filter.terms",
			Kind:     dsl.KindFilter,
			Args:     []string{"field"},
			MinArgs:  1,
			Variadic: true,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("filter.terms", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return filter.NewTermsFilter(field, args[1:]...)
			},
			Setters: withFilterMixin[*filter.TermsFilter](map[string]Setter{
				"execution": stringSetter((*filter.TermsFilter).SetExecution),
			}),
			Enums:      map[string]dsl.Enum{"execution": filter.TermsExecutions},
			Deprecated: cacheDeprecations,
		},
		{
			Type:    "filter.range",
			Kind:    dsl.KindFilter,
			Args:    []string{"field"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("filter.range", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return filter.NewRangeFilter(field)
			},
			Setters: withFilterMixin[*filter.RangeFilter](map[string]Setter{
				"gte": valueSetter((*filter.RangeFilter).SetGte),
				"gt":  valueSetter((*filter.RangeFilter).SetGt),
				"lte": valueSetter((*filter.RangeFilter).SetLte),
				"lt":  valueSetter((*filter.RangeFilter).SetLt),
			}),
			Deprecated: cacheDeprecations,
		},
		{
			Type:    "filter.exists",
			Kind:    dsl.KindFilter,
			Args:    []string{"field"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("filter.exists", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return filter.NewExistsFilter(field)
			},
			Setters:    withFilterMixin[*filter.ExistsFilter](map[string]Setter{}),
			Deprecated: cacheDeprecations,
		},
		{
			Type:    "filter.query",
			Kind:    dsl.KindFilter,
			Args:    []string{"query"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				if !dsl.IsQuery(args[0]) {
					return nil, &dsl.TypeError{Op: "filter.query.query", Want: "Query", Got: args[0]}
				}
				return filter.NewQueryFilter(args[0].(dsl.Query))
			},
			Setters: withFilterMixin[*filter.QueryFilter](map[string]Setter{
				"query": assignSetter((*filter.QueryFilter).AssignQuery),
			}),
			Deprecated: cacheDeprecations,
		},
	}
}

/***** aggregations *****/

func metricsEntry(metric string, ctor func(string) (*agg.MetricsAggregation, error)) *Entry {
	typ := "agg." + metric
	return &Entry{
		Type:    typ,
		Kind:    dsl.KindAggregation,
		Args:    []string{"name"},
		MinArgs: 1,
		New: func(args []any) (dsl.Builder, error) {
			name, err := stringArg(typ, args, 0, "name")
			if err != nil {
				return nil, err
			}
			return ctor(name)
		},
		Setters: map[string]Setter{
			"field":                stringSetter((*agg.MetricsAggregation).SetField),
			"script":               stringSetter((*agg.MetricsAggregation).SetScript),
			"lang":                 stringSetter((*agg.MetricsAggregation).SetLang),
			"script_values_sorted": boolSetter((*agg.MetricsAggregation).SetScriptValuesSorted),
			"params":               mapSetter((*agg.MetricsAggregation).SetParams),
			"missing":              valueSetter((*agg.MetricsAggregation).SetMissing),
			"meta":                 mapSetter((*agg.MetricsAggregation).SetMeta),
			"aggs":                 assignSetter((*agg.MetricsAggregation).AssignAggregation),
		},
	}
}

// bucketSetters are shared by the values-source bucket aggregations.
func bucketSetters[B interface {
	dsl.Aggregation
	SetField(string) B
	SetScript(string) B
	SetMinDocCount(int) B
	SetOrder(string) B
	SetOrderBy(string, string) B
	SetMissing(any) B
	SetMissingBucket(bool) B
	SetMeta(map[string]any) B
	AssignAggregation(any) error
}](extra map[string]Setter) map[string]Setter {
	setters := map[string]Setter{
		"field":          stringSetter(func(a B, field string) B { return a.SetField(field) }),
		"script":         stringSetter(func(a B, script string) B { return a.SetScript(script) }),
		"min_doc_count":  intSetter(func(a B, n int) B { return a.SetMinDocCount(n) }),
		"order":          orderSetter[B](),
		"missing":        valueSetter(func(a B, v any) B { return a.SetMissing(v) }),
		"missing_bucket": boolSetter(func(a B, missing bool) B { return a.SetMissingBucket(missing) }),
		"meta":           mapSetter(func(a B, meta map[string]any) B { return a.SetMeta(meta) }),
		"aggs":           assignSetter(func(a B, v any) error { return a.AssignAggregation(v) }),
	}
	for k, s := range extra {
		setters[k] = s
	}
	return setters
}

// orderSetter accepts a direction ("asc") or a single-key object
// ({"_count": "desc"}).
func orderSetter[B interface {
	dsl.Builder
	SetOrder(string) B
	SetOrderBy(string, string) B
}]() Setter {
	return func(op string, b dsl.Builder, v any) error {
		typed, err := asBuilder[B](op, b)
		if err != nil {
			return err
		}
		if dir, ok := dsl.AsString(v); ok {
			typed.SetOrder(dir)
			return nil
		}
		m, err := toMap(op, v)
		if err != nil || len(m) != 1 {
			return &dsl.TypeError{Op: op, Want: "direction or {key: direction}", Got: v}
		}
		for key, dir := range m {
			s, ok := dsl.AsString(dir)
			if !ok {
				return &dsl.TypeError{Op: op, Want: "direction string", Got: dir}
			}
			typed.SetOrderBy(key, s)
		}
		return nil
	}
}

func aggEntries() []*Entry {
	entries := []*Entry{
		metricsEntry("max", agg.NewMax),
		metricsEntry("min", agg.NewMin),
		metricsEntry("avg", agg.NewAvg),
		metricsEntry("sum", agg.NewSum),
		metricsEntry("stats", agg.NewStats),
		metricsEntry("extended_stats", agg.NewExtendedStats),
		metricsEntry("value_count", agg.NewValueCount),
		{
			Type:    "agg.terms",
			Kind:    dsl.KindAggregation,
			Args:    []string{"name"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				name, err := stringArg("agg.terms", args, 0, "name")
				if err != nil {
					return nil, err
				}
				return agg.NewTerms(name)
			},
			Setters: bucketSetters[*agg.TermsAggregation](map[string]Setter{
				"size":       intSetter((*agg.TermsAggregation).SetSize),
				"shard_size": intSetter((*agg.TermsAggregation).SetShardSize),
				"include":    stringSetter((*agg.TermsAggregation).SetInclude),
				"exclude":    stringSetter((*agg.TermsAggregation).SetExclude),
			}),
		},
		{
			Type:    "agg.histogram",
			Kind:    dsl.KindAggregation,
			Args:    []string{"name", "interval"},
			MinArgs: 2,
			New: func(args []any) (dsl.Builder, error) {
				name, err := stringArg("agg.histogram", args, 0, "name")
				if err != nil {
					return nil, err
				}
				interval, err := toFloat("agg.histogram.interval", args[1])
				if err != nil {
					return nil, err
				}
				return agg.NewHistogram(name, interval)
			},
			Setters: bucketSetters[*agg.HistogramAggregation](map[string]Setter{
				"offset": floatSetter((*agg.HistogramAggregation).SetOffset),
				"keyed":  boolSetter((*agg.HistogramAggregation).SetKeyed),
			}),
		},
		{
			Type:    "agg.date_histogram",
			Kind:    dsl.KindAggregation,
			Args:    []string{"name"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				name, err := stringArg("agg.date_histogram", args, 0, "name")
				if err != nil {
					return nil, err
				}
				return agg.NewDateHistogram(name)
			},
			Setters: bucketSetters[*agg.DateHistogramAggregation](map[string]Setter{
				"calendar_interval": stringSetter((*agg.DateHistogramAggregation).SetCalendarInterval),
				"fixed_interval":    stringSetter((*agg.DateHistogramAggregation).SetFixedInterval),
				"format":            stringSetter((*agg.DateHistogramAggregation).SetFormat),
				"time_zone":         stringSetter((*agg.DateHistogramAggregation).SetTimeZone),
				"offset":            stringSetter((*agg.DateHistogramAggregation).SetOffset),
			}),
			Exclusive: pair("calendar_interval", "fixed_interval"),
		},
		{
			Type:    "agg.composite",
			Kind:    dsl.KindAggregation,
			Args:    []string{"name"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				name, err := stringArg("agg.composite", args, 0, "name")
				if err != nil {
					return nil, err
				}
				return agg.NewComposite(name)
			},
			Setters: map[string]Setter{
				"sources": assignSetter((*agg.CompositeAggregation).AssignSources),
				"size":    intSetter((*agg.CompositeAggregation).SetSize),
				"after":   mapSetter((*agg.CompositeAggregation).SetAfter),
				"meta":    mapSetter((*agg.CompositeAggregation).SetMeta),
				"aggs":    assignSetter((*agg.CompositeAggregation).AssignAggregation),
			},
		},
	}
	for _, e := range entries {
		if _, ok := e.Setters["order"]; ok {
			e.Enums = map[string]dsl.Enum{"order": agg.OrderDirections}
		}
	}
	return entries
}

/***** facets *****/

func facetEntries() []*Entry {
	return []*Entry{
		{
			Type:    "facet.terms_stats",
			Kind:    dsl.KindFacet,
			Args:    []string{"name"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				name, err := stringArg("facet.terms_stats", args, 0, "name")
				if err != nil {
					return nil, err
				}
				return facet.NewTermStatsFacet(name)
			},
			Setters: map[string]Setter{
				"key_field":    stringSetter((*facet.TermStatsFacet).SetKeyField),
				"value_field":  stringSetter((*facet.TermStatsFacet).SetValueField),
				"script_field": stringSetter((*facet.TermStatsFacet).SetScriptField),
				"value_script": stringSetter((*facet.TermStatsFacet).SetValueScript),
				"all_terms":    boolSetter((*facet.TermStatsFacet).SetAllTerms),
				"lang":         stringSetter((*facet.TermStatsFacet).SetLang),
				"params":       mapSetter((*facet.TermStatsFacet).SetParams),
				"size":         intSetter((*facet.TermStatsFacet).SetSize),
				"order":        stringSetter((*facet.TermStatsFacet).SetOrder),
				"facet_filter": assignSetter((*facet.TermStatsFacet).AssignFacetFilter),
				"global":       boolSetter((*facet.TermStatsFacet).SetGlobal),
				"mode":         stringSetter((*facet.TermStatsFacet).SetMode),
				"scope":        stringSetter((*facet.TermStatsFacet).SetScope),
				"cache_filter": boolSetter((*facet.TermStatsFacet).SetCacheFilter),
				"nested":       stringSetter((*facet.TermStatsFacet).SetNested),
			},
			Enums: map[string]dsl.Enum{"order": facet.TermStatsOrders, "mode": dsl.FacetModes},
			Deprecated: map[string]string{
				"": "facets were removed in Elasticsearch 2.0, use aggregations",
			},
		},
	}
}

/***** geo *****/

func geoEntries() []*Entry {
	return []*Entry{
		{
			Type:    "geo.shape",
			Kind:    dsl.KindShape,
			Args:    []string{"type", "coordinates"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				typ, err := stringArg("geo.shape", args, 0, "type")
				if err != nil {
					return nil, err
				}
				return geo.NewShape(typ, args[1]), nil
			},
			Setters: map[string]Setter{
				"type":        stringSetter((*geo.Shape).SetType),
				"coordinates": valueSetter((*geo.Shape).SetCoordinates),
				"radius":      stringSetter((*geo.Shape).SetRadius),
			},
			Enums: map[string]dsl.Enum{"type": geo.ShapeTypes, "args[0]": geo.ShapeTypes},
		},
		{
			Type:    "geo.indexed_shape",
			Kind:    dsl.KindIndexedShape,
			Args:    []string{"type", "id"},
			MinArgs: 2,
			New: func(args []any) (dsl.Builder, error) {
				typ, err := stringArg("geo.indexed_shape", args, 0, "type")
				if err != nil {
					return nil, err
				}
				id, err := stringArg("geo.indexed_shape", args, 1, "id")
				if err != nil {
					return nil, err
				}
				return geo.NewIndexedShape(typ, id)
			},
			Setters: map[string]Setter{
				"id":    stringSetter((*geo.IndexedShape).SetID),
				"type":  stringSetter((*geo.IndexedShape).SetType),
				"index": stringSetter((*geo.IndexedShape).SetIndex),
				"path":  stringSetter((*geo.IndexedShape).SetPath),
			},
		},
	}
}

/***** search *****/

func searchEntries() []*Entry {
	return []*Entry{
		{
			Type: "search.rescore",
			Kind: dsl.KindRescore,
			Args: []string{"window_size", "query"},
			New: func(args []any) (dsl.Builder, error) {
				return search.BuildRescore(args[0], args[1])
			},
			Setters: map[string]Setter{
				"window_size":          intSetter((*search.Rescore).SetWindowSize),
				"rescore_query":        assignSetter((*search.Rescore).AssignRescoreQuery),
				"query_weight":         checkedFloatSetter((*search.Rescore).SetQueryWeight),
				"rescore_query_weight": checkedFloatSetter((*search.Rescore).SetRescoreQueryWeight),
				"score_mode":           stringSetter((*search.Rescore).SetScoreMode),
			},
			Enums: map[string]dsl.Enum{"score_mode": search.ScoreModes},
		},
		{
			Type:    "search.sort",
			Kind:    dsl.KindSort,
			Args:    []string{"field"},
			MinArgs: 1,
			New: func(args []any) (dsl.Builder, error) {
				field, err := stringArg("search.sort", args, 0, "field")
				if err != nil {
					return nil, err
				}
				return search.NewSort(field)
			},
			Setters: map[string]Setter{
				"order":         stringSetter((*search.Sort).SetOrder),
				"mode":          stringSetter((*search.Sort).SetMode),
				"missing":       valueSetter((*search.Sort).SetMissing),
				"unmapped_type": stringSetter((*search.Sort).SetUnmappedType),
			},
			Enums: map[string]dsl.Enum{"order": search.SortOrders, "mode": search.SortModes},
		},
		{
			Type: "search.request",
			Kind: dsl.KindRequest,
			New:  func([]any) (dsl.Builder, error) { return search.NewRequest(), nil },
			Setters: map[string]Setter{
				"query":        assignSetter((*search.Request).AssignQuery),
				"post_filter":  assignSetter((*search.Request).AssignPostFilter),
				"aggs":         assignSetter((*search.Request).AssignAggregation),
				"facets":       assignSetter((*search.Request).AssignFacet),
				"sort":         assignSetter((*search.Request).AssignSort),
				"rescore":      assignSetter((*search.Request).AssignRescore),
				"size":         intSetter((*search.Request).SetSize),
				"from":         intSetter((*search.Request).SetFrom),
				"min_score":    checkedFloatSetter((*search.Request).SetMinScore),
				"explain":      boolSetter((*search.Request).SetExplain),
				"track_scores": boolSetter((*search.Request).SetTrackScores),
				"timeout":      stringSetter((*search.Request).SetTimeout),
			},
			Deprecated: map[string]string{
				"facets": "facets were removed in Elasticsearch 2.0, use aggregations",
			},
		},
	}
}
