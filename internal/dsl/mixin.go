package dsl

import "fmt"

// Mixin is the shared capability set behind every builder: a fixed
// capability tag and the private document seeded as {root: {}}.
//
// Variants embed one of the typed mixins below (which embed *Mixin) and add
// their own accessors. A method declared on the variant shadows a promoted
// mixin method of the same name, so the more specific definition wins.
type Mixin struct {
	kind Kind
	root string
	doc  Object
}

// NewMixin seeds a document {root: {}} tagged with kind.
// root is the schema tag (e.g. "bool") or a user supplied name
// (aggregations, facets); an empty root is a TypeError.
func NewMixin(kind Kind, root string) (*Mixin, error) {
	if root == "" {
		return nil, &TypeError{Op: string(kind), Want: "non-empty name", Got: root}
	}
	return &Mixin{kind: kind, root: root, doc: Object{root: Object{}}}, nil
}

// NewFlat returns a mixin whose document has no root key.
// Used by shapes, rescores and request bodies.
func NewFlat(kind Kind) *Mixin {
	return &Mixin{kind: kind, doc: Object{}}
}

func mustMixin(kind Kind, root string) *Mixin {
	m, err := NewMixin(kind, root)
	if err != nil {
		panic(fmt.Sprintf("dsl: static %s root must be non-empty", kind))
	}
	return m
}

// Kind returns the capability tag.
func (m *Mixin) Kind() Kind { return m.kind }

// Document returns the live document.
func (m *Mixin) Document() Object { return m.doc }

// Root returns the root key, or "" for flat documents.
func (m *Mixin) Root() string { return m.root }

// Body returns the object under the root key (the document itself when flat).
func (m *Mixin) Body() Object {
	if m.root == "" {
		return m.doc
	}
	return m.doc.Child(m.root)
}

// set stores v at key in obj, treating a nil value as "not present".
func set(obj Object, key string, v any) {
	if IsNil(v) {
		return
	}
	obj[key] = v
}

// setString stores a non-empty string. The empty string is the zero value
// and means "not present".
func setString(obj Object, key, v string) {
	if v == "" {
		return
	}
	obj[key] = v
}

/***** QueryMixin *****/

// QueryMixin adds the query capability and boost to a variant T.
type QueryMixin[T any] struct {
	*Mixin
	self T
}

// NewQueryMixin seeds {root: {}} for the query variant self.
// root is a static schema tag and must not be empty.
func NewQueryMixin[T any](root string, self T) QueryMixin[T] {
	return QueryMixin[T]{Mixin: mustMixin(KindQuery, root), self: self}
}

func (QueryMixin[T]) queryNode() {}

// SetBoost sets the score multiplier for matching documents. NaN and
// infinities are ignored.
func (q QueryMixin[T]) SetBoost(boost float64) T {
	if IsNumber(boost) {
		q.Body()["boost"] = boost
	}
	return q.self
}

// Boost returns the boost, if set.
func (q QueryMixin[T]) Boost() (float64, bool) {
	return Lookup[float64](q.Body(), "boost")
}

/***** FilterMixin *****/

// FilterMixin adds the filter capability and the filter cache knobs.
type FilterMixin[T any] struct {
	*Mixin
	self T
}

// NewFilterMixin seeds {root: {}} for the filter variant self.
func NewFilterMixin[T any](root string, self T) FilterMixin[T] {
	return FilterMixin[T]{Mixin: mustMixin(KindFilter, root), self: self}
}

func (FilterMixin[T]) filterNode() {}

// SetName sets the _name used to report matched filters.
func (f FilterMixin[T]) SetName(name string) T {
	setString(f.Body(), "_name", name)
	return f.self
}

// Name returns the _name, if set.
func (f FilterMixin[T]) Name() (string, bool) { return Lookup[string](f.Body(), "_name") }

// SetCache enables or disables result caching for this filter.
func (f FilterMixin[T]) SetCache(cache bool) T {
	f.Body()["_cache"] = cache
	return f.self
}

// Cache returns the _cache flag, if set.
func (f FilterMixin[T]) Cache() (bool, bool) { return Lookup[bool](f.Body(), "_cache") }

// SetCacheKey sets the key the filter result is cached under.
func (f FilterMixin[T]) SetCacheKey(key string) T {
	setString(f.Body(), "_cache_key", key)
	return f.self
}

// CacheKey returns the _cache_key, if set.
func (f FilterMixin[T]) CacheKey() (string, bool) { return Lookup[string](f.Body(), "_cache_key") }

/***** AggregationMixin *****/

// AggregationMixin adds the aggregation capability, sub-aggregations and
// meta. The document root is the user supplied aggregation name.
type AggregationMixin[T any] struct {
	*Mixin
	self T
}

// NewAggregationMixin seeds {name: {}}. An empty name is a TypeError.
func NewAggregationMixin[T any](name string, self T) (AggregationMixin[T], error) {
	m, err := NewMixin(KindAggregation, name)
	if err != nil {
		return AggregationMixin[T]{}, err
	}
	return AggregationMixin[T]{Mixin: m, self: self}, nil
}

func (AggregationMixin[T]) aggregationNode() {}

// Name returns the aggregation name.
func (a AggregationMixin[T]) Name() string { return a.Root() }

// AddAggregation nests sub-aggregations under "aggs", keyed by their names.
// A later sub-aggregation with the same name replaces the earlier one.
func (a AggregationMixin[T]) AddAggregation(subs ...Aggregation) T {
	for _, s := range subs {
		if IsNil(s) {
			continue
		}
		mergeInto(a.Body().Child("aggs"), s)
	}
	return a.self
}

// AssignAggregation is the runtime-checked form of AddAggregation.
// It accepts one Aggregation or a sequence of them.
func (a AggregationMixin[T]) AssignAggregation(v any) error {
	return AssignKeyed(a.Body(), "aggs", a.Name()+".aggs", "Aggregation", IsAggregation, v)
}

// Aggregations returns the nested sub-aggregation documents, if any.
func (a AggregationMixin[T]) Aggregations() (Object, bool) {
	return Lookup[Object](a.Body(), "aggs")
}

// SetMeta attaches opaque metadata returned with the aggregation result.
func (a AggregationMixin[T]) SetMeta(meta map[string]any) T {
	set(a.Body(), "meta", meta)
	return a.self
}

// Meta returns the metadata, if set.
func (a AggregationMixin[T]) Meta() (map[string]any, bool) {
	return Lookup[map[string]any](a.Body(), "meta")
}

/***** MetricsMixin *****/

// MetricsMixin is the aggregation mixin for single and multi value numeric
// metrics. It seeds {name: {metric: {}}} and exposes field, script, lang,
// script_values_sorted and params. Field and script are not mutually
// exclusive in storage.
type MetricsMixin[T any] struct {
	AggregationMixin[T]
	metric string
}

// NewMetricsMixin seeds {name: {metric: {}}}.
func NewMetricsMixin[T any](name, metric string, self T) (MetricsMixin[T], error) {
	agg, err := NewAggregationMixin(name, self)
	if err != nil {
		return MetricsMixin[T]{}, err
	}
	if metric == "" {
		return MetricsMixin[T]{}, &TypeError{Op: name, Want: "non-empty metric", Got: metric}
	}
	agg.Body()[metric] = Object{}
	return MetricsMixin[T]{AggregationMixin: agg, metric: metric}, nil
}

// Metric returns the metric key, e.g. "max" or "extended_stats".
func (m MetricsMixin[T]) Metric() string { return m.metric }

func (m MetricsMixin[T]) metricBody() Object { return m.Body().Child(m.metric) }

// SetField sets the numeric field the metric is computed over.
func (m MetricsMixin[T]) SetField(field string) T {
	setString(m.metricBody(), "field", field)
	return m.self
}

// Field returns the field, if set.
func (m MetricsMixin[T]) Field() (string, bool) { return Lookup[string](m.metricBody(), "field") }

// SetScript sets a script that produces the values the metric is computed over.
func (m MetricsMixin[T]) SetScript(script string) T {
	setString(m.metricBody(), "script", script)
	return m.self
}

// Script returns the script, if set.
func (m MetricsMixin[T]) Script() (string, bool) { return Lookup[string](m.metricBody(), "script") }

// SetLang sets the script language.
func (m MetricsMixin[T]) SetLang(lang string) T {
	setString(m.metricBody(), "lang", lang)
	return m.self
}

// Lang returns the script language, if set.
func (m MetricsMixin[T]) Lang() (string, bool) { return Lookup[string](m.metricBody(), "lang") }

// SetScriptValuesSorted declares that script values are already sorted.
func (m MetricsMixin[T]) SetScriptValuesSorted(sorted bool) T {
	m.metricBody()["script_values_sorted"] = sorted
	return m.self
}

// ScriptValuesSorted returns script_values_sorted, if set.
func (m MetricsMixin[T]) ScriptValuesSorted() (bool, bool) {
	return Lookup[bool](m.metricBody(), "script_values_sorted")
}

// SetParams sets the script parameters.
func (m MetricsMixin[T]) SetParams(params map[string]any) T {
	set(m.metricBody(), "params", params)
	return m.self
}

// Params returns the script parameters, if set.
func (m MetricsMixin[T]) Params() (map[string]any, bool) {
	return Lookup[map[string]any](m.metricBody(), "params")
}

/***** FacetMixin *****/

// FacetModes are the facet collection modes.
var FacetModes = NewEnum("collector", "post")

// FacetMixin adds the facet capability. The document root is the facet name.
type FacetMixin[T any] struct {
	*Mixin
	self T
}

// NewFacetMixin seeds {name: {}}. An empty name is a TypeError.
func NewFacetMixin[T any](name string, self T) (FacetMixin[T], error) {
	m, err := NewMixin(KindFacet, name)
	if err != nil {
		return FacetMixin[T]{}, err
	}
	return FacetMixin[T]{Mixin: m, self: self}, nil
}

func (FacetMixin[T]) facetNode() {}

// Name returns the facet name.
func (f FacetMixin[T]) Name() string { return f.Root() }

// SetFacetFilter restricts the documents the facet is computed over.
func (f FacetMixin[T]) SetFacetFilter(filter Filter) T {
	if !IsNil(filter) {
		f.Body()["facet_filter"] = CloneObject(filter.Document())
	}
	return f.self
}

// AssignFacetFilter is the runtime-checked form of SetFacetFilter.
func (f FacetMixin[T]) AssignFacetFilter(v any) error {
	return AssignSingle(f.Body(), "facet_filter", f.Name()+".facet_filter", "Filter", IsFilter, v)
}

// FacetFilter returns the embedded filter document, if set.
func (f FacetMixin[T]) FacetFilter() (Object, bool) { return Lookup[Object](f.Body(), "facet_filter") }

// SetGlobal computes the facet over all documents, ignoring the query.
func (f FacetMixin[T]) SetGlobal(global bool) T {
	f.Body()["global"] = global
	return f.self
}

// Global returns the global flag, if set.
func (f FacetMixin[T]) Global() (bool, bool) { return Lookup[bool](f.Body(), "global") }

// SetMode sets the collection mode: collector or post.
// Other values are ignored.
func (f FacetMixin[T]) SetMode(mode string) T {
	if m, ok := FacetModes.Normalize(mode); ok {
		f.Body()["mode"] = m
	}
	return f.self
}

// Mode returns the collection mode, if set.
func (f FacetMixin[T]) Mode() (string, bool) { return Lookup[string](f.Body(), "mode") }

// SetScope sets the facet scope.
func (f FacetMixin[T]) SetScope(scope string) T {
	setString(f.Body(), "scope", scope)
	return f.self
}

// Scope returns the scope, if set.
func (f FacetMixin[T]) Scope() (string, bool) { return Lookup[string](f.Body(), "scope") }

// SetCacheFilter enables caching of the facet filter.
func (f FacetMixin[T]) SetCacheFilter(cache bool) T {
	f.Body()["cache_filter"] = cache
	return f.self
}

// CacheFilter returns cache_filter, if set.
func (f FacetMixin[T]) CacheFilter() (bool, bool) { return Lookup[bool](f.Body(), "cache_filter") }

// SetNested computes the facet over the named nested object path.
func (f FacetMixin[T]) SetNested(path string) T {
	setString(f.Body(), "nested", path)
	return f.self
}

// Nested returns the nested path, if set.
func (f FacetMixin[T]) Nested() (string, bool) { return Lookup[string](f.Body(), "nested") }

/***** Flat capability mixins *****/

// ShapeMixin gives a flat document the shape capability.
type ShapeMixin struct{ *Mixin }

// NewShapeMixin returns an empty shape document.
func NewShapeMixin() ShapeMixin { return ShapeMixin{Mixin: NewFlat(KindShape)} }

func (ShapeMixin) shapeNode() {}

// IndexedShapeMixin gives a flat document the indexed shape capability.
type IndexedShapeMixin struct{ *Mixin }

// NewIndexedShapeMixin returns an empty indexed shape document.
func NewIndexedShapeMixin() IndexedShapeMixin {
	return IndexedShapeMixin{Mixin: NewFlat(KindIndexedShape)}
}

func (IndexedShapeMixin) indexedShapeNode() {}

// RescoreMixin gives a flat document the rescore capability.
type RescoreMixin struct{ *Mixin }

// NewRescoreMixin returns an empty rescore document.
func NewRescoreMixin() RescoreMixin { return RescoreMixin{Mixin: NewFlat(KindRescore)} }

func (RescoreMixin) rescoreNode() {}

// SortMixin gives the sort capability to a document rooted at a field name.
type SortMixin struct{ *Mixin }

// NewSortMixin seeds {field: {}}. An empty field is a TypeError.
func NewSortMixin(field string) (SortMixin, error) {
	m, err := NewMixin(KindSort, field)
	if err != nil {
		return SortMixin{}, err
	}
	return SortMixin{Mixin: m}, nil
}

func (SortMixin) sortNode() {}
