package dsl

// Kind is the capability tag every builder carries.
// It is fixed at construction and only ever used for classification at
// composition sites (see IsQuery, IsFilter and friends).
type Kind string

const (
	KindQuery        Kind = "query"
	KindFilter       Kind = "filter"
	KindAggregation  Kind = "aggregation"
	KindFacet        Kind = "facet"
	KindShape        Kind = "shape"
	KindIndexedShape Kind = "indexed_shape"
	KindRescore      Kind = "rescore"
	KindSort         Kind = "sort"
	KindRequest      Kind = "request"
)

// Kinds lists every capability tag in declaration order.
var Kinds = []Kind{
	KindQuery,
	KindFilter,
	KindAggregation,
	KindFacet,
	KindShape,
	KindIndexedShape,
	KindRescore,
	KindSort,
	KindRequest,
}

// Builder is a handle over exactly one Document.
//
// Document returns the live document, not a copy. Callers must treat it as
// read-only; composite builders take a deep copy when they embed a child.
type Builder interface {
	Kind() Kind
	Document() Object
}

// Query is a sealed interface implemented by builders that embed QueryMixin.
type Query interface {
	Builder
	queryNode()
}

// Filter is a sealed interface implemented by builders that embed FilterMixin.
type Filter interface {
	Builder
	filterNode()
}

// Aggregation is a sealed interface implemented by builders that embed
// AggregationMixin or MetricsMixin.
type Aggregation interface {
	Builder
	aggregationNode()
	// Name is the user supplied aggregation name (the document root key).
	Name() string
}

// Facet is a sealed interface implemented by builders that embed FacetMixin.
type Facet interface {
	Builder
	facetNode()
	Name() string
}

// Shape is a sealed interface for inline GeoJSON shapes.
type Shape interface {
	Builder
	shapeNode()
}

// IndexedShape is a sealed interface for references to pre-indexed shapes.
type IndexedShape interface {
	Builder
	indexedShapeNode()
}

// Rescore is a sealed interface for rescore definitions.
type Rescore interface {
	Builder
	rescoreNode()
}

// Sort is a sealed interface for sort clauses.
type Sort interface {
	Builder
	sortNode()
}
