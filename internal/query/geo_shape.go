package query

import "github.com/roach88/esq/internal/dsl"

var (
	// ShapeRelations are the accepted geo_shape relations.
	ShapeRelations = dsl.NewEnum("intersects", "disjoint", "within")
	// ShapeStrategies are the accepted geo_shape strategies.
	ShapeStrategies = dsl.NewEnum("recursive", "term")
)

// GeoShapeQuery finds documents whose geo_shape field relates to a shape in
// a given way. The shape is either inline (SetShape) or a reference to an
// indexed shape (SetIndexedShape); setting one removes the other.
type GeoShapeQuery struct {
	fieldQuery[*GeoShapeQuery]
}

// NewGeoShapeQuery returns a geo_shape query against field.
func NewGeoShapeQuery(field string) (*GeoShapeQuery, error) {
	q := &GeoShapeQuery{}
	fq, err := newFieldQuery("geo_shape", field, q)
	if err != nil {
		return nil, err
	}
	q.fieldQuery = fq
	return q, nil
}

// SetShape sets the inline shape and removes any indexed shape.
func (q *GeoShapeQuery) SetShape(shape dsl.Shape) *GeoShapeQuery {
	if dsl.IsNil(shape) {
		return q
	}
	opts := q.fieldBody()
	delete(opts, "indexed_shape")
	opts["shape"] = dsl.CloneObject(shape.Document())
	return q
}

// AssignShape is the runtime-checked form of SetShape.
func (q *GeoShapeQuery) AssignShape(v any) error {
	if dsl.IsNil(v) {
		return nil
	}
	if !dsl.IsShape(v) {
		return &dsl.TypeError{Op: "geo_shape.shape", Want: "Shape", Got: v}
	}
	q.SetShape(v.(dsl.Shape))
	return nil
}

// Shape returns the inline shape document, if set.
func (q *GeoShapeQuery) Shape() (dsl.Object, bool) {
	return dsl.Lookup[dsl.Object](q.fieldBody(), "shape")
}

// SetIndexedShape references a pre-indexed shape and removes any inline shape.
func (q *GeoShapeQuery) SetIndexedShape(shape dsl.IndexedShape) *GeoShapeQuery {
	if dsl.IsNil(shape) {
		return q
	}
	opts := q.fieldBody()
	delete(opts, "shape")
	opts["indexed_shape"] = dsl.CloneObject(shape.Document())
	return q
}

// AssignIndexedShape is the runtime-checked form of SetIndexedShape.
func (q *GeoShapeQuery) AssignIndexedShape(v any) error {
	if dsl.IsNil(v) {
		return nil
	}
	if !dsl.IsIndexedShape(v) {
		return &dsl.TypeError{Op: "geo_shape.indexed_shape", Want: "IndexedShape", Got: v}
	}
	q.SetIndexedShape(v.(dsl.IndexedShape))
	return nil
}

// IndexedShape returns the indexed shape reference, if set.
func (q *GeoShapeQuery) IndexedShape() (dsl.Object, bool) {
	return dsl.Lookup[dsl.Object](q.fieldBody(), "indexed_shape")
}

// SetRelation sets how the query shape relates to indexed shapes:
// intersects, disjoint or within. Other values are ignored.
func (q *GeoShapeQuery) SetRelation(relation string) *GeoShapeQuery {
	if r, ok := ShapeRelations.Normalize(relation); ok {
		q.fieldBody()["relation"] = r
	}
	return q
}

// Relation returns the relation, if set.
func (q *GeoShapeQuery) Relation() (string, bool) {
	return dsl.Lookup[string](q.fieldBody(), "relation")
}

// SetStrategy sets the spatial strategy: recursive or term.
// Other values are ignored.
func (q *GeoShapeQuery) SetStrategy(strategy string) *GeoShapeQuery {
	if s, ok := ShapeStrategies.Normalize(strategy); ok {
		q.fieldBody()["strategy"] = s
	}
	return q
}

// Strategy returns the strategy, if set.
func (q *GeoShapeQuery) Strategy() (string, bool) {
	return dsl.Lookup[string](q.fieldBody(), "strategy")
}
