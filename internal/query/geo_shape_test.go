package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esq/internal/dsl"
	"github.com/roach88/esq/internal/geo"
)

func mustGeoShape(t *testing.T, field string) *GeoShapeQuery {
	t.Helper()
	q, err := NewGeoShapeQuery(field)
	require.NoError(t, err)
	return q
}

func TestNewGeoShapeQuery(t *testing.T) {
	q := mustGeoShape(t, "location")

	assert.Equal(t, "location", q.Field())
	assert.Equal(t, dsl.Object{"geo_shape": dsl.Object{"location": dsl.Object{}}}, q.Document())

	_, err := NewGeoShapeQuery("")
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)
}

func TestGeoShapeQuery_SetFieldMovesOptions(t *testing.T) {
	q := mustGeoShape(t, "location").
		SetShape(geo.NewShape("point", []float64{10, 20})).
		SetRelation("within").
		SetBoost(2)

	q.SetField("place")

	assert.Equal(t, "place", q.Field())
	body := q.Document()["geo_shape"].(dsl.Object)
	assert.NotContains(t, body, "location")
	require.Contains(t, body, "place")
	assert.Len(t, body, 1, "exactly one field key")

	shape, ok := q.Shape()
	require.True(t, ok)
	assert.Equal(t, "point", shape["type"])
	relation, _ := q.Relation()
	assert.Equal(t, "within", relation)
	boost, _ := q.Boost()
	assert.Equal(t, 2.0, boost)
}

func TestGeoShapeQuery_SetFieldEmptyIsIgnored(t *testing.T) {
	q := mustGeoShape(t, "location").SetField("")

	assert.Equal(t, "location", q.Field())
}

func TestGeoShapeQuery_ShapeAndIndexedShapeExclusive(t *testing.T) {
	indexed, err := geo.NewIndexedShape("country", "DEU")
	require.NoError(t, err)

	q := mustGeoShape(t, "location").SetShape(geo.NewShape("envelope", [][]float64{{-45, 45}, {45, -45}}))
	q.SetIndexedShape(indexed)

	_, hasShape := q.Shape()
	ref, hasIndexed := q.IndexedShape()
	assert.False(t, hasShape, "indexed shape removes the inline shape")
	require.True(t, hasIndexed)
	assert.Equal(t, "DEU", ref["id"])

	q.SetShape(geo.NewShape("point", []float64{1, 2}))
	_, hasShape = q.Shape()
	_, hasIndexed = q.IndexedShape()
	assert.True(t, hasShape)
	assert.False(t, hasIndexed, "inline shape removes the indexed shape")
}

func TestGeoShapeQuery_AssignShape(t *testing.T) {
	q := mustGeoShape(t, "location")

	err := q.AssignShape(map[string]any{"type": "point"})
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch)

	indexed, err := geo.NewIndexedShape("country", "DEU")
	require.NoError(t, err)
	err = q.AssignShape(indexed)
	assert.ErrorIs(t, err, dsl.ErrTypeMismatch, "an indexed shape is not a shape")

	require.NoError(t, q.AssignIndexedShape(indexed))
	require.NoError(t, q.AssignShape(geo.NewShape("point", []float64{1, 2})))
	_, hasIndexed := q.IndexedShape()
	assert.False(t, hasIndexed)
}

func TestGeoShapeQuery_SoftEnums(t *testing.T) {
	q := mustGeoShape(t, "location").SetRelation("DISJOINT").SetStrategy("Term")

	got := q.SetRelation("overlaps").SetStrategy("quadtree")
	assert.Same(t, q, got, "chaining survives rejected values")

	relation, _ := q.Relation()
	strategy, _ := q.Strategy()
	assert.Equal(t, "disjoint", relation)
	assert.Equal(t, "term", strategy)
}

func TestGeoShapeQuery_BoostUnderField(t *testing.T) {
	q := mustGeoShape(t, "location").SetBoost(1.2)

	assert.Equal(t, dsl.Object{"geo_shape": dsl.Object{
		"location": dsl.Object{"boost": 1.2},
	}}, q.Document())
	assert.True(t, dsl.IsQuery(q))
}

func TestGeoShapeQuery_BoostIgnoresNonFinite(t *testing.T) {
	q := mustGeoShape(t, "location").SetBoost(math.Inf(1)).SetBoost(math.NaN())

	_, ok := q.Boost()
	assert.False(t, ok)
	assert.Equal(t, dsl.Object{"geo_shape": dsl.Object{"location": dsl.Object{}}}, q.Document())
}
