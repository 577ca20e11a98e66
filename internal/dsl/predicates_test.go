package dsl

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type namedString string

func TestPredicates_Categories(t *testing.T) {
	q := newTestQuery("match_all")
	f := newTestFilter("exists")
	a := mustTestMetrics(t, "top", "max")
	fc := mustTestFacet(t, "tags")
	var nilQuery *testQuery

	tests := []struct {
		name  string
		value any
		want  map[string]bool
	}{
		{"query", q, map[string]bool{"query": true, "builder": true}},
		{"filter", f, map[string]bool{"filter": true, "builder": true}},
		{"aggregation", a, map[string]bool{"aggregation": true, "builder": true}},
		{"facet", fc, map[string]bool{"facet": true, "builder": true}},
		{"shape", NewShapeMixin(), map[string]bool{"shape": true, "builder": true}},
		{"indexed shape", NewIndexedShapeMixin(), map[string]bool{"indexed_shape": true, "builder": true}},
		{"rescore", NewRescoreMixin(), map[string]bool{"rescore": true, "builder": true}},
		{"nil", nil, map[string]bool{}},
		{"typed nil query", nilQuery, map[string]bool{}},
		{"object", map[string]any{"a": 1}, map[string]bool{"object": true}},
		{"dsl object", Object{}, map[string]bool{"object": true}},
		{"array", []any{1, 2}, map[string]bool{"array": true}},
		{"query array", []Query{q}, map[string]bool{"array": true}},
		{"bytes", []byte("x"), map[string]bool{}},
		{"int", 3, map[string]bool{"number": true}},
		{"float", 2.5, map[string]bool{"number": true}},
		{"json number", json.Number("50"), map[string]bool{"number": true}},
		{"NaN", math.NaN(), map[string]bool{}},
		{"+Inf", math.Inf(1), map[string]bool{}},
		{"string", "fifty", map[string]bool{"string": true}},
		{"named string", namedString("x"), map[string]bool{"string": true}},
		{"empty string", "", map[string]bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]bool{
				"builder":       IsBuilder(tt.value),
				"query":         IsQuery(tt.value),
				"filter":        IsFilter(tt.value),
				"aggregation":   IsAggregation(tt.value),
				"facet":         IsFacet(tt.value),
				"shape":         IsShape(tt.value),
				"indexed_shape": IsIndexedShape(tt.value),
				"rescore":       IsRescore(tt.value),
				"sort":          IsSort(tt.value),
				"array":         IsArray(tt.value),
				"object":        IsObject(tt.value),
				"number":        IsNumber(tt.value),
				"string":        IsString(tt.value),
			}
			for category, is := range got {
				assert.Equal(t, tt.want[category], is, "Is%s(%v)", category, tt.value)
			}
		})
	}
}

func TestAsInt(t *testing.T) {
	n, ok := AsInt(3.0)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = AsInt(json.Number("50"))
	assert.True(t, ok)
	assert.Equal(t, 50, n)

	_, ok = AsInt(3.5)
	assert.False(t, ok, "fractional values are not integers")

	_, ok = AsInt(math.Inf(-1))
	assert.False(t, ok)

	_, ok = AsInt("3")
	assert.False(t, ok, "strings are never numbers")
}

func TestAsBool(t *testing.T) {
	b, ok := AsBool(true)
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = AsBool("true")
	assert.False(t, ok)

	_, ok = AsBool(nil)
	assert.False(t, ok)
}
