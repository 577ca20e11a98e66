// Package geo provides GeoJSON shapes and indexed shape references for
// geo_shape queries.
package geo

import "github.com/roach88/esq/internal/dsl"

// ShapeTypes is the set of geometry names a Shape accepts.
var ShapeTypes = dsl.NewEnum(
	"point",
	"linestring",
	"polygon",
	"multipoint",
	"envelope",
	"multipolygon",
	"circle",
	"multilinestring",
)

// Shape is an inline GeoJSON shape: {"type": t, "coordinates": c}.
// Coordinates are not validated.
type Shape struct {
	dsl.ShapeMixin
}

// NewShape returns a shape of the given geometry type. An unknown type
// leaves both type and coordinates unset.
func NewShape(shapeType string, coordinates any) *Shape {
	s := &Shape{ShapeMixin: dsl.NewShapeMixin()}
	if t, ok := ShapeTypes.Normalize(shapeType); ok {
		s.Body()["type"] = t
		if !dsl.IsNil(coordinates) {
			s.Body()["coordinates"] = coordinates
		}
	}
	return s
}

// SetType sets the geometry type. Unknown types are ignored.
func (s *Shape) SetType(shapeType string) *Shape {
	if t, ok := ShapeTypes.Normalize(shapeType); ok {
		s.Body()["type"] = t
	}
	return s
}

// Type returns the geometry type, if set.
func (s *Shape) Type() (string, bool) { return dsl.Lookup[string](s.Body(), "type") }

// SetCoordinates sets the coordinate structure for the geometry.
func (s *Shape) SetCoordinates(coordinates any) *Shape {
	if !dsl.IsNil(coordinates) {
		s.Body()["coordinates"] = coordinates
	}
	return s
}

// Coordinates returns the coordinates, if set.
func (s *Shape) Coordinates() (any, bool) {
	c, ok := s.Body()["coordinates"]
	return c, ok
}

// SetRadius sets the radius of a circle, e.g. "100m".
func (s *Shape) SetRadius(radius string) *Shape {
	if radius != "" {
		s.Body()["radius"] = radius
	}
	return s
}

// Radius returns the radius, if set.
func (s *Shape) Radius() (string, bool) { return dsl.Lookup[string](s.Body(), "radius") }
