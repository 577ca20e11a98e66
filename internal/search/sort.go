package search

import "github.com/roach88/esq/internal/dsl"

var (
	// SortOrders is the set of sort directions.
	SortOrders = dsl.NewEnum("asc", "desc")
	// SortModes is the set of ways multi-valued fields are reduced.
	SortModes = dsl.NewEnum("min", "max", "sum", "avg", "median")
)

// Sort orders hits by a field: {field: {"order": ..., "mode": ...}}.
// The special fields _score and _doc are accepted as is.
type Sort struct {
	dsl.SortMixin
}

// NewSort sorts on field. An empty field is a TypeError.
func NewSort(field string) (*Sort, error) {
	m, err := dsl.NewSortMixin(field)
	if err != nil {
		return nil, err
	}
	return &Sort{SortMixin: m}, nil
}

// Field returns the sort field.
func (s *Sort) Field() string { return s.Root() }

// SetOrder sets the direction, asc or desc. Other values are ignored.
func (s *Sort) SetOrder(order string) *Sort {
	if o, ok := SortOrders.Normalize(order); ok {
		s.Body()["order"] = o
	}
	return s
}

// Order returns the direction, if set.
func (s *Sort) Order() (string, bool) { return dsl.Lookup[string](s.Body(), "order") }

// SetMode sets how multi-valued fields are reduced, one of SortModes.
// Other values are ignored.
func (s *Sort) SetMode(mode string) *Sort {
	if m, ok := SortModes.Normalize(mode); ok {
		s.Body()["mode"] = m
	}
	return s
}

// Mode returns the mode, if set.
func (s *Sort) Mode() (string, bool) { return dsl.Lookup[string](s.Body(), "mode") }

// SetMissing places documents without the field: "_last", "_first" or a
// custom value.
func (s *Sort) SetMissing(missing any) *Sort {
	if !dsl.IsNil(missing) {
		s.Body()["missing"] = missing
	}
	return s
}

// Missing returns the missing value, if set.
func (s *Sort) Missing() (any, bool) {
	v, ok := s.Body()["missing"]
	return v, ok
}

// SetUnmappedType sets the type assumed for indices without a mapping for
// the field.
func (s *Sort) SetUnmappedType(typ string) *Sort {
	if typ != "" {
		s.Body()["unmapped_type"] = typ
	}
	return s
}
