package query

import "github.com/roach88/esq/internal/dsl"

// fieldQuery is the query mixin for variants whose options live under a
// field-named key: {root: {field: {...}}}. Exactly one field key exists at
// any time; SetField moves the options to the new key.
type fieldQuery[T any] struct {
	dsl.QueryMixin[T]
	field string
	self  T
}

func newFieldQuery[T any](root, field string, self T) (fieldQuery[T], error) {
	if field == "" {
		return fieldQuery[T]{}, &dsl.TypeError{Op: root, Want: "non-empty field name", Got: field}
	}
	fq := fieldQuery[T]{QueryMixin: dsl.NewQueryMixin(root, self), field: field, self: self}
	fq.Body()[field] = dsl.Object{}
	return fq, nil
}

// fieldBody returns the options object under the current field.
func (f *fieldQuery[T]) fieldBody() dsl.Object {
	return f.Body().Child(f.field)
}

// Field returns the field being queried.
func (f *fieldQuery[T]) Field() string { return f.field }

// SetField rekeys the options to a new field. The empty string leaves the
// field unchanged.
func (f *fieldQuery[T]) SetField(field string) T {
	if field == "" || field == f.field {
		return f.self
	}
	body := f.Body()
	opts := f.fieldBody()
	delete(body, f.field)
	body[field] = opts
	f.field = field
	return f.self
}

// SetBoost sets the boost under the field key. NaN and infinities are
// ignored.
func (f *fieldQuery[T]) SetBoost(boost float64) T {
	if dsl.IsNumber(boost) {
		f.fieldBody()["boost"] = boost
	}
	return f.self
}

// Boost returns the boost, if set.
func (f *fieldQuery[T]) Boost() (float64, bool) {
	return dsl.Lookup[float64](f.fieldBody(), "boost")
}
