package dsl

import (
	"fmt"
	"reflect"
)

// Slot is an array-accumulating clause list inside a builder body, such as
// bool.must. Several Slots may share one key (bool.filter accepts filters
// and queries) while checking different capabilities.
type Slot struct {
	body   Object
	key    string
	op     string
	want   string
	accept func(any) bool
}

// NewSlot binds a clause list at body[key]. accept decides which builders
// may enter it; op and want name the operation in a TypeError.
func NewSlot(body Object, key, op, want string, accept func(any) bool) Slot {
	return Slot{body: body, key: key, op: op, want: want, accept: accept}
}

// Items returns the live clause list, creating it when absent.
func (s Slot) Items() []Object {
	if items, ok := s.body[s.key].([]Object); ok {
		return items
	}
	items := []Object{}
	s.body[s.key] = items
	return items
}

// Append deep-copies the documents of bs onto the list. Nil builders are
// skipped.
func (s Slot) Append(bs ...Builder) {
	items := s.Items()
	for _, b := range bs {
		if IsNil(b) {
			continue
		}
		items = append(items, CloneObject(b.Document()))
	}
	s.body[s.key] = items
}

// Assign updates the list from a runtime value:
//   - nil leaves the list untouched
//   - one accepted builder is appended
//   - a sequence of accepted builders replaces the list
//
// Anything else is a TypeError. A sequence is validated in full before the
// list changes, so a rejected element leaves the previous contents intact.
func (s Slot) Assign(v any) error {
	if IsNil(v) {
		return nil
	}
	if s.accept(v) {
		s.Append(v.(Builder))
		return nil
	}
	if !IsArray(v) {
		return &TypeError{Op: s.op, Want: s.want + " or array of " + s.want, Got: v}
	}
	builders, err := collect(v, s.op, s.want, s.accept)
	if err != nil {
		return err
	}
	scratch := make([]Object, 0, len(builders))
	for _, b := range builders {
		scratch = append(scratch, CloneObject(b.Document()))
	}
	s.body[s.key] = scratch
	return nil
}

// collect checks every element of a sequence against accept.
func collect(v any, op, want string, accept func(any) bool) ([]Builder, error) {
	rv := reflect.ValueOf(v)
	out := make([]Builder, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		e := rv.Index(i).Interface()
		if !accept(e) {
			return nil, &TypeError{Op: fmt.Sprintf("%s[%d]", op, i), Want: want, Got: e}
		}
		out = append(out, e.(Builder))
	}
	return out, nil
}

// AssignSingle stores a deep copy of one accepted builder at body[key].
// nil is a no-op; anything else is a TypeError.
func AssignSingle(body Object, key, op, want string, accept func(any) bool, v any) error {
	if IsNil(v) {
		return nil
	}
	if !accept(v) {
		return &TypeError{Op: op, Want: want, Got: v}
	}
	body[key] = CloneObject(v.(Builder).Document())
	return nil
}

// AssignKeyed merges named builders (aggregations, facets) into the object
// at body[key]. It accepts one builder or a sequence; a sequence is
// validated in full before anything is merged.
func AssignKeyed(body Object, key, op, want string, accept func(any) bool, v any) error {
	if IsNil(v) {
		return nil
	}
	var builders []Builder
	switch {
	case accept(v):
		builders = []Builder{v.(Builder)}
	case IsArray(v):
		var err error
		if builders, err = collect(v, op, want, accept); err != nil {
			return err
		}
	default:
		return &TypeError{Op: op, Want: want + " or array of " + want, Got: v}
	}
	dst := body.Child(key)
	for _, b := range builders {
		mergeInto(dst, b)
	}
	return nil
}

// mergeInto copies the top-level entries of b's document into dst.
func mergeInto(dst Object, b Builder) {
	for k, v := range b.Document() {
		dst[k] = Clone(v)
	}
}

// Builders widens a typed builder list for Append.
func Builders[B Builder](bs []B) []Builder {
	out := make([]Builder, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}
