package dsl

import (
	"reflect"
	"slices"
	"unicode/utf16"
)

// Object is a JSON object under construction: the Document a builder owns.
//
// Values are JSON-compatible Go values: nil, bool, string, numbers,
// Object, map[string]any, []Object, []any, or slices and maps of those.
type Object map[string]any

// Child returns the nested Object at key, creating it when absent.
// A non-object value at key is replaced.
func (o Object) Child(key string) Object {
	if c, ok := o[key].(Object); ok {
		return c
	}
	c := Object{}
	o[key] = c
	return c
}

// Path walks nested objects along keys and returns the value found.
func (o Object) Path(keys ...string) (any, bool) {
	var cur any = o
	for _, k := range keys {
		var next any
		var ok bool
		switch m := cur.(type) {
		case Object:
			next, ok = m[k]
		case map[string]any:
			next, ok = m[k]
		}
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
// Go's native string order is UTF-8 bytes, which differs above the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// Lookup returns o[key] as V.
// The second result is false when the key is absent or holds another type.
func Lookup[V any](o Object, key string) (V, bool) {
	v, ok := o[key].(V)
	return v, ok
}

// Merge returns a new Object holding the union of base and every ext.
// Later arguments win on key collisions. Neither base nor any ext is
// modified; values are shared, not copied.
func Merge(base Object, exts ...Object) Object {
	size := len(base)
	for _, e := range exts {
		size += len(e)
	}
	out := make(Object, size)
	for k, v := range base {
		out[k] = v
	}
	for _, e := range exts {
		for k, v := range e {
			out[k] = v
		}
	}
	return out
}

// CloneObject deep-copies o.
func CloneObject(o Object) Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = Clone(v)
	}
	return out
}

// Clone deep-copies a JSON-compatible value, preserving its Go type.
// Builders are replaced by a copy of their document.
func Clone(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Object:
		return CloneObject(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case []Object:
		out := make([]Object, len(t))
		for i, e := range t {
			out[i] = CloneObject(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case Builder:
		if IsNil(t) {
			return nil
		}
		return CloneObject(t.Document())
	case string, bool, int, int64, float64:
		return t
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

func cloneReflect(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneElem(rv.Index(i)))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value()))
		}
		return out
	default:
		return rv
	}
}

// cloneElem clones a slice element or map value while keeping its static
// type assignable to the container.
func cloneElem(rv reflect.Value) reflect.Value {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return rv
		}
		c := Clone(rv.Interface())
		if c == nil {
			return reflect.Zero(rv.Type())
		}
		cv := reflect.ValueOf(c)
		if !cv.Type().AssignableTo(rv.Type()) {
			return rv
		}
		return cv
	}
	return cloneReflect(rv)
}
