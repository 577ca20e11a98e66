package dsl

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// The predicates below classify arbitrary values before a document is
// mutated. They never panic and have no side effects. A nil value, or a
// typed nil pointer/map/slice wrapped in an interface, is "not present" and
// answers false for every category.

// IsNil reports whether v is nil or a typed nil.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func hasKind(v any, k Kind) bool {
	if IsNil(v) {
		return false
	}
	b, ok := v.(Builder)
	return ok && b.Kind() == k
}

// IsBuilder reports whether v is a non-nil Builder of any kind.
func IsBuilder(v any) bool {
	if IsNil(v) {
		return false
	}
	_, ok := v.(Builder)
	return ok
}

// IsQuery reports whether v carries the query capability tag.
func IsQuery(v any) bool { return hasKind(v, KindQuery) }

// IsFilter reports whether v carries the filter capability tag.
func IsFilter(v any) bool { return hasKind(v, KindFilter) }

// IsAggregation reports whether v carries the aggregation capability tag.
func IsAggregation(v any) bool { return hasKind(v, KindAggregation) }

// IsFacet reports whether v carries the facet capability tag.
func IsFacet(v any) bool { return hasKind(v, KindFacet) }

// IsShape reports whether v carries the shape capability tag.
func IsShape(v any) bool { return hasKind(v, KindShape) }

// IsIndexedShape reports whether v carries the indexed shape capability tag.
func IsIndexedShape(v any) bool { return hasKind(v, KindIndexedShape) }

// IsRescore reports whether v carries the rescore capability tag.
func IsRescore(v any) bool { return hasKind(v, KindRescore) }

// IsSort reports whether v carries the sort capability tag.
func IsSort(v any) bool { return hasKind(v, KindSort) }

// IsArray reports whether v is a non-nil slice or array.
// Byte slices are treated as opaque scalars, not arrays.
func IsArray(v any) bool {
	if IsNil(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// IsObject reports whether v is a non-nil map with string keys.
// Builders are never objects, even when they are backed by one.
func IsObject(v any) bool {
	if IsNil(v) || IsBuilder(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// IsNumber reports whether v is a finite number.
// Integer and float kinds (including named types) and json.Number qualify;
// NaN and the infinities do not.
func IsNumber(v any) bool {
	_, ok := AsFloat(v)
	return ok
}

// IsString reports whether v is a non-empty string.
func IsString(v any) bool {
	s, ok := AsString(v)
	return ok && s != ""
}

// AsFloat converts a finite number to float64.
func AsFloat(v any) (float64, bool) {
	if IsNil(v) {
		return 0, false
	}
	if n, ok := v.(json.Number); ok {
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInt converts an integral finite number to int.
// 3.0 converts; 3.5 does not.
func AsInt(v any) (int, bool) {
	f, ok := AsFloat(v)
	if !ok || f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int(f), true
}

// AsString converts a string (or named string type) to string.
func AsString(v any) (string, bool) {
	if IsNil(v) {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// AsBool converts a bool (or named bool type) to bool.
func AsBool(v any) (bool, bool) {
	if IsNil(v) {
		return false, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}
