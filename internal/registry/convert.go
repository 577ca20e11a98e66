package registry

import (
	"reflect"

	"github.com/roach88/esq/internal/dsl"
)

// Converters turn an untyped value into a setter argument, or report a
// TypeError naming op.

func asBuilder[B dsl.Builder](op string, b dsl.Builder) (B, error) {
	typed, ok := b.(B)
	if !ok {
		var zero B
		return zero, &dsl.TypeError{Op: op, Want: reflect.TypeOf((*B)(nil)).Elem().String(), Got: b}
	}
	return typed, nil
}

func toString(op string, v any) (string, error) {
	s, ok := dsl.AsString(v)
	if !ok || s == "" {
		return "", &dsl.TypeError{Op: op, Want: "non-empty string", Got: v}
	}
	return s, nil
}

func toFloat(op string, v any) (float64, error) {
	f, ok := dsl.AsFloat(v)
	if !ok {
		return 0, &dsl.TypeError{Op: op, Want: "Number", Got: v}
	}
	return f, nil
}

func toInt(op string, v any) (int, error) {
	n, ok := dsl.AsInt(v)
	if !ok {
		return 0, &dsl.TypeError{Op: op, Want: "integer", Got: v}
	}
	return n, nil
}

func toBool(op string, v any) (bool, error) {
	b, ok := dsl.AsBool(v)
	if !ok {
		return false, &dsl.TypeError{Op: op, Want: "boolean", Got: v}
	}
	return b, nil
}

// toMap accepts any string-keyed map and returns a map[string]any copy.
func toMap(op string, v any) (map[string]any, error) {
	if !dsl.IsObject(v) {
		return nil, &dsl.TypeError{Op: op, Want: "object", Got: v}
	}
	rv := reflect.ValueOf(v)
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = dsl.Clone(iter.Value().Interface())
	}
	return out, nil
}

func toValue(op string, v any) (any, error) {
	if dsl.IsNil(v) || dsl.IsBuilder(v) {
		return nil, &dsl.TypeError{Op: op, Want: "scalar, array or object", Got: v}
	}
	return v, nil
}

/***** setter constructors *****/

func convertSetter[B dsl.Builder, V any](conv func(string, any) (V, error), fn func(B, V) B) Setter {
	return func(op string, b dsl.Builder, v any) error {
		typed, err := asBuilder[B](op, b)
		if err != nil {
			return err
		}
		val, err := conv(op, v)
		if err != nil {
			return err
		}
		fn(typed, val)
		return nil
	}
}

func stringSetter[B dsl.Builder](fn func(B, string) B) Setter { return convertSetter(toString, fn) }

func floatSetter[B dsl.Builder](fn func(B, float64) B) Setter { return convertSetter(toFloat, fn) }

func intSetter[B dsl.Builder](fn func(B, int) B) Setter { return convertSetter(toInt, fn) }

func boolSetter[B dsl.Builder](fn func(B, bool) B) Setter { return convertSetter(toBool, fn) }

func mapSetter[B dsl.Builder](fn func(B, map[string]any) B) Setter { return convertSetter(toMap, fn) }

func valueSetter[B dsl.Builder](fn func(B, any) B) Setter { return convertSetter(toValue, fn) }

// checkedFloatSetter is floatSetter for setters that validate the value.
func checkedFloatSetter[B dsl.Builder](fn func(B, float64) (B, error)) Setter {
	return func(op string, b dsl.Builder, v any) error {
		typed, err := asBuilder[B](op, b)
		if err != nil {
			return err
		}
		f, err := toFloat(op, v)
		if err != nil {
			return err
		}
		_, err = fn(typed, f)
		return err
	}
}

// assignSetter wraps a runtime-checked composite accessor.
func assignSetter[B dsl.Builder](fn func(B, any) error) Setter {
	return func(op string, b dsl.Builder, v any) error {
		typed, err := asBuilder[B](op, b)
		if err != nil {
			return err
		}
		return fn(typed, v)
	}
}

/***** argument helpers *****/

func stringArg(typ string, args []any, i int, name string) (string, error) {
	return toString(typ+"."+name, args[i])
}
