package dsl

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var (
	// wire is the request-body encoder. Map keys are sorted so repeated
	// encodes of the same document are byte-identical.
	wire = jsoniter.ConfigCompatibleWithStandardLibrary

	// wireNumbers decodes numbers as json.Number so integers survive a
	// round trip without turning into float64.
	wireNumbers = jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		UseNumber:              true,
	}.Froze()
)

// Encode serializes a builder's document as a compact JSON request body.
func Encode(b Builder) ([]byte, error) {
	if IsNil(b) {
		return nil, &TypeError{Op: "encode", Want: "Builder", Got: b}
	}
	data, err := wire.Marshal(b.Document())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", b.Kind(), err)
	}
	return data, nil
}

// EncodeIndent is Encode with indentation, for human consumption.
func EncodeIndent(b Builder, indent string) ([]byte, error) {
	if IsNil(b) {
		return nil, &TypeError{Op: "encode", Want: "Builder", Got: b}
	}
	data, err := wire.MarshalIndent(b.Document(), "", indent)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", b.Kind(), err)
	}
	return data, nil
}

// Decode parses a JSON object into an Object. Nested objects become Objects
// and numbers are kept as json.Number.
func Decode(data []byte) (Object, error) {
	var raw map[string]any
	if err := wireNumbers.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return normalize(raw).(Object), nil
}

// normalize rewrites decoded maps as Objects, recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(Object, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}
