package dsl

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch is wrapped by every TypeError.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeError reports a value of the wrong category at a structural slot or a
// missing required constructor argument.
//
// A call that returns a TypeError has not mutated its builder.
type TypeError struct {
	// Op names the accessor, e.g. "bool.must" or "rescore.window_size".
	Op string
	// Want describes the accepted category, e.g. "Query or array of Query".
	Want string
	// Got is the rejected value.
	Got any
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Op, e.Want, describe(e.Got))
}

// Unwrap returns ErrTypeMismatch.
func (e *TypeError) Unwrap() error { return ErrTypeMismatch }

// IsTypeError reports whether err is, or wraps, a *TypeError.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}

func describe(v any) string {
	if IsNil(v) {
		return "nil"
	}
	if b, ok := v.(Builder); ok {
		return fmt.Sprintf("%s builder", b.Kind())
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("string %q", s)
	}
	return fmt.Sprintf("%T", v)
}

// Must returns v or panics if err is non-nil.
// Intended for package-level declarations and tests where the arguments are
// known to be valid.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
