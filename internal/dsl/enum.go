package dsl

import "golang.org/x/text/cases"

// Enum is a soft enumeration: a closed set of lowercase string values
// matched case-insensitively. Setters backed by an Enum ignore values
// outside the set instead of failing; Lint reports such drops when a plan
// is compiled.
type Enum struct {
	values []string
}

// NewEnum builds an Enum from its canonical (lowercase) values.
func NewEnum(values ...string) Enum {
	return Enum{values: values}
}

// Normalize folds v and returns the canonical member it matches. Only case
// is folded; surrounding whitespace makes v a non-member.
func (e Enum) Normalize(v string) (string, bool) {
	folded := cases.Fold().String(v)
	for _, m := range e.values {
		if m == folded {
			return m, true
		}
	}
	return "", false
}

// Contains reports whether v names a member of the set.
func (e Enum) Contains(v string) bool {
	_, ok := e.Normalize(v)
	return ok
}

// Values returns the members in declaration order.
func (e Enum) Values() []string {
	return append([]string(nil), e.values...)
}
