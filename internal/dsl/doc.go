// Package dsl provides the builder framework every esq builder is made of.
//
// A builder owns exactly one Document (an Object) and exposes chainable
// setters and plain getters over it. Concrete builders live in the query,
// filter, agg, facet, geo and search packages; dsl imports nothing internal.
//
// Key design constraints:
//   - Every builder carries a fixed capability Kind; composite slots check it
//     with the Is* predicates before touching the Document
//   - Embedding a child always stores a deep copy of its Document
//   - Document() is a live view: later setter calls are visible through it
//   - Type mismatches are hard errors (*TypeError); enum values outside
//     their set are dropped silently
//   - Sequences assigned to a slot replace it atomically or not at all
package dsl
