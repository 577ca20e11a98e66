// Package query provides Query builders: bool, geo_shape and a handful of
// leaf queries.
//
// Every builder embeds dsl.QueryMixin and therefore satisfies dsl.Query.
// Field-keyed queries (term, match, range, geo_shape) keep their options
// under the field name and put boost there too.
package query
