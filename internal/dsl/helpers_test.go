package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Minimal variants used to exercise the mixins in isolation.

type testQuery struct {
	QueryMixin[*testQuery]
}

func newTestQuery(root string) *testQuery {
	q := &testQuery{}
	q.QueryMixin = NewQueryMixin(root, q)
	return q
}

type testFilter struct {
	FilterMixin[*testFilter]
}

func newTestFilter(root string) *testFilter {
	f := &testFilter{}
	f.FilterMixin = NewFilterMixin(root, f)
	return f
}

type testMetrics struct {
	MetricsMixin[*testMetrics]
}

func mustTestMetrics(t *testing.T, name, metric string) *testMetrics {
	t.Helper()
	m := &testMetrics{}
	mixin, err := NewMetricsMixin(name, metric, m)
	require.NoError(t, err)
	m.MetricsMixin = mixin
	return m
}

type testFacet struct {
	FacetMixin[*testFacet]
}

func mustTestFacet(t *testing.T, name string) *testFacet {
	t.Helper()
	f := &testFacet{}
	mixin, err := NewFacetMixin(name, f)
	require.NoError(t, err)
	f.FacetMixin = mixin
	return f
}
