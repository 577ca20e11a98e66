package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esq/internal/compiler"
	"github.com/roach88/esq/internal/metrics"
	"github.com/roach88/esq/internal/registry"
	"github.com/roach88/esq/internal/store"
)

const termPlan = `{"name":"by-user","document":{"type":"query.term","args":["user","kimchy"]}}`

type fixture struct {
	srv     *Server
	handler http.Handler
	metrics *metrics.Metrics
	reg     *prometheus.Registry
	store   *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "esq.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := New(compiler.New(registry.Default(), nil),
		WithCatalog(st),
		WithMetrics(m, reg),
	)
	return &fixture{srv: srv, handler: srv.Handler(), metrics: m, reg: reg, store: st}
}

func (f *fixture) do(t *testing.T, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, wire.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func TestCompile(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/v1/compile", "application/json", termPlan)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var resp struct {
		Name        string         `json:"name"`
		Type        string         `json:"type"`
		Fingerprint string         `json:"fingerprint"`
		Document    map[string]any `json:"document"`
		Warnings    []any          `json:"warnings"`
	}
	decode(t, rr, &resp)
	assert.Equal(t, "by-user", resp.Name)
	assert.Equal(t, "query.term", resp.Type)
	assert.Len(t, resp.Fingerprint, 64)
	assert.Equal(t, map[string]any{"term": map[string]any{"user": map[string]any{"value": "kimchy"}}}, resp.Document)
	assert.NotNil(t, resp.Warnings)
	assert.Empty(t, resp.Warnings)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CompilesTotal.WithLabelValues("compile", "ok")))
}

func TestCompile_YAMLAndCUEBodies(t *testing.T) {
	f := newFixture(t)

	yamlBody := "document:\n  type: query.term\n  args: [user, kimchy]\n"
	cueBody := "document: {\n\ttype: \"query.term\"\n\targs: [\"user\", \"kimchy\"]\n}\n"

	var fps []string
	for _, tc := range []struct{ ct, body string }{
		{"application/json", termPlan},
		{"application/yaml", yamlBody},
		{"text/x-cue; charset=utf-8", cueBody},
	} {
		rr := f.do(t, http.MethodPost, "/v1/compile", tc.ct, tc.body)
		require.Equal(t, http.StatusOK, rr.Code, "%s: %s", tc.ct, rr.Body.String())
		var resp CompileResponse
		decode(t, rr, &resp)
		fps = append(fps, resp.Fingerprint)
	}
	assert.Equal(t, fps[0], fps[1])
	assert.Equal(t, fps[0], fps[2])
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown type", `{"document":{"type":"query.nope"}}`, http.StatusUnprocessableEntity, compiler.ErrUnknownType},
		{"unknown key", `{"document":{"type":"query.match_all","set":{"fuzz":1}}}`, http.StatusUnprocessableEntity, compiler.ErrUnknownKey},
		{"missing document", `{"name":"empty"}`, http.StatusBadRequest, compiler.ErrMissingDocument},
		{"not a plan", `{"document": [`, http.StatusBadRequest, compiler.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rr := f.do(t, http.MethodPost, "/v1/compile", "application/json", tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())

			var resp ErrorResponse
			decode(t, rr, &resp)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CompilesTotal.WithLabelValues("compile", "error")))
		})
	}
}

func TestCompile_ErrorCarriesPosition(t *testing.T) {
	f := newFixture(t)
	body := "document:\n  type: query.bool\n  set:\n    must:\n      - type: query.nope\n"

	rr := f.do(t, http.MethodPost, "/v1/compile", "application/yaml", body)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var resp ErrorResponse
	decode(t, rr, &resp)
	assert.Equal(t, compiler.ErrUnknownType, resp.Code)
	assert.Equal(t, "document.set.must[0].type", resp.Path)
	assert.Equal(t, 5, resp.Line)
}

func TestLint(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"old","document":{"type":"query.bool","set":{"disable_coord":true}}}`

	rr := f.do(t, http.MethodPost, "/v1/lint", "", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp LintResponse
	decode(t, rr, &resp)
	assert.Equal(t, "old", resp.Name)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, compiler.WarnDeprecatedKey, resp.Warnings[0].Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.WarningsTotal.WithLabelValues(compiler.WarnDeprecatedKey)))
}

func TestDocuments_SaveListShowDelete(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/v1/documents", "application/json", termPlan)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var saved SaveResponse
	decode(t, rr, &saved)
	assert.True(t, saved.Created)
	require.NotNil(t, saved.Document)
	assert.Equal(t, "by-user", saved.Document.Name)
	assert.JSONEq(t, `{"term":{"user":{"value":"kimchy"}}}`, string(saved.Document.Body))

	rr = f.do(t, http.MethodPost, "/v1/documents", "application/json", termPlan)
	require.Equal(t, http.StatusOK, rr.Code)
	var again SaveResponse
	decode(t, rr, &again)
	assert.False(t, again.Created)
	assert.Equal(t, saved.Document.ID, again.Document.ID)

	rr = f.do(t, http.MethodGet, "/v1/documents?name=by-user&limit=5", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Documents []store.Document `json:"documents"`
	}
	decode(t, rr, &list)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, saved.Document.Fingerprint, list.Documents[0].Fingerprint)

	rr = f.do(t, http.MethodGet, "/v1/documents/"+saved.Document.Fingerprint, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var shown store.Document
	decode(t, rr, &shown)
	assert.Equal(t, saved.Document.ID, shown.ID)

	rr = f.do(t, http.MethodDelete, "/v1/documents/"+saved.Document.ID, "", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(t, http.MethodGet, "/v1/documents/"+saved.Document.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = f.do(t, http.MethodDelete, "/v1/documents/"+saved.Document.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDocuments_BadLimit(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/v1/documents?limit=-1", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDocuments_WithoutCatalog(t *testing.T) {
	h := New(compiler.New(registry.Default(), nil)).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/documents", http.NoBody))
	assert.Equal(t, http.StatusNotImplemented, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","checks":{"compiler":"ok"}}`, rr.Body.String())
}

type downCatalog struct{ Catalog }

func (downCatalog) Ping(context.Context) error { return errors.New("disk on fire") }

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","checks":{"compiler":"ok","store":"ok"}}`, rr.Body.String())

	h := New(compiler.New(registry.Default(), nil), WithCatalog(downCatalog{})).Handler()
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"store":"unavailable"`)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/v1/compile", "application/json", termPlan)

	rr := f.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "esq_compiles_total")
	assert.Contains(t, body, `esq_http_requests_total{method="POST",path="/v1/compile",status="200"} 1`)
}

func TestPlanFilename(t *testing.T) {
	tests := map[string]string{
		"":                          "request.json",
		"application/json":          "request.json",
		"application/yaml":          "request.yaml",
		"text/yaml; charset=utf-8":  "request.yaml",
		"application/cue":           "request.cue",
		"TEXT/X-CUE":                "request.cue",
		"application/octet-stream":  "request.json",
	}
	for ct, want := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		req.Header.Set("Content-Type", ct)
		assert.Equal(t, want, planFilename(req), ct)
	}
}
