// Package server exposes the plan compiler over HTTP.
//
// Routes:
//
//	POST   /v1/compile          plan body -> document, fingerprint, warnings
//	POST   /v1/lint             plan body -> warnings
//	POST   /v1/documents        compile and save to the catalog
//	GET    /v1/documents        list saved documents (?name=, ?limit=)
//	GET    /v1/documents/{ref}  show one saved document by id or fingerprint
//	DELETE /v1/documents/{ref}  remove a saved document
//	GET    /healthz             catalog ping
//	GET    /metrics             Prometheus exposition
//
// Plan bodies are JSON or YAML by default; Content-Type text/x-cue or
// application/cue selects CUE.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/roach88/esq/internal/compiler"
	"github.com/roach88/esq/internal/dsl"
	logpkg "github.com/roach88/esq/internal/logger"
	"github.com/roach88/esq/internal/metrics"
	"github.com/roach88/esq/internal/store"
)

// maxPlanBytes caps request bodies.
const maxPlanBytes = 1 << 20

var wire = jsoniter.ConfigCompatibleWithStandardLibrary

// Catalog is the part of the document store the server uses.
type Catalog interface {
	Ping(ctx context.Context) error
	Save(ctx context.Context, e store.Entry) (*store.Document, bool, error)
	Get(ctx context.Context, ref string) (*store.Document, error)
	List(ctx context.Context, opts store.ListOptions) ([]store.Document, error)
	Delete(ctx context.Context, ref string) error
}

// Server serves compile requests.
type Server struct {
	compiler *compiler.Compiler
	catalog  Catalog
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog enables the /v1/documents routes and the store health check.
func WithCatalog(c Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithMetrics records compile and HTTP metrics into m and serves g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a server around c.
func New(c *compiler.Compiler, opts ...Option) *Server {
	s := &Server{compiler: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(nil)
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.NewRegistry()
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(s.metrics.Middleware())

	r.Post("/v1/compile", s.Compile)
	r.Post("/v1/lint", s.Lint)
	r.Route("/v1/documents", func(r chi.Router) {
		r.Post("/", s.SaveDocument)
		r.Get("/", s.ListDocuments)
		r.Get("/{ref}", s.GetDocument)
		r.Delete("/{ref}", s.DeleteDocument)
	})
	r.Get("/healthz", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe runs the server on addr until ctx is cancelled, then
// shuts down within shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string, read, write, shutdown time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  read,
		WriteTimeout: write,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}

/***** request/response types *****/

// CompileResponse is the body of a successful compile.
type CompileResponse struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Fingerprint string             `json:"fingerprint"`
	Document    dsl.Object         `json:"document"`
	Warnings    []compiler.Warning `json:"warnings"`
}

// LintResponse is the body of a lint request.
type LintResponse struct {
	Name     string             `json:"name"`
	Warnings []compiler.Warning `json:"warnings"`
}

// SaveResponse is the body of a save request.
type SaveResponse struct {
	Created  bool               `json:"created"`
	Document *store.Document    `json:"document"`
	Warnings []compiler.Warning `json:"warnings"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

/***** handlers *****/

// Compile handles POST /v1/compile.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	res, ok := s.compile(w, r, "compile")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CompileResponse{
		Name:        res.Name,
		Type:        res.Type,
		Fingerprint: res.Fingerprint,
		Document:    res.Document(),
		Warnings:    nonNil(res.Warnings),
	})
}

// Lint handles POST /v1/lint.
func (s *Server) Lint(w http.ResponseWriter, r *http.Request) {
	res, ok := s.compile(w, r, "lint")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, LintResponse{Name: res.Name, Warnings: nonNil(res.Warnings)})
}

// SaveDocument handles POST /v1/documents.
func (s *Server) SaveDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	res, ok := s.compile(w, r, "save")
	if !ok {
		return
	}
	doc, created, err := s.catalog.Save(r.Context(), store.Entry{
		Name:     res.Name,
		Type:     res.Type,
		Builder:  res.Builder,
		Warnings: len(res.Warnings),
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, SaveResponse{Created: created, Document: doc, Warnings: nonNil(res.Warnings)})
}

// ListDocuments handles GET /v1/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	opts := store.ListOptions{Name: r.URL.Query().Get("name")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}
	docs, err := s.catalog.List(r.Context(), opts)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// GetDocument handles GET /v1/documents/{ref}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	doc, err := s.catalog.Get(r.Context(), chi.URLParam(r, "ref"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", store.ErrNotFound.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /v1/documents/{ref}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	err := s.catalog.Delete(r.Context(), chi.URLParam(r, "ref"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", store.ErrNotFound.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"compiler": "ok"}
	status, code := "healthy", http.StatusOK
	if s.catalog != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.catalog.Ping(ctx); err != nil {
			logpkg.FromContext(r.Context()).Warn("store ping failed", zap.Error(err))
			checks["store"] = "unavailable"
			status, code = "unhealthy", http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	}
	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}

/***** helpers *****/

// compile reads the plan body and compiles it, writing the error response
// itself when it fails.
func (s *Server) compile(w http.ResponseWriter, r *http.Request, mode string) (*compiler.Result, bool) {
	start := time.Now()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPlanBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "bad_request", "plan body too large")
		return nil, false
	}

	plan, err := compiler.Parse(data, planFilename(r))
	var res *compiler.Result
	if err == nil {
		if plan.Name == "" {
			plan.Name = "request"
		}
		res, err = s.compiler.Compile(plan)
	}

	var codes []string
	if res != nil {
		for _, warn := range res.Warnings {
			codes = append(codes, warn.Code)
		}
	}
	s.metrics.ObserveCompile(mode, start, codes, err)

	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			logpkg.FromContext(r.Context()).Debug("plan rejected", zap.Error(err))
			status := http.StatusUnprocessableEntity
			if ce.Code == compiler.ErrParse || ce.Code == compiler.ErrMissingDocument {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, ErrorResponse{
				Code:    ce.Code,
				Message: ce.Message,
				Path:    ce.Path,
				Line:    ce.Line,
				Column:  ce.Column,
			})
			return nil, false
		}
		s.internalError(w, r, err)
		return nil, false
	}
	return res, true
}

// planFilename picks the parser from the request's Content-Type.
func planFilename(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	switch strings.TrimSpace(strings.ToLower(ct)) {
	case "text/x-cue", "application/cue":
		return "request.cue"
	case "application/yaml", "application/x-yaml", "text/yaml":
		return "request.yaml"
	default:
		return "request.json"
	}
}

func (s *Server) requireCatalog(w http.ResponseWriter) bool {
	if s.catalog == nil {
		writeError(w, http.StatusNotImplemented, "not_implemented", "document catalog is not configured")
		return false
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logpkg.FromContext(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func nonNil(ws []compiler.Warning) []compiler.Warning {
	if ws == nil {
		return []compiler.Warning{}
	}
	return ws
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = wire.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
