package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the compile service's Prometheus collectors.
type Metrics struct {
	CompilesTotal   *prometheus.CounterVec
	CompileDuration *prometheus.HistogramVec
	WarningsTotal   *prometheus.CounterVec

	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CompilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "esq",
				Name:      "compiles_total",
				Help:      "Total number of plan compilations",
			},
			[]string{"mode", "status"}, // mode: compile/lint, status: ok/error
		),
		CompileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "esq",
				Name:      "compile_duration_seconds",
				Help:      "Plan compilation duration in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"mode"},
		),
		WarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "esq",
				Name:      "lint_warnings_total",
				Help:      "Total lint warnings reported, by code",
			},
			[]string{"code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "esq",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "esq",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.CompilesTotal,
			m.CompileDuration,
			m.WarningsTotal,
			m.httpRequestDuration,
			m.httpRequestsTotal,
		)
	}
	return m
}

// ObserveCompile records one compilation. err decides the status label.
func (m *Metrics) ObserveCompile(mode string, start time.Time, warningCodes []string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CompilesTotal.WithLabelValues(mode, status).Inc()
	m.CompileDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	for _, code := range warningCodes {
		m.WarningsTotal.WithLabelValues(code).Inc()
	}
}
