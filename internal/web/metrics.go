package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments exported at /metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	TradesApplied   prometheus.Counter
	ImportedRows    *prometheus.CounterVec
	StreamClients   prometheus.Gauge
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wealth_http_requests_total",
			Help: "HTTP requests served (by route and status code)",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wealth_http_request_duration_seconds",
			Help:    "HTTP request handling latency",
			Buckets: prometheus.DefBuckets,
		}),
		TradesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wealth_trades_applied_total",
			Help: "Trades accepted and applied to the portfolio",
		}),
		ImportedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wealth_imported_rows_total",
			Help: "Rows imported from uploaded sheets (by sheet)",
		}, []string{"sheet"}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wealth_stream_clients",
			Help: "Currently connected WebSocket clients",
		}),
	}

	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.TradesApplied,
		m.ImportedRows,
		m.StreamClients,
	)

	return m
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request counting and latency observation.
func (m *Metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.RequestDuration.Observe(time.Since(start).Seconds())
	}
}
