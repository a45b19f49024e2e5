// Package metrics provides Prometheus instrumentation for delish.
//
// Besides the standard HTTP metrics it exposes the document-store and order
// counters that show how often each JSON document is rewritten and how
// orders move through their lifecycle.
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "delish"

// ─────────────────────────────────────────────
// HTTP
// ─────────────────────────────────────────────

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})
)

// ─────────────────────────────────────────────
// Document store
// ─────────────────────────────────────────────

var (
	DocReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "docstore",
			Name:      "reads_total",
			Help:      "Document reads by result (ok, missing, error).",
		},
		[]string{"document", "result"},
	)

	DocWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "docstore",
			Name:      "writes_total",
			Help:      "Atomic document writes by result (ok, error).",
		},
		[]string{"document", "result"},
	)

	DocWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "docstore",
			Name:      "write_duration_seconds",
			Help:      "Time spent serializing and atomically replacing a document.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .5},
		},
		[]string{"document"},
	)

	DocWriteBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "docstore",
			Name:      "write_size_bytes",
			Help:      "Serialized document sizes in bytes.",
			Buckets:   []float64{256, 1_000, 10_000, 100_000, 1_000_000},
		},
		[]string{"document"},
	)
)

// ─────────────────────────────────────────────
// Orders
// ─────────────────────────────────────────────

var (
	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders appended to the ledger, by source (cart, direct).",
		},
		[]string{"source"},
	)

	OrderStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Order status updates by target status.",
		},
		[]string{"status"},
	)

	OrdersRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Order submissions rejected by validation, by reason code.",
		},
		[]string{"reason"},
	)

	TempFilesSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "janitor",
		Name:      "temp_files_removed_total",
		Help:      "Abandoned temporary files removed from the data directory.",
	})

	PanicsRecovered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "panics_recovered_total",
		Help:      "Handler panics turned into 500 responses.",
	})

	LiveClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ws",
		Name:      "clients",
		Help:      "Connected live order feed clients.",
	})
)

// DefaultRegistry is the Prometheus registry served on /metrics.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		DocReads,
		DocWrites,
		DocWriteDuration,
		DocWriteBytes,
		OrdersPlaced,
		OrderStatusChanges,
		OrdersRejected,
		TempFilesSwept,
		PanicsRecovered,
		LiveClients,
	)
}

// ─────────────────────────────────────────────
// HTTP middleware
// ─────────────────────────────────────────────

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("metrics: %T cannot be hijacked", r.ResponseWriter)
	}
	return h.Hijack()
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records duration, count and in-flight gauge for every request.
// Requests are labelled with the chi route pattern rather than the raw path so
// order ids and item ids do not explode label cardinality.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// Handler exposes the registry in the Prometheus text and OpenMetrics formats.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ObserveWrite records one document write.
func ObserveWrite(document string, start time.Time, size int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	DocWrites.WithLabelValues(document, result).Inc()
	DocWriteDuration.WithLabelValues(document).Observe(time.Since(start).Seconds())
	if err == nil {
		DocWriteBytes.WithLabelValues(document).Observe(float64(size))
	}
}

// ObserveRead records one document read; result is "ok", "missing" or "error".
func ObserveRead(document, result string) {
	DocReads.WithLabelValues(document, result).Inc()
}
