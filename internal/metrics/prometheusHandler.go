package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "query_duration_seconds",
	Help:    "Total time spent answering one query.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"outcome"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var upsertBatches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "upsert_batches_total",
	Help: "Batch upsert outcomes (ok, rate_limited, skipped).",
}, []string{"outcome"})

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_sessions",
	Help: "Number of live conversation sessions.",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureQueryMetrics(outcome string, timeElapsed time.Duration) {
	queryDuration.WithLabelValues(outcome).Observe(timeElapsed.Seconds())
}

func CountUpsertBatch(outcome string) {
	upsertBatches.WithLabelValues(outcome).Inc()
}

func IncrementActiveSessions() {
	activeSessions.Inc()
}

func DecrementActiveSessions() {
	activeSessions.Dec()
}
