package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"dispatch/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	assignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_assignments_total",
			Help: "Assignment requests by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	scanResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cylinder_scans_total",
			Help: "Cylinder scans by verification result.",
		},
		[]string{"result"},
	)
	scanLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cylinder_scan_duration_seconds",
			Help:    "Cylinder scan verification latency in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .2, .5, 1},
		},
	)
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Domain events handed to the broker by event name and outcome.",
		},
		[]string{"event", "outcome"},
	)
	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_runs_total",
			Help: "Background job runs by job and outcome.",
		},
		[]string{"job", "outcome"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpLatency, assignments, scanResults, scanLatency, eventsPublished, jobRuns)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTP(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, code).Inc()
	httpLatency.WithLabelValues(method, path, code).Observe(d.Seconds())
}

// ObserveAssignment counts one assignment request by its final outcome.
func ObserveAssignment(mode string, err error) {
	assignments.WithLabelValues(mode, Outcome(err)).Inc()
}

func ObserveScan(result string, d time.Duration) {
	scanResults.WithLabelValues(result).Inc()
	scanLatency.Observe(d.Seconds())
}

func ObservePublish(event string, err error) {
	eventsPublished.WithLabelValues(event, Outcome(err)).Inc()
}

func ObserveJobRun(job string, err error) {
	jobRuns.WithLabelValues(job, Outcome(err)).Inc()
}

// Outcome maps an error onto a small fixed label set.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrResourceUnavailable):
		return "unavailable"
	case errors.Is(err, errs.ErrConflict):
		return "conflict"
	case errors.Is(err, errs.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, errs.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errs.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}
