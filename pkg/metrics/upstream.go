package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records outcomes of calls to collaborator services.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream call metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of requests to collaborator services in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_success",
		Help: "Successful collaborator service calls.",
	}, []string{"service", "operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_failure",
		Help: "Failed collaborator service calls.",
	}, []string{"service", "operation"})
	reg.MustRegister(duration, success, failure)
	return &UpstreamMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named call.
func (u *UpstreamMetrics) ObserveDuration(service, operation string, duration time.Duration) {
	if u == nil || u.duration == nil {
		return
	}
	u.duration.WithLabelValues(normalizeLabel(service), normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named call.
func (u *UpstreamMetrics) IncSuccess(service, operation string) {
	if u == nil || u.success == nil {
		return
	}
	u.success.WithLabelValues(normalizeLabel(service), normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named call.
func (u *UpstreamMetrics) IncFailure(service, operation string) {
	if u == nil || u.failure == nil {
		return
	}
	u.failure.WithLabelValues(normalizeLabel(service), normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
