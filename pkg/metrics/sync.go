package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records policy synchronization activity against the catalog.
type SyncMetrics struct {
	duration *prometheus.HistogramVec
	applied  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "policy_sync_duration_seconds",
		Help:    "Duration of policy synchronization runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_sync_applied_total",
		Help: "Policies written during synchronization runs.",
	}, []string{"scope"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_sync_failure_total",
		Help: "Failed policy synchronization runs.",
	}, []string{"scope"})
	reg.MustRegister(duration, applied, failure)
	return &SyncMetrics{
		duration: duration,
		applied:  applied,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named sync scope.
func (s *SyncMetrics) ObserveDuration(scope string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(scope)).Observe(duration.Seconds())
}

// AddApplied increments the applied counter by the number of written policies.
func (s *SyncMetrics) AddApplied(scope string, count int) {
	if s == nil || s.applied == nil || count <= 0 {
		return
	}
	s.applied.WithLabelValues(normalizeLabel(scope)).Add(float64(count))
}

// IncFailure increments the failure counter for the named sync scope.
func (s *SyncMetrics) IncFailure(scope string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(scope)).Inc()
}

func normalizeLabel(scope string) string {
	if scope == "" {
		return "unknown"
	}
	return scope
}
