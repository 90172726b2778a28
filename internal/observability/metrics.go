package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Record outcomes tracked by SeedRecords.
const (
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeSkipped   = "skipped"
)

var (
	// SeedRecords counts reconciled fixture records by entity and outcome.
	SeedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabia_seed_records_total",
		Help: "Total number of fixture records reconciled by entity and outcome",
	}, []string{"entity", "outcome"})

	// SeedLikes counts interest likes created by the fan-out step.
	SeedLikes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collabia_seed_likes_total",
		Help: "Total number of interest likes created while seeding",
	})

	// SeedPhaseDuration records how long each seeding phase takes.
	SeedPhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collabia_seed_phase_duration_seconds",
		Help:    "Seeding phase duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	// SeedRunsTotal counts finished runs by result (success or failure).
	SeedRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabia_seed_runs_total",
		Help: "Total number of seeding runs by result",
	}, []string{"result"})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabia_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})
)

// SeedMetrics records reconciliation progress.
type SeedMetrics struct{}

// NewSeedMetrics returns a new SeedMetrics instance.
func NewSeedMetrics() *SeedMetrics {
	return &SeedMetrics{}
}

// RecordOutcome increments the record counter for entity and outcome.
func (*SeedMetrics) RecordOutcome(entity, outcome string) {
	SeedRecords.WithLabelValues(entity, outcome).Inc()
}

// RecordLikes adds n created likes.
func (*SeedMetrics) RecordLikes(n int) {
	SeedLikes.Add(float64(n))
}

// TrackPhase returns a function that records the phase duration when called (e.g. defer).
func (*SeedMetrics) TrackPhase(phase string) func() {
	start := time.Now()
	return func() {
		SeedPhaseDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	}
}

// RecordRun increments the run counter.
func (*SeedMetrics) RecordRun(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	SeedRunsTotal.WithLabelValues(result).Inc()
}

// PushMetrics sends the default registry to a Prometheus Pushgateway. A
// one-shot command exits before any scraper could reach it.
func PushMetrics(ctx context.Context, gatewayURL, runID string) error {
	if gatewayURL == "" {
		return nil
	}
	err := push.New(gatewayURL, "collabia_seed").
		Gatherer(prometheus.DefaultGatherer).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
