package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_AddsRunIDAndPhase(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production", "info")

	ctx := WithPhase(WithRunID(context.Background(), "run-123"), "users")
	logger.InfoContext(ctx, "user created", slog.String("email", "a@b.co"))

	out := buf.String()
	assert.Contains(t, out, `"run_id":"run-123"`)
	assert.Contains(t, out, `"phase":"users"`)
	assert.Contains(t, out, `"email":"a@b.co"`)
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "development", "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestRunID(t *testing.T) {
	id := NewRunID()
	require.Len(t, id, 36)
	assert.NotEqual(t, id, NewRunID())

	ctx := WithRunID(context.Background(), id)
	assert.Equal(t, id, ExtractRunID(ctx))
	assert.Equal(t, "", ExtractRunID(context.Background()))
}

func TestSeedMetrics(t *testing.T) {
	m := NewSeedMetrics()

	before := testutil.ToFloat64(SeedRecords.WithLabelValues("user", OutcomeCreated))
	m.RecordOutcome("user", OutcomeCreated)
	m.RecordOutcome("user", OutcomeCreated)
	assert.Equal(t, before+2, testutil.ToFloat64(SeedRecords.WithLabelValues("user", OutcomeCreated)))

	likesBefore := testutil.ToFloat64(SeedLikes)
	m.RecordLikes(3)
	assert.Equal(t, likesBefore+3, testutil.ToFloat64(SeedLikes))

	failuresBefore := testutil.ToFloat64(SeedRunsTotal.WithLabelValues("failure"))
	m.RecordRun(errors.New("boom"))
	assert.Equal(t, failuresBefore+1, testutil.ToFloat64(SeedRunsTotal.WithLabelValues("failure")))

	done := m.TrackPhase("users")
	done()
}

func TestPushMetrics_NoGatewayIsNoop(t *testing.T) {
	assert.NoError(t, PushMetrics(context.Background(), "", "run"))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{ServiceName: "collabia-seed-test"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "seed.run")
	assert.NotNil(t, ctx)
	span.SetError(errors.New("boom"))
	span.End()
}
