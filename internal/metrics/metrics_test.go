package metrics_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"google.golang.org/grpc/codes"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sum(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	data, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range data.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := metrics.New("university-api-test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordEntityCreated(ctx, "student")
	m.RecordEntityCreated(ctx, "student")
	m.RecordEntityDeleted(ctx, "project")
	m.RecordGithubRequest(ctx, "issues", true)
	m.Database.RecordQuery(ctx, "select", "students", 3*time.Millisecond, nil)
	m.Database.RecordQuery(ctx, "insert", "students", time.Millisecond, errors.New("duplicate key"))
	m.Messaging.RecordPublish(ctx, "nats", "university.student.created", time.Millisecond, nil)
	m.Messaging.RecordPublish(ctx, "kafka", "university.events", time.Millisecond, errors.New("broker down"))
	m.Grpc.RecordRequest(ctx, "grpc.health.v1.Health", "Check", time.Millisecond, codes.OK)
	m.Grpc.RecordRequest(ctx, "grpc.health.v1.Health", "Check", time.Millisecond, codes.NotFound)
	m.Dependencies.RecordCheck(ctx, "database", 2*time.Millisecond, nil)
	require.NoError(t, m.Dependencies.RegisterServiceInfo(m.Meter(), "university-api-test", "dev", "test"))

	got := collect(t, reader)
	assert.Equal(t, int64(2), sum(t, got["university.entities.created"]))
	assert.Equal(t, int64(1), sum(t, got["university.entities.deleted"]))
	assert.Equal(t, int64(1), sum(t, got["university.github.requests"]))
	assert.Equal(t, int64(1), sum(t, got["university.events.published"]))
	assert.Equal(t, int64(1), sum(t, got["university.events.publish_errors"]))
	assert.Contains(t, got, "runtime.go.goroutines")
	assert.Contains(t, got, "service.uptime")
	assert.Contains(t, got, "service.info")
	assert.Equal(t, int64(2), sum(t, got["grpc.server.requests_total"]))
	assert.Equal(t, int64(1), sum(t, got["grpc.server.errors_total"]))

	up, ok := got["dependency.up"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, up.DataPoints, 1)
	assert.Equal(t, int64(1), up.DataPoints[0].Value)
}

func TestMock(t *testing.T) {
	m := metrics.NewMock()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordEntityCreated(ctx, "student")
		m.RecordGithubRequest(ctx, "tags", false)
		m.Database.RecordQuery(ctx, "select", "students", time.Millisecond, nil)
		m.Messaging.RecordPublish(ctx, "nats", "x", time.Millisecond, nil)
		m.Grpc.RecordRequest(ctx, "svc", "Method", time.Millisecond, codes.Internal)
		require.NoError(t, m.Dependencies.RegisterServiceInfo(m.Meter(), "svc", "dev", "test"))
	})
	m.Dependencies.RecordCheck(ctx, "database", time.Millisecond, errors.New("down"))
	assert.False(t, m.Dependencies.Available("database"))
	m.Dependencies.RecordCheck(ctx, "database", time.Millisecond, nil)
	assert.True(t, m.Dependencies.Available("database"))
	assert.Nil(t, m.Meter())
}
