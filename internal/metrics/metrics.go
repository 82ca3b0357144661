package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database     *DatabaseMetrics
	Messaging    *MessagingMetrics
	Grpc         *GrpcMetrics
	Dependencies *DependencyMetrics

	entitiesCreated metric.Int64Counter
	entitiesDeleted metric.Int64Counter
	githubRequests  metric.Int64Counter
	meter           metric.Meter
}

func New(serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	messaging, err := NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	grpcMetrics, err := NewGrpcMetrics(meter)
	if err != nil {
		return nil, err
	}

	dependencies, err := NewDependencyMetrics(meter)
	if err != nil {
		return nil, err
	}

	if err := RegisterRuntime(meter); err != nil {
		return nil, err
	}

	m := &Metrics{
		Database:     database,
		Messaging:    messaging,
		Grpc:         grpcMetrics,
		Dependencies: dependencies,
		meter:        meter,
	}

	m.entitiesCreated, err = meter.Int64Counter(
		"university.entities.created",
		metric.WithDescription("Entities persisted, by entity type"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, err
	}

	m.entitiesDeleted, err = meter.Int64Counter(
		"university.entities.deleted",
		metric.WithDescription("Entities deleted, by entity type"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, err
	}

	m.githubRequests, err = meter.Int64Counter(
		"university.github.requests",
		metric.WithDescription("Outbound GitHub API requests, by resource and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")
	return m, nil
}

// NewMock returns a Metrics whose Record* calls are no-ops.
func NewMock() *Metrics {
	return &Metrics{
		Database:     &DatabaseMetrics{},
		Messaging:    &MessagingMetrics{},
		Grpc:         &GrpcMetrics{},
		Dependencies: &DependencyMetrics{available: make(map[string]bool)},
	}
}

// Meter is nil for mocks.
func (m *Metrics) Meter() metric.Meter {
	return m.meter
}

func (m *Metrics) RecordEntityCreated(ctx context.Context, entity string) {
	if m != nil && m.entitiesCreated != nil {
		m.entitiesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (m *Metrics) RecordEntityDeleted(ctx context.Context, entity string) {
	if m != nil && m.entitiesDeleted != nil {
		m.entitiesDeleted.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (m *Metrics) RecordGithubRequest(ctx context.Context, resource string, ok bool) {
	if m != nil && m.githubRequests != nil {
		m.githubRequests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("resource", resource),
			attribute.Bool("ok", ok),
		))
	}
}
