package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MessagingMetrics covers domain events handed to NATS or Kafka.
type MessagingMetrics struct {
	eventsPublished metric.Int64Counter
	publishDuration metric.Float64Histogram
	publishErrors   metric.Int64Counter
}

func NewMessagingMetrics(meter metric.Meter) (*MessagingMetrics, error) {
	mm := &MessagingMetrics{}

	var err error

	mm.eventsPublished, err = meter.Int64Counter(
		"university.events.published",
		metric.WithDescription("Domain events published, by broker and subject"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	// Buckets: 100µs, 500µs, 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s
	mm.publishDuration, err = meter.Float64Histogram(
		"university.events.publish_duration",
		metric.WithDescription("Time spent handing an event to the broker"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0,
		),
	)
	if err != nil {
		return nil, err
	}

	mm.publishErrors, err = meter.Int64Counter(
		"university.events.publish_errors",
		metric.WithDescription("Events the broker refused"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return mm, nil
}

// RecordPublish records one publish attempt. A nil receiver is a no-op.
func (mm *MessagingMetrics) RecordPublish(ctx context.Context, broker, subject string, duration time.Duration, err error) {
	if mm == nil || mm.publishDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("broker", broker),
		attribute.String("subject", subject),
	)
	mm.publishDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		mm.publishErrors.Add(ctx, 1, attrs)
		return
	}
	mm.eventsPublished.Add(ctx, 1, attrs)
}
