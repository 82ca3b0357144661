package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"

	"github.com/nats-io/nats.go"
)

// Producer publishes domain events to NATS on "<prefix>.<event type>".
type Producer struct {
	conn    *nats.Conn
	prefix  string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewProducer(url, prefix string, logger *slog.Logger, m *metrics.Metrics) (*Producer, error) {
	nc, err := nats.Connect(url, nats.Name("university-api"))
	if err != nil {
		return nil, err
	}

	if prefix == "" {
		prefix = "university"
	}

	logger.Info("NATS producer initialized", "url", url, "subject_prefix", prefix)

	return &Producer{
		conn:    nc,
		prefix:  prefix,
		logger:  logger,
		metrics: m,
	}, nil
}

func (p *Producer) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

func (p *Producer) Publish(ctx context.Context, event events.Event) error {
	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	subject := p.Subject(event.Type)
	msg := nats.NewMsg(subject)
	msg.Header.Set("Event-Id", event.ID)
	msg.Data = valueBytes

	start := time.Now()
	err = p.conn.PublishMsg(msg)
	p.metrics.Messaging.RecordPublish(ctx, "nats", subject, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to NATS", "subject", subject, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event sent to NATS", "subject", subject, "event_id", event.ID)
	return nil
}

func (p *Producer) Close() error {
	return p.conn.Drain()
}
