package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"

	"github.com/IBM/sarama"
)

// Producer publishes domain events to a single topic keyed by event type.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewProducer(brokers []string, topic string, logger *slog.Logger, m *metrics.Metrics) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	logger.Info("kafka producer initialized", "brokers", brokers, "topic", topic)

	return newWithSyncProducer(producer, topic, logger, m), nil
}

func newWithSyncProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger, m *metrics.Metrics) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger,
		metrics:  m,
	}
}

func (p *Producer) Publish(ctx context.Context, event events.Event) error {
	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Type),
		Value: sarama.ByteEncoder(valueBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-id"), Value: []byte(event.ID)},
		},
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	p.metrics.Messaging.RecordPublish(ctx, "kafka", p.topic, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to kafka", "type", event.Type, "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event sent to kafka",
		"topic", p.topic,
		"type", event.Type,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
