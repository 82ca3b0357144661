package messaging_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/messaging"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/testing/testnats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSProducerIntegration(t *testing.T) {
	natsContainer := testnats.SetupSharedNATS(t)
	defer natsContainer.Cleanup(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	producer, err := messaging.NewProducer(natsContainer.URL, "test", logger, metrics.NewMock())
	require.NoError(t, err)
	defer func() { _ = producer.Close() }()

	t.Run("Subject", func(t *testing.T) {
		assert.Equal(t, "test.student.created", producer.Subject(events.StudentCreated))
	})

	t.Run("Publish_DeliversEvent", func(t *testing.T) {
		msgs := natsContainer.Subscribe(t, "test.>")

		event := events.New(events.StudentCreated, map[string]string{"email": "ana@unq.edu.ar"})
		require.NoError(t, producer.Publish(context.Background(), event))

		select {
		case msg := <-msgs:
			assert.Equal(t, "test.student.created", msg.Subject)
			assert.Equal(t, event.ID, msg.Header.Get("Event-Id"))

			var got events.Event
			require.NoError(t, json.Unmarshal(msg.Data, &got))
			assert.Equal(t, events.StudentCreated, got.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("event was not delivered")
		}
	})

	t.Run("Emit_DeliversEvent", func(t *testing.T) {
		msgs := natsContainer.Subscribe(t, "test.project.created")

		events.Emit(context.Background(), producer, logger, events.ProjectCreated, map[string]int64{"id": 1})

		select {
		case msg := <-msgs:
			assert.Equal(t, "test.project.created", msg.Subject)
		case <-time.After(2 * time.Second):
			t.Fatal("event was not delivered")
		}
	})
}
