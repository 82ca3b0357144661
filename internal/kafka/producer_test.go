package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_Publish(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true

	t.Run("SendsEventKeyedByType", func(t *testing.T) {
		mock := mocks.NewSyncProducer(t, config)
		event := events.New(events.StudentCreated, map[string]string{"email": "ana@unq.edu.ar"})

		mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var got events.Event
			if err := json.Unmarshal(val, &got); err != nil {
				return err
			}
			if got.ID != event.ID || got.Type != events.StudentCreated {
				return errors.New("unexpected event in message value")
			}
			return nil
		})

		producer := newWithSyncProducer(mock, "university.events", logger, metrics.NewMock())
		require.NoError(t, producer.Publish(context.Background(), event))
		require.NoError(t, producer.Close())
	})

	t.Run("BrokerFailure", func(t *testing.T) {
		mock := mocks.NewSyncProducer(t, config)
		mock.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

		producer := newWithSyncProducer(mock, "university.events", logger, metrics.NewMock())
		err := producer.Publish(context.Background(), events.New(events.ProjectCreated, nil))
		assert.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
		require.NoError(t, producer.Close())
	})

	t.Run("UnencodablePayload", func(t *testing.T) {
		mock := mocks.NewSyncProducer(t, config)

		producer := newWithSyncProducer(mock, "university.events", logger, metrics.NewMock())
		err := producer.Publish(context.Background(), events.New(events.ProjectCreated, make(chan int)))
		assert.Error(t, err)
		require.NoError(t, producer.Close())
	})
}
