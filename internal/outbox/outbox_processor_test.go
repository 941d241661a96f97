package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	outboxMock "go-retail-api/internal/mock/outbox"
	"go-retail-api/internal/outbox"
	"go-retail-api/internal/shared/database/dbgen"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeWriter struct {
	err      error
	messages []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func pendingEvents(n int) []dbgen.OutboxEvent {
	events := make([]dbgen.OutboxEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, dbgen.OutboxEvent{
			ID:            uuid.New(),
			AggregateType: outbox.AggregateOrder,
			AggregateID:   uuid.New(),
			EventType:     outbox.EventOrderCreated,
			Payload:       []byte(`{}`),
			Status:        "PENDING",
		})
	}
	return events
}

func TestProcessor_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	cfg := outbox.ProcessorConfig{PollInterval: time.Second, BatchSize: 10, MaxAttempts: 5}

	t.Run("publishes_and_marks_sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := outboxMock.NewMockRepository(ctrl)
		writer := &fakeWriter{}
		p := outbox.NewProcessor(db, repo, writer, cfg, nil)

		events := pendingEvents(2)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().ListPending(gomock.Any(), int32(10)).Return(events, nil)
		repo.EXPECT().MarkSent(gomock.Any(), events[0].ID).Return(nil)
		repo.EXPECT().MarkSent(gomock.Any(), events[1].ID).Return(nil)

		sent, err := p.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		require.Len(t, writer.messages, 2)
		assert.Equal(t, events[0].AggregateID.String(), string(writer.messages[0].Key))
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("empty_batch_rolls_back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := outboxMock.NewMockRepository(ctrl)
		p := outbox.NewProcessor(db, repo, &fakeWriter{}, cfg, nil)

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().ListPending(gomock.Any(), int32(10)).Return(nil, nil)

		sent, err := p.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("publish_failure_counts_attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := outboxMock.NewMockRepository(ctrl)
		p := outbox.NewProcessor(db, repo, &fakeWriter{err: errors.New("broker unreachable")}, cfg, nil)

		events := pendingEvents(1)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().ListPending(gomock.Any(), int32(10)).Return(events, nil)
		repo.EXPECT().MarkFailed(gomock.Any(), events[0].ID, int32(5)).Return(nil)

		sent, err := p.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("breaker_opens_after_consecutive_failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := outboxMock.NewMockRepository(ctrl)
		p := outbox.NewProcessor(db, repo, &fakeWriter{err: errors.New("broker unreachable")}, cfg, nil)

		events := pendingEvents(5)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().ListPending(gomock.Any(), int32(10)).Return(events, nil)
		repo.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), int32(5)).Return(nil).Times(3)

		sent, err := p.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)

		// open breaker: the next poll does not touch the database
		sent, err = p.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, sent)
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestNewEvent(t *testing.T) {
	id := uuid.New()
	params, err := outbox.NewEvent(outbox.AggregateOrder, outbox.EventOrderCreated, id, map[string]string{"order_id": id.String()})
	require.NoError(t, err)

	assert.Equal(t, id, params.AggregateID)
	assert.NotEqual(t, uuid.Nil, params.ID)
	assert.JSONEq(t, `{"order_id":"`+id.String()+`"}`, string(params.Payload))
}
