package producer_test

import (
	"testing"

	"go-retail-api/internal/messaging/kafka/producer"
	"go-retail-api/internal/shared/database/dbgen"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	event := dbgen.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "ORDER",
		AggregateID:   uuid.New(),
		EventType:     "ORDER_CREATED",
		Payload:       []byte(`{"order_id":"x"}`),
	}

	msg := producer.Message(event)

	assert.Equal(t, event.AggregateID.String(), string(msg.Key))
	assert.Equal(t, []byte(event.Payload), msg.Value)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "ORDER_CREATED", headers["event_type"])
	assert.Equal(t, "ORDER", headers["aggregate_type"])
	assert.Equal(t, event.ID.String(), headers["event_id"])
}
