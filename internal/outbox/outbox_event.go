package outbox

import (
	"encoding/json"
	"fmt"

	"go-retail-api/internal/shared/database/dbgen"

	"github.com/google/uuid"
)

const (
	AggregateOrder = "ORDER"

	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// NewEvent builds an insert for an event row. The row is written in the same
// transaction as the state change it describes.
func NewEvent(aggregateType, eventType string, aggregateID uuid.UUID, payload any) (dbgen.CreateOutboxEventParams, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return dbgen.CreateOutboxEventParams{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return dbgen.CreateOutboxEventParams{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
	}, nil
}
