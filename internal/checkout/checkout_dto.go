package checkout

import (
	"time"

	"go-retail-api/internal/cart"
	"go-retail-api/internal/order"

	"github.com/google/uuid"
)

// ==================== REQUEST STRUCTS ====================

type StartRequest struct {
	Shipping order.Shipping `json:"shipping"`
}

type CardDetails struct {
	Holder string `json:"holder"`
	Number string `json:"number"`
}

type PaymentRequest struct {
	Method string       `json:"method" validate:"required,oneof=credit_card cash"`
	Card   *CardDetails `json:"card"`
}

// ==================== RESPONSE STRUCTS ====================

type SagaResponse struct {
	CheckoutID   uuid.UUID       `json:"checkoutId"`
	State        State           `json:"state"`
	Shipping     *order.Shipping `json:"shipping,omitempty"`
	Payment      *PaymentIntent  `json:"payment,omitempty"`
	Cart         *cart.Snapshot  `json:"cart,omitempty"`
	Confirmation *Confirmation   `json:"confirmation,omitempty"`
	ExpiresAt    time.Time       `json:"expiresAt"`
}

func toSagaResponse(s *Saga, ttl time.Duration) SagaResponse {
	return SagaResponse{
		CheckoutID:   s.ID,
		State:        s.State,
		Shipping:     s.Shipping,
		Payment:      s.Payment,
		Cart:         s.Validated,
		Confirmation: s.Confirmation,
		ExpiresAt:    s.UpdatedAt.Add(ttl),
	}
}
