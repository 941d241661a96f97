// Package checkout runs the per-user checkout saga: shipping, payment intent,
// stock validation and commit. Nothing durable is written before commit, so
// abandoning a saga at any earlier step needs no cleanup.
package checkout

import (
	"time"

	"go-retail-api/internal/cart"
	"go-retail-api/internal/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type State string

const (
	StateCart                   State = "cart"
	StateShippingCollected      State = "shipping_collected"
	StatePaymentIntentCollected State = "payment_intent_collected"
	StateValidating             State = "validating"
	StateCommitting             State = "committing"
	StateCompleted              State = "completed"
	StateAborted                State = "aborted"
)

// estimatedDeliveryDelay is shown on the confirmation; it is not a promise.
const estimatedDeliveryDelay = 3 * 24 * time.Hour

var transitions = map[State]map[State]struct{}{
	StateCart: {
		StateShippingCollected: {},
	},
	StateShippingCollected: {
		StateCart:                   {},
		StateShippingCollected:      {},
		StatePaymentIntentCollected: {},
	},
	StatePaymentIntentCollected: {
		StateCart:                   {},
		StateShippingCollected:      {},
		StatePaymentIntentCollected: {},
		StateValidating:             {},
	},
	StateValidating: {
		StateCart:                   {},
		StateShippingCollected:      {},
		StatePaymentIntentCollected: {},
		StateValidating:             {},
		StateCommitting:             {},
	},
	StateCommitting: {
		StateCompleted: {},
		StateAborted:   {},
	},
	StateCompleted: {},
	StateAborted:   {},
}

// Cancellable reports whether the saga can still be abandoned.
func (s State) Cancellable() bool {
	switch s {
	case StateCommitting, StateCompleted:
		return false
	}
	return true
}

// Restartable reports whether Start may reuse the saga's checkout id.
func (s State) Restartable() bool {
	switch s {
	case StateCart, StateShippingCollected, StatePaymentIntentCollected, StateValidating:
		return true
	}
	return false
}

type PaymentIntent struct {
	Method     string `json:"method"`
	CardHolder string `json:"cardHolder,omitempty"`
	CardLast4  string `json:"cardLast4,omitempty"`
}

type Confirmation struct {
	OrderID           uuid.UUID                 `json:"orderId"`
	CheckoutID        uuid.UUID                 `json:"checkoutId"`
	Total             decimal.Decimal           `json:"total"`
	Status            State                     `json:"status"`
	OrderStatus       string                    `json:"orderStatus"`
	Items             []order.OrderItemResponse `json:"items"`
	CommittedAt       time.Time                 `json:"committedAt"`
	EstimatedDelivery time.Time                 `json:"estimatedDelivery"`
}

type Saga struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	State        State           `json:"state"`
	Shipping     *order.Shipping `json:"shipping,omitempty"`
	Payment      *PaymentIntent  `json:"payment,omitempty"`
	Validated    *cart.Snapshot  `json:"validated,omitempty"`
	Confirmation *Confirmation   `json:"confirmation,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func NewSaga(userID uuid.UUID, now time.Time) *Saga {
	return &Saga{
		ID:        uuid.New(),
		UserID:    userID,
		State:     StateCart,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Saga) Can(to State) bool {
	_, ok := transitions[s.State][to]
	return ok
}

// Transition moves the saga along an allowed edge.
func (s *Saga) Transition(to State, now time.Time) error {
	if !s.Can(to) {
		return ErrInvalidCheckoutState.WithDetails(map[string]State{
			"current": s.State,
			"target":  to,
		})
	}
	s.State = to
	s.UpdatedAt = now
	if to != StateValidating && to != StateCommitting && to != StateCompleted {
		s.Validated = nil
	}
	return nil
}

func confirmationFor(sagaID uuid.UUID, o order.OrderResponse, now time.Time) *Confirmation {
	return &Confirmation{
		OrderID:           o.ID,
		CheckoutID:        sagaID,
		Total:             o.Total,
		Status:            StateCompleted,
		OrderStatus:       o.Status,
		Items:             o.Items,
		CommittedAt:       now,
		EstimatedDelivery: now.Add(estimatedDeliveryDelay),
	}
}
