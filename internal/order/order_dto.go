package order

import (
	"time"

	"go-retail-api/internal/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PaymentCreditCard = "credit_card"
	PaymentCash       = "cash"
)

// ==================== INPUT ====================

type Shipping struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// CreateOrderInput is everything checkout hands over at commit time.
// Prices are taken from Cart, never from the live catalog.
type CreateOrderInput struct {
	CheckoutID    uuid.UUID
	UserID        uuid.UUID
	Cart          cart.Snapshot
	PaymentMethod string
	Shipping      Shipping
}

type ListOrderRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

type UpdateStatusAdminRequest struct {
	Status string `json:"status" binding:"required"`
}

// ==================== RESPONSE ====================

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	CheckoutID    uuid.UUID           `json:"checkoutId"`
	UserID        uuid.UUID           `json:"userId"`
	Status        string              `json:"status"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod string              `json:"paymentMethod"`
	Shipping      *Shipping           `json:"shipping,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type OrderItemResponse struct {
	ProductID           uuid.UUID       `json:"productId"`
	NameSnapshot        string          `json:"nameSnapshot"`
	QuantityOrdered     int32           `json:"quantityOrdered"`
	UnitPriceAtPurchase decimal.Decimal `json:"unitPriceAtPurchase"`
	LineTotal           decimal.Decimal `json:"lineTotal"`
}

// createdPayload is the body of the ORDER_CREATED outbox event.
type createdPayload struct {
	OrderID    uuid.UUID           `json:"orderId"`
	CheckoutID uuid.UUID           `json:"checkoutId"`
	UserID     uuid.UUID           `json:"userId"`
	Total      decimal.Decimal     `json:"total"`
	Items      []OrderItemResponse `json:"items"`
}

type statusChangedPayload struct {
	OrderID uuid.UUID `json:"orderId"`
	From    string    `json:"from"`
	To      string    `json:"to"`
}
