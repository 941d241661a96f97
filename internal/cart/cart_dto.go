package cart

import (
	"github.com/shopspring/decimal"
)

const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
)

type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int32  `json:"quantity" validate:"required,min=1"`
}

// UpdateItemRequest carries either a step action or an absolute quantity.
// An absolute quantity of zero removes the line.
type UpdateItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Action    string `json:"action" validate:"omitempty,oneof=increase decrease"`
	Quantity  *int32 `json:"quantity" validate:"omitempty,min=0"`
}

type RemoveItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

type ItemResponse struct {
	Item
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type CartResponse struct {
	Items     []ItemResponse  `json:"items"`
	ItemCount int64           `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SummaryResponse struct {
	ItemCount int64           `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// StockWarning is advisory: the mutation was kept, but the cart now asks for
// more than is on the shelf.
type StockWarning struct {
	Status            string `json:"status"`
	Available         int32  `json:"available"`
	SuggestedQuantity int32  `json:"suggestedQuantity"`
}

type MutationResponse struct {
	Item         *ItemResponse   `json:"item,omitempty"`
	ItemCount    int64           `json:"itemCount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	StockWarning *StockWarning   `json:"stockWarning,omitempty"`
}

func toCartResponse(s Snapshot) CartResponse {
	items := make([]ItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, ItemResponse{Item: it, LineTotal: it.LineTotal()})
	}
	return CartResponse{
		Items:     items,
		ItemCount: s.ItemCount,
		Subtotal:  s.Subtotal,
	}
}
