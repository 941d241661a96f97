package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Stock     int32
	IconRef   string
}

type StockCheckResponse struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	AvailableStock int32  `json:"availableStock"`
}
