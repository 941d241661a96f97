// Package cart holds a shopper's pending selections: the Cart value itself,
// its guest (Redis) and user (Postgres) storage, the login merge, and the
// HTTP surface for mutating it.
package cart

import (
	"math"

	"go-retail-api/internal/stock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DisplayFields are copied from the catalog when an item is added. They may
// drift from the catalog afterwards; checkout re-validates stock and the order
// freezes whatever price the cart holds at commit.
type DisplayFields struct {
	Name      string
	UnitPrice decimal.Decimal
	IconRef   string
	StockHint int32
}

type Item struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	IconRef   string          `json:"iconRef,omitempty"`
	Quantity  int32           `json:"quantity"`
	StockHint int32           `json:"availableStockHint"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

// Cart is owned by exactly one actor. Items keep insertion order and hold at
// most one entry per product, always with quantity >= 1.
type Cart struct {
	OwnerKey string `json:"ownerKey"`
	Items    []Item `json:"items"`
	// Version is the persistent row version the cart was loaded at; zero for
	// guest carts and carts never saved.
	Version int64 `json:"version"`
}

type Snapshot struct {
	OwnerKey  string          `json:"ownerKey"`
	Items     []Item          `json:"items"`
	ItemCount int64           `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func New(ownerKey string) *Cart {
	return &Cart{OwnerKey: ownerKey, Items: []Item{}}
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Item(productID uuid.UUID) (Item, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddItem sums into an existing line or appends a new one. Display fields are
// refreshed from the latest capture. There is no stock clamp here.
func (c *Cart) AddItem(productID uuid.UUID, quantity int32, fields DisplayFields) (Snapshot, error) {
	if quantity <= 0 {
		return Snapshot{}, ErrInvalidQuantity
	}

	if i := c.indexOf(productID); i >= 0 {
		item := &c.Items[i]
		if int64(item.Quantity)+int64(quantity) > math.MaxInt32 {
			return Snapshot{}, ErrQuantityTooLarge
		}
		item.Quantity += quantity
		item.Name = fields.Name
		item.UnitPrice = fields.UnitPrice
		item.IconRef = fields.IconRef
		item.StockHint = fields.StockHint
		return c.Snapshot(), nil
	}

	c.Items = append(c.Items, Item{
		ProductID: productID,
		Name:      fields.Name,
		UnitPrice: fields.UnitPrice,
		IconRef:   fields.IconRef,
		Quantity:  quantity,
		StockHint: fields.StockHint,
	})
	return c.Snapshot(), nil
}

// AdjustQuantity applies a signed delta. Reaching zero or below removes the
// line; an absent product is a no-op.
func (c *Cart) AdjustQuantity(productID uuid.UUID, delta int32) Snapshot {
	i := c.indexOf(productID)
	if i < 0 {
		return c.Snapshot()
	}
	next := int64(c.Items[i].Quantity) + int64(delta)
	if next > math.MaxInt32 {
		next = math.MaxInt32
	}
	return c.SetQuantity(productID, int32(next))
}

func (c *Cart) SetQuantity(productID uuid.UUID, quantity int32) Snapshot {
	i := c.indexOf(productID)
	if i < 0 {
		return c.Snapshot()
	}
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}
	c.Items[i].Quantity = quantity
	return c.Snapshot()
}

func (c *Cart) RemoveItem(productID uuid.UUID) Snapshot {
	if i := c.indexOf(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	return c.Snapshot()
}

func (c *Cart) Clear() Snapshot {
	c.Items = []Item{}
	return c.Snapshot()
}

// MergeFrom folds another cart's items into c, summing quantities for products
// present in both. Lines only in other are appended in their original order.
func (c *Cart) MergeFrom(other *Cart) {
	for _, it := range other.Items {
		if i := c.indexOf(it.ProductID); i >= 0 {
			sum := int64(c.Items[i].Quantity) + int64(it.Quantity)
			if sum > math.MaxInt32 {
				sum = math.MaxInt32
			}
			c.Items[i].Quantity = int32(sum)
			continue
		}
		c.Items = append(c.Items, it)
	}
}

// ApplyCorrections lowers quantities to what stock allows and drops lines
// that are out of stock or no longer in the catalog.
func (c *Cart) ApplyCorrections(verdicts []stock.Verdict) Snapshot {
	for _, v := range verdicts {
		if v.OK() {
			continue
		}
		if v.Removed() {
			c.RemoveItem(v.ProductID)
			continue
		}
		if i := c.indexOf(v.ProductID); i >= 0 {
			c.Items[i].Quantity = v.CorrectedQuantity
			c.Items[i].StockHint = v.Available
		}
	}
	return c.Snapshot()
}

// Snapshot returns a deep copy with derived totals. Mutating it never touches c.
func (c *Cart) Snapshot() Snapshot {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)

	var count int64
	subtotal := decimal.Zero
	for _, it := range items {
		count += int64(it.Quantity)
		subtotal = subtotal.Add(it.LineTotal())
	}

	return Snapshot{
		OwnerKey:  c.OwnerKey,
		Items:     items,
		ItemCount: count,
		Subtotal:  subtotal,
	}
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s Snapshot) Lines() []stock.Line {
	lines := make([]stock.Line, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, stock.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
		})
	}
	return lines
}
