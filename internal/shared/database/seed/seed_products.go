package seed

import (
	"context"
	"database/sql"
	"fmt"

	"go-retail-api/internal/shared/database/dbgen"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Product struct {
	Slug    string
	Name    string
	Price   string
	Stock   int32
	IconRef string
}

// DemoCatalog is the storefront's starter inventory.
var DemoCatalog = []Product{
	{Slug: "wireless-headphones", Name: "Wireless Headphones", Price: "129.99", Stock: 25, IconRef: "icons/headphones.svg"},
	{Slug: "gaming-mouse", Name: "Gaming Mouse", Price: "49.99", Stock: 40, IconRef: "icons/mouse.svg"},
	{Slug: "mechanical-keyboard", Name: "Mechanical Keyboard", Price: "89.50", Stock: 15, IconRef: "icons/keyboard.svg"},
	{Slug: "usb-c-cable", Name: "USB-C Cable 2m", Price: "9.99", Stock: 200, IconRef: "icons/cable.svg"},
	{Slug: "webcam-1080p", Name: "1080p Webcam", Price: "59.00", Stock: 0, IconRef: "icons/webcam.svg"},
	{Slug: "laptop-stand", Name: "Aluminium Laptop Stand", Price: "34.95", Stock: 3, IconRef: "icons/stand.svg"},
}

// ProductID derives a stable id from the slug so re-running the seed updates
// rows instead of duplicating them.
func ProductID(slug string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("retail:product:"+slug))
}

func SeedProducts(ctx context.Context, db *sql.DB, products []Product, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := dbgen.New(db)

	for _, p := range products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("product %s: bad price %q: %w", p.Slug, p.Price, err)
		}

		err = q.UpsertProduct(ctx, dbgen.UpsertProductParams{
			ID:            ProductID(p.Slug),
			Name:          p.Name,
			Price:         price,
			StockQuantity: p.Stock,
			IconRef:       p.IconRef,
		})
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
	}

	logger.Info("products seeded", zap.Int("count", len(products)))
	return nil
}
