package cart

import (
	"context"
	"database/sql"
	"errors"

	"go-retail-api/internal/shared/database/dbgen"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PersistentCart is the durable mirror of a signed-in user's cart.
//
//go:generate mockgen -source=cart_persistent.go -destination=../mock/cart/cart_persistent_mock.go -package=mock
type PersistentCart interface {
	Load(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Save replaces every stored line with c's lines. It fails with
	// ErrCartVersionConflict when the row changed since c was loaded, and
	// advances c.Version on success.
	Save(ctx context.Context, userID uuid.UUID, c *Cart) error
	Total(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

type persistentCart struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewPersistentCart(db *sql.DB, repo Repository, logger *zap.Logger) PersistentCart {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &persistentCart{db: db, repo: repo, logger: logger.Named("cart.persistent")}
}

func (p *persistentCart) Load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	c := New(userID.String())

	row, err := p.repo.GetCart(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return nil, ErrCartPersistence.Wrap(err)
	}
	c.Version = row.Version

	items, err := p.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, ErrCartPersistence.Wrap(err)
	}
	for _, it := range items {
		c.Items = append(c.Items, Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPriceSnapshot,
			IconRef:   it.IconRef,
			Quantity:  it.Quantity,
			StockHint: it.StockHint,
		})
	}
	return c, nil
}

func (p *persistentCart) Save(ctx context.Context, userID uuid.UUID, c *Cart) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return ErrCartPersistence.Wrap(err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	repo := p.repo.WithTx(tx)

	if err := repo.EnsureCart(ctx, userID); err != nil {
		return ErrCartPersistence.Wrap(err)
	}

	rows, err := repo.BumpVersion(ctx, userID, c.Version)
	if err != nil {
		return ErrCartPersistence.Wrap(err)
	}
	if rows == 0 {
		p.logger.Info("cart version conflict",
			zap.String("user_id", userID.String()),
			zap.Int64("version", c.Version),
		)
		return ErrCartVersionConflict
	}

	if err := repo.DeleteAllItems(ctx, userID); err != nil {
		return ErrCartPersistence.Wrap(err)
	}

	for i, it := range c.Items {
		if err := repo.InsertItem(ctx, dbgen.InsertCartItemParams{
			UserID:            userID,
			ProductID:         it.ProductID,
			Name:              it.Name,
			IconRef:           it.IconRef,
			Quantity:          it.Quantity,
			UnitPriceSnapshot: it.UnitPrice,
			StockHint:         it.StockHint,
			Position:          int32(i),
		}); err != nil {
			return ErrCartPersistence.Wrap(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ErrCartPersistence.Wrap(err)
	}
	committed = true

	c.Version++
	c.OwnerKey = userID.String()
	return nil
}

func (p *persistentCart) Total(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	row, err := p.repo.Totals(ctx, userID)
	if err != nil {
		return decimal.Zero, ErrCartPersistence.Wrap(err)
	}
	return row.Subtotal, nil
}

func (p *persistentCart) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	row, err := p.repo.Totals(ctx, userID)
	if err != nil {
		return 0, ErrCartPersistence.Wrap(err)
	}
	return row.ItemCount, nil
}

// ClearInTx empties a user's stored cart on a repository already bound to the
// caller's transaction, bumping the version so stale working copies cannot
// write the old lines back.
func ClearInTx(ctx context.Context, txRepo Repository, userID uuid.UUID) error {
	if err := txRepo.DeleteAllItems(ctx, userID); err != nil {
		return err
	}
	return txRepo.TouchVersion(ctx, userID)
}
