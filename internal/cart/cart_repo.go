package cart

import (
	"context"
	"database/sql"

	"go-retail-api/internal/shared/database/dbgen"

	"github.com/google/uuid"
)

//go:generate mockgen -source=cart_repo.go -destination=../mock/cart/cart_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx dbgen.DBTX) Repository

	GetCart(ctx context.Context, userID uuid.UUID) (dbgen.Cart, error)
	EnsureCart(ctx context.Context, userID uuid.UUID) error
	// BumpVersion reports the rows touched; zero means the stored version moved on.
	BumpVersion(ctx context.Context, userID uuid.UUID, version int64) (int64, error)
	TouchVersion(ctx context.Context, userID uuid.UUID) error

	ListItems(ctx context.Context, userID uuid.UUID) ([]dbgen.CartItem, error)
	InsertItem(ctx context.Context, arg dbgen.InsertCartItemParams) error
	DeleteAllItems(ctx context.Context, userID uuid.UUID) error

	Totals(ctx context.Context, userID uuid.UUID) (dbgen.GetCartTotalsRow, error)
}

type repository struct {
	queries *dbgen.Queries
}

func NewRepository(q *dbgen.Queries) Repository {
	return &repository{queries: q}
}

func (r *repository) WithTx(tx dbgen.DBTX) Repository {
	if sqlTx, ok := tx.(*sql.Tx); ok {
		return &repository{
			queries: r.queries.WithTx(sqlTx),
		}
	}

	return r
}

func (r *repository) GetCart(ctx context.Context, userID uuid.UUID) (dbgen.Cart, error) {
	return r.queries.GetCartByUserID(ctx, userID)
}

func (r *repository) EnsureCart(ctx context.Context, userID uuid.UUID) error {
	return r.queries.EnsureCart(ctx, userID)
}

func (r *repository) BumpVersion(ctx context.Context, userID uuid.UUID, version int64) (int64, error) {
	return r.queries.BumpCartVersion(ctx, dbgen.BumpCartVersionParams{
		UserID:  userID,
		Version: version,
	})
}

func (r *repository) TouchVersion(ctx context.Context, userID uuid.UUID) error {
	return r.queries.TouchCartVersion(ctx, userID)
}

func (r *repository) ListItems(ctx context.Context, userID uuid.UUID) ([]dbgen.CartItem, error) {
	return r.queries.ListCartItems(ctx, userID)
}

func (r *repository) InsertItem(ctx context.Context, arg dbgen.InsertCartItemParams) error {
	return r.queries.InsertCartItem(ctx, arg)
}

func (r *repository) DeleteAllItems(ctx context.Context, userID uuid.UUID) error {
	return r.queries.DeleteAllCartItems(ctx, userID)
}

func (r *repository) Totals(ctx context.Context, userID uuid.UUID) (dbgen.GetCartTotalsRow, error) {
	return r.queries.GetCartTotals(ctx, userID)
}
