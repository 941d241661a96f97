package catalog

import (
	"context"
	"database/sql"

	"go-retail-api/internal/shared/database/dbgen"

	"github.com/google/uuid"
)

//go:generate mockgen -source=catalog_repo.go -destination=../mock/catalog/catalog_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx dbgen.DBTX) Repository

	GetProduct(ctx context.Context, id uuid.UUID) (dbgen.Product, error)
	GetStock(ctx context.Context, id uuid.UUID) (int32, error)
	// GetStockForUpdate locks the product row until the surrounding transaction ends.
	GetStockForUpdate(ctx context.Context, id uuid.UUID) (int32, error)
	// DecrementStock reports the rows touched; zero means the guard stock_quantity >= qty failed.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (int64, error)
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

func (r *repository) GetProduct(ctx context.Context, id uuid.UUID) (dbgen.Product, error) {
	return r.queries.GetProductByID(ctx, id)
}

func (r *repository) GetStock(ctx context.Context, id uuid.UUID) (int32, error) {
	return r.queries.GetProductStock(ctx, id)
}

func (r *repository) GetStockForUpdate(ctx context.Context, id uuid.UUID) (int32, error) {
	return r.queries.GetProductStockForUpdate(ctx, id)
}

func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (int64, error) {
	return r.queries.DecrementProductStock(ctx, dbgen.DecrementProductStockParams{
		ID:            id,
		StockQuantity: qty,
	})
}
