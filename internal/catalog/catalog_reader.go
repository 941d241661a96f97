package catalog

import (
	"context"

	"github.com/google/uuid"
)

// LockingReader reads stock with SELECT ... FOR UPDATE. It is only meaningful
// on a repository bound to a transaction: the locks are held until that
// transaction commits or rolls back, so a concurrent committer blocks on the
// same product rows instead of reading stale stock.
type LockingReader struct {
	repo Repository
}

func NewLockingReader(txRepo Repository) *LockingReader {
	return &LockingReader{repo: txRepo}
}

func (r *LockingReader) AvailableStock(ctx context.Context, productID uuid.UUID) (int32, error) {
	qty, err := r.repo.GetStockForUpdate(ctx, productID)
	if err != nil {
		return 0, mapRepoError(err)
	}
	return qty, nil
}
