package seed_test

import (
	"context"
	"testing"

	"go-retail-api/internal/shared/database/seed"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductID(t *testing.T) {
	assert.Equal(t, seed.ProductID("gaming-mouse"), seed.ProductID("gaming-mouse"))
	assert.NotEqual(t, seed.ProductID("gaming-mouse"), seed.ProductID("usb-c-cable"))
}

func TestSeedProducts(t *testing.T) {
	t.Run("upserts_every_product", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		for _, p := range seed.DemoCatalog {
			mock.ExpectExec("INSERT INTO products").
				WithArgs(seed.ProductID(p.Slug), p.Name, sqlmock.AnyArg(), p.Stock, p.IconRef).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}

		require.NoError(t, seed.SeedProducts(context.Background(), db, seed.DemoCatalog, nil))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects_bad_price", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		err = seed.SeedProducts(context.Background(), db, []seed.Product{{Slug: "x", Name: "X", Price: "free"}}, nil)
		assert.Error(t, err)
	})
}
