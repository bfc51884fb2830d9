package repository

import (
	"context"
	"testing"

	"shop_engine/internal/domain/catalog/model"
	"shop_engine/pkg/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetProduct maps a missing row to ErrProductNotFound", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewCatalogRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = .+`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetProduct(ctx, "missing")

		assert.ErrorIs(t, err, model.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetProductsByIDs with no ids skips the query", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewCatalogRepository(db)

		products, err := repo.GetProductsByIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
