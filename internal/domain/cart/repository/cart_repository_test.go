package repository

import (
	"context"
	"testing"

	"shop_engine/internal/domain/cart/model"
	"shop_engine/pkg/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetByUserID returns nil when the user has no cart", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewCartRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "carts" WHERE user_id = .+`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		cart, err := repo.GetByUserID(ctx, "u-1")

		require.NoError(t, err)
		assert.Nil(t, cart)
	})

	t.Run("DeleteItem outside the cart is not found", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewCartRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "cart_items" WHERE .*id = .+ AND cart_id = .+`).
			WithArgs("i-1", "cart-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.DeleteItem(ctx, "cart-1", "i-1")

		assert.ErrorIs(t, err, model.ErrCartItemNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BumpVersion increments in place", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewCartRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "carts" SET "version"=version \+ 1 WHERE .*id = .+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.BumpVersion(ctx, "cart-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
