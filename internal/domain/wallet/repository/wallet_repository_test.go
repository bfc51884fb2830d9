package repository

import (
	"context"
	"testing"

	"shop_engine/internal/domain/wallet/model"
	"shop_engine/pkg/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Debit guards on the balance", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewWalletRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "wallets" SET "balance"=balance - .+ WHERE \(id = .+ AND balance >= .+\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		ok, err := repo.Debit(ctx, "w-1", decimal.NewFromInt(700))

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Credit on a missing wallet", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewWalletRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "wallets" SET "balance"=balance \+ .+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Credit(ctx, "gone", decimal.NewFromInt(100))

		assert.ErrorIs(t, err, model.ErrWalletNotFound)
	})

	t.Run("GetByUserID maps no rows to not found", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewWalletRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = .+`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByUserID(ctx, "u-1")

		assert.ErrorIs(t, err, model.ErrWalletNotFound)
	})
}
