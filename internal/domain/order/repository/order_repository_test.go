package repository

import (
	"context"
	"testing"

	"shop_engine/internal/domain/order/model"
	baseModel "shop_engine/pkg/model"
	"shop_engine/pkg/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(version int) *model.Order {
	return &model.Order{
		BaseModel:     baseModel.BaseModel{ID: "o-1"},
		Versioned:     baseModel.Versioned{Version: version},
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentPaid,
		Subtotal:      decimal.NewFromInt(500),
		TotalAmount:   decimal.NewFromInt(500),
	}
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Save bumps the version when it matches", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders" SET .*"version"=version \+ 1.* WHERE \(id = .+ AND version = .+\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		order := testOrder(3)
		require.NoError(t, repo.Save(ctx, order))
		assert.Equal(t, 4, order.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Save on a stale version reports a concurrent update", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders" SET .+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		order := testOrder(3)
		err := repo.Save(ctx, order)

		assert.ErrorIs(t, err, model.ErrConcurrentUpdate)
		assert.Equal(t, 3, order.Version)
	})

	t.Run("GetByIDForUser hides foreign orders", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewOrderRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE \(id = .+ AND user_id = .+\)`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByIDForUser(ctx, "o-1", "u-2")

		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})

	t.Run("GetByID loads items in placement order", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewOrderRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("o-1", model.StatusDelivered))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"."order_id" = .+ ORDER BY position, id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "position", "status"}).
				AddRow("i-1", "o-1", 0, model.StatusReturned).
				AddRow("i-2", "o-1", 1, model.StatusDelivered))

		order, err := repo.GetByID(ctx, "o-1")

		require.NoError(t, err)
		assert.Equal(t, []string{model.StatusReturned, model.StatusDelivered}, order.ItemStatuses())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListHistory is ordered by time", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewOrderRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "order_status_history" WHERE order_id = .+ ORDER BY created_at, seq`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "from_status", "to_status", "actor"}).
				AddRow("h-1", "o-1", "", model.StatusPending, model.ActorCustomer).
				AddRow("h-2", "o-1", model.StatusPending, model.StatusConfirmed, model.ActorAdmin))

		entries, err := repo.ListHistory(ctx, "o-1")

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, model.StatusConfirmed, entries[1].ToStatus)
	})
}
