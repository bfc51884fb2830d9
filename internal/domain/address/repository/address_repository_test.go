package repository

import (
	"context"
	"testing"

	"shop_engine/internal/domain/address/model"
	"shop_engine/pkg/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByIDForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Address of another user is not found", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewAddressRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE .*id = .+ AND user_id = .+`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByIDForUser(ctx, "a-1", "intruder")

		assert.ErrorIs(t, err, model.ErrAddressNotFound)
	})

	t.Run("Own address is returned", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		repo := NewAddressRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE .*id = .+ AND user_id = .+`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "city"}).AddRow("a-1", "u-1", "Asha", "Pune"))

		addr, err := repo.GetByIDForUser(ctx, "a-1", "u-1")

		require.NoError(t, err)
		assert.Equal(t, "Pune", addr.City)
	})
}
