package database

import (
	"context"
	"errors"
	"testing"

	"shop_engine/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTransaction(t *testing.T) {
	t.Run("Commits when fn succeeds", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		tr := NewTransactor(db)
		err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
			assert.True(t, InTransaction(ctx))
			return nil
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back when fn fails", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		tr := NewTransactor(db)
		err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nested call reuses outer transaction", func(t *testing.T) {
		db, mock := testutil.NewGormMock(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		tr := NewTransactor(db)
		err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
			outer := Conn(ctx, db)
			return tr.WithinTransaction(ctx, func(inner context.Context) error {
				assert.Same(t, outer, Conn(inner, db))
				return nil
			})
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conn without transaction uses db", func(t *testing.T) {
		db, _ := testutil.NewGormMock(t)
		assert.False(t, InTransaction(context.Background()))
		assert.NotNil(t, Conn(context.Background(), db))
	})
}
