package strategy

import (
	"context"
	"testing"

	"shop_engine/internal/domain/order/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(CODStrategy{}, OnlineStrategy{})

	t.Run("Cash on delivery stays pending", func(t *testing.T) {
		s, err := r.Get(model.MethodCOD)
		require.NoError(t, err)

		status, err := s.Settle(ctx, &model.Order{}, false)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPending, status)
	})

	t.Run("Online payment needs confirmation", func(t *testing.T) {
		s, err := r.Get(model.MethodOnline)
		require.NoError(t, err)

		_, err = s.Settle(ctx, &model.Order{}, false)
		assert.ErrorIs(t, err, model.ErrPaymentNotConfirmed)

		status, err := s.Settle(ctx, &model.Order{}, true)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPaid, status)
	})

	t.Run("Unknown method", func(t *testing.T) {
		_, err := r.Get("bitcoin")
		assert.ErrorIs(t, err, model.ErrInvalidPaymentMethod)
	})
}
