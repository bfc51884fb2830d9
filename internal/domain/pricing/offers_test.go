package pricing

import (
	"context"
	"errors"
	"testing"

	offerModel "shop_engine/internal/domain/offer/model"

	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	offers []offerModel.Offer
	err    error
}

func (s stubSource) ActiveOffers(ctx context.Context) ([]offerModel.Offer, error) {
	return s.offers, s.err
}

func TestLoadOffers(t *testing.T) {
	ctx := context.Background()

	t.Run("Lookup failure degrades to no offers", func(t *testing.T) {
		got := LoadOffers(ctx, stubSource{err: errors.New("db down")}, nil)
		assert.Nil(t, got)
	})

	t.Run("Offers are passed through", func(t *testing.T) {
		offers := []offerModel.Offer{newOffer("o-1", offerModel.TypeFixed, "10", offerModel.TargetAll, nil, nil)}
		got := LoadOffers(ctx, stubSource{offers: offers}, nil)
		assert.Len(t, got, 1)
	})
}
