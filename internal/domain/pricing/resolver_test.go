package pricing

import (
	"testing"
	"time"

	catalogModel "shop_engine/internal/domain/catalog/model"
	offerModel "shop_engine/internal/domain/offer/model"
	baseModel "shop_engine/pkg/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newVariant(price string) catalogModel.Variant {
	return catalogModel.Variant{
		BaseModel: baseModel.BaseModel{ID: "v-1"},
		ProductID: "p-1",
		Price:     dec(price),
		Stock:     10,
		IsActive:  true,
	}
}

func newOffer(id, kind, value, targeting string, productIDs, categoryIDs []string) offerModel.Offer {
	return offerModel.Offer{
		BaseModel:     baseModel.BaseModel{ID: id},
		Name:          id,
		Type:          kind,
		DiscountValue: dec(value),
		TargetingType: targeting,
		ProductIDs:    pq.StringArray(productIDs),
		CategoryIDs:   pq.StringArray(categoryIDs),
		Status:        offerModel.StatusActive,
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(time.Hour),
	}
}

func TestResolveOffer(t *testing.T) {
	t.Run("Category offer beats a larger global offer", func(t *testing.T) {
		offers := []offerModel.Offer{
			newOffer("o-category", offerModel.TypePercentage, "20", offerModel.TargetCategories, nil, []string{"c-1"}),
			newOffer("o-global", offerModel.TypePercentage, "30", offerModel.TargetAll, nil, nil),
		}

		res := ResolveOffer(newVariant("1000"), "p-1", "c-1", offers)

		require.True(t, res.HasOffer())
		assert.Equal(t, "o-category", res.Offer.ID)
		assert.True(t, res.Final.Equal(dec("800")))
		assert.True(t, res.Discount.Equal(dec("200")))
	})

	t.Run("Global offer applies when nothing specific matches", func(t *testing.T) {
		offers := []offerModel.Offer{
			newOffer("o-other", offerModel.TypePercentage, "50", offerModel.TargetProducts, []string{"p-9"}, nil),
			newOffer("o-global", offerModel.TypePercentage, "30", offerModel.TargetAll, nil, nil),
		}

		res := ResolveOffer(newVariant("1000"), "p-1", "c-1", offers)

		require.True(t, res.HasOffer())
		assert.Equal(t, "o-global", res.Offer.ID)
		assert.True(t, res.Final.Equal(dec("700")))
	})

	t.Run("Fixed discount larger than price clamps to zero", func(t *testing.T) {
		offers := []offerModel.Offer{
			newOffer("o-fixed", offerModel.TypeFixed, "1500", offerModel.TargetProducts, []string{"p-1"}, nil),
		}

		res := ResolveOffer(newVariant("1000"), "p-1", "c-1", offers)

		assert.True(t, res.Discount.Equal(dec("1000")))
		assert.True(t, res.Final.IsZero())
	})

	t.Run("Fixed and percentage compared by percent of price", func(t *testing.T) {
		offers := []offerModel.Offer{
			newOffer("o-pct", offerModel.TypePercentage, "10", offerModel.TargetProducts, []string{"p-1"}, nil),
			newOffer("o-fixed", offerModel.TypeFixed, "150", offerModel.TargetCategories, nil, []string{"c-1"}),
		}

		res := ResolveOffer(newVariant("1000"), "p-1", "c-1", offers)

		assert.Equal(t, "o-fixed", res.Offer.ID)
		assert.True(t, res.Final.Equal(dec("850")))
	})

	t.Run("Percentage amount rounds to two decimals", func(t *testing.T) {
		offers := []offerModel.Offer{
			newOffer("o-pct", offerModel.TypePercentage, "33", offerModel.TargetAll, nil, nil),
		}

		res := ResolveOffer(newVariant("99.99"), "p-1", "c-1", offers)

		assert.Equal(t, "33", res.Discount.String())
		assert.Equal(t, "66.99", res.Final.String())
	})

	t.Run("Zero price never gets an offer", func(t *testing.T) {
		offers := []offerModel.Offer{
			newOffer("o-global", offerModel.TypePercentage, "30", offerModel.TargetAll, nil, nil),
		}

		res := ResolveOffer(newVariant("0"), "p-1", "c-1", offers)

		assert.False(t, res.HasOffer())
		assert.True(t, res.Final.IsZero())
		assert.True(t, res.Discount.IsZero())
	})

	t.Run("Unsupported offer types are ignored", func(t *testing.T) {
		offers := []offerModel.Offer{
			newOffer("o-bogo", offerModel.TypeBuyOneGetOne, "100", offerModel.TargetProducts, []string{"p-1"}, nil),
			newOffer("o-global", offerModel.TypePercentage, "5", offerModel.TargetAll, nil, nil),
		}

		res := ResolveOffer(newVariant("200"), "p-1", "c-1", offers)

		assert.Equal(t, "o-global", res.Offer.ID)
		assert.True(t, res.Final.Equal(dec("190")))
	})

	t.Run("Equal offers resolve to the lowest id regardless of order", func(t *testing.T) {
		a := newOffer("o-b", offerModel.TypePercentage, "10", offerModel.TargetAll, nil, nil)
		b := newOffer("o-a", offerModel.TypeFixed, "100", offerModel.TargetAll, nil, nil)

		first := ResolveOffer(newVariant("1000"), "p-1", "c-1", []offerModel.Offer{a, b})
		second := ResolveOffer(newVariant("1000"), "p-1", "c-1", []offerModel.Offer{b, a})

		assert.Equal(t, "o-a", first.Offer.ID)
		assert.Equal(t, first.Offer.ID, second.Offer.ID)
		assert.True(t, first.Final.Equal(second.Final))
	})

	t.Run("Repeated calls give the same result", func(t *testing.T) {
		offers := []offerModel.Offer{
			newOffer("o-category", offerModel.TypePercentage, "20", offerModel.TargetCategories, nil, []string{"c-1"}),
		}
		v := newVariant("1000")

		assert.Equal(t, ResolveOffer(v, "p-1", "c-1", offers), ResolveOffer(v, "p-1", "c-1", offers))
	})
}

func TestPriceLine(t *testing.T) {
	product := catalogModel.Product{
		BaseModel:  baseModel.BaseModel{ID: "p-1"},
		Name:       "Linen Shirt",
		CategoryID: "c-1",
		IsActive:   true,
	}
	offers := []offerModel.Offer{
		newOffer("o-category", offerModel.TypePercentage, "20", offerModel.TargetCategories, nil, []string{"c-1"}),
	}

	line := PriceLine(product, newVariant("1000"), 3, offers)

	assert.True(t, line.HasOffer)
	require.NotNil(t, line.OfferInfo)
	assert.True(t, line.OfferInfo.DiscountAmount.Equal(dec("200")))
	assert.True(t, line.LineTotal.Equal(dec("2400")))
	assert.True(t, Subtotal([]PricedLine{line, line}).Equal(dec("4800")))
}
