package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shop_engine/internal/domain/catalog/model"
	"shop_engine/internal/domain/catalog/repository"
	offerModel "shop_engine/internal/domain/offer/model"
	baseModel "shop_engine/pkg/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogRepository is a mock of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListSellable(ctx context.Context, filter repository.ProductFilter, offset, limit int) ([]model.Product, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	return args.Get(0).([]model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockOfferSource is a mock of pricing.OfferSource
type MockOfferSource struct {
	mock.Mock
}

func (m *MockOfferSource) ActiveOffers(ctx context.Context) ([]offerModel.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]offerModel.Offer), args.Error(1)
}

func createTestProduct(active bool) *model.Product {
	return &model.Product{
		BaseModel:  baseModel.BaseModel{ID: "p-1"},
		Name:       "Cotton Kurta",
		CategoryID: "c-1",
		Category:   &model.Category{BaseModel: baseModel.BaseModel{ID: "c-1"}, Name: "Ethnic", IsActive: true},
		IsActive:   active,
		Variants: []model.Variant{
			{BaseModel: baseModel.BaseModel{ID: "v-1"}, ProductID: "p-1", Color: "red", Price: decimal.NewFromInt(1000), Stock: 5, IsActive: true},
			{BaseModel: baseModel.BaseModel{ID: "v-2"}, ProductID: "p-1", Color: "blue", Price: decimal.NewFromInt(1200), Stock: 5, IsActive: false},
		},
	}
}

func categoryOffer() offerModel.Offer {
	return offerModel.Offer{
		BaseModel:     baseModel.BaseModel{ID: "o-1"},
		Name:          "Ethnic week",
		Type:          offerModel.TypePercentage,
		DiscountValue: decimal.NewFromInt(20),
		TargetingType: offerModel.TargetCategories,
		CategoryIDs:   pq.StringArray{"c-1"},
		Status:        offerModel.StatusActive,
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(time.Hour),
	}
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Active variants are priced with the best offer", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		offers := new(MockOfferSource)
		svc := NewCatalogService(repo, offers, nil)
		repo.On("GetProduct", ctx, "p-1").Return(createTestProduct(true), nil)
		offers.On("ActiveOffers", ctx).Return([]offerModel.Offer{categoryOffer()}, nil)

		p, err := svc.GetProduct(ctx, "p-1")

		require.NoError(t, err)
		require.Len(t, p.Variants, 1)
		assert.True(t, p.Variants[0].HasOffer)
		assert.True(t, p.Variants[0].FinalPrice.Equal(decimal.NewFromInt(800)))
		assert.Equal(t, "Ethnic", p.CategoryName)
	})

	t.Run("Offer lookup failure prices at list price", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		offers := new(MockOfferSource)
		svc := NewCatalogService(repo, offers, nil)
		repo.On("GetProduct", ctx, "p-1").Return(createTestProduct(true), nil)
		offers.On("ActiveOffers", ctx).Return(nil, errors.New("timeout"))

		p, err := svc.GetProduct(ctx, "p-1")

		require.NoError(t, err)
		assert.False(t, p.Variants[0].HasOffer)
		assert.True(t, p.Variants[0].FinalPrice.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("Inactive product is not found", func(t *testing.T) {
		repo := new(MockCatalogRepository)
		svc := NewCatalogService(repo, new(MockOfferSource), nil)
		repo.On("GetProduct", ctx, "p-1").Return(createTestProduct(false), nil)

		_, err := svc.GetProduct(ctx, "p-1")

		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCatalogRepository)
	offers := new(MockOfferSource)
	svc := NewCatalogService(repo, offers, nil)

	filter := repository.ProductFilter{Search: "kurta"}
	product := createTestProduct(true)
	product.Variants = product.Variants[:1]
	repo.On("ListSellable", ctx, filter, 0, 10).Return([]model.Product{*product}, int64(1), nil)
	offers.On("ActiveOffers", ctx).Return([]offerModel.Offer{categoryOffer()}, nil)

	list, total, err := svc.ListProducts(ctx, filter, 0, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.True(t, list[0].Variants[0].FinalPrice.Equal(decimal.NewFromInt(800)))
	offers.AssertNumberOfCalls(t, "ActiveOffers", 1)
}
