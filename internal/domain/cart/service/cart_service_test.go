package service

import (
	"context"
	"testing"
	"time"

	"shop_engine/internal/domain/cart/model"
	catalogModel "shop_engine/internal/domain/catalog/model"
	catalogRepo "shop_engine/internal/domain/catalog/repository"
	inventoryModel "shop_engine/internal/domain/inventory/model"
	offerModel "shop_engine/internal/domain/offer/model"
	baseModel "shop_engine/pkg/model"
	"shop_engine/pkg/testutil"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartRepository is a mock of CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) CreateItem(ctx context.Context, item *model.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, itemID string, qty int) error {
	return m.Called(ctx, itemID, qty).Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, cartID, itemID string) error {
	return m.Called(ctx, cartID, itemID).Error(0)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, cartID string) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *MockCartRepository) BumpVersion(ctx context.Context, cartID string) error {
	return m.Called(ctx, cartID).Error(0)
}

// MockCatalogRepository is a mock of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListSellable(ctx context.Context, filter catalogRepo.ProductFilter, offset, limit int) ([]catalogModel.Product, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	return args.Get(0).([]catalogModel.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) GetProduct(ctx context.Context, id string) (*catalogModel.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]catalogModel.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalogModel.Product), args.Error(1)
}

// MockInventoryService is a mock of InventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) CheckInventory(ctx context.Context, variantID string, qty int) (*inventoryModel.Check, error) {
	args := m.Called(ctx, variantID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryModel.Check), args.Error(1)
}

func (m *MockInventoryService) Reserve(ctx context.Context, variantID string, qty int) error {
	return m.Called(ctx, variantID, qty).Error(0)
}

func (m *MockInventoryService) Restock(ctx context.Context, variantID string, qty int) error {
	return m.Called(ctx, variantID, qty).Error(0)
}

type staticOffers []offerModel.Offer

func (s staticOffers) ActiveOffers(ctx context.Context) ([]offerModel.Offer, error) {
	return s, nil
}

func variant(id string, price int64, stock int, active bool) catalogModel.Variant {
	return catalogModel.Variant{
		BaseModel: baseModel.BaseModel{ID: id},
		ProductID: "p-1",
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		IsActive:  active,
	}
}

func catalogProducts() []catalogModel.Product {
	active := &catalogModel.Category{BaseModel: baseModel.BaseModel{ID: "c-1"}, Name: "Shirts", IsActive: true}
	hidden := &catalogModel.Category{BaseModel: baseModel.BaseModel{ID: "c-2"}, Name: "Archive", IsActive: false}
	return []catalogModel.Product{
		{
			BaseModel:  baseModel.BaseModel{ID: "p-1"},
			Name:       "Oxford Shirt",
			CategoryID: "c-1",
			Category:   active,
			IsActive:   true,
			Variants: []catalogModel.Variant{
				variant("v-ok", 1000, 5, true),
				variant("v-inactive", 1000, 5, false),
				variant("v-empty", 1000, 0, true),
			},
		},
		{
			BaseModel:  baseModel.BaseModel{ID: "p-2"},
			Name:       "Old Shirt",
			CategoryID: "c-2",
			Category:   hidden,
			IsActive:   true,
			Variants:   []catalogModel.Variant{variant("v-hidden", 500, 5, true)},
		},
	}
}

func cartWith(items ...model.CartItem) *model.Cart {
	return &model.Cart{BaseModel: baseModel.BaseModel{ID: "cart-1"}, UserID: "u-1", Version: 3, Items: items}
}

func item(id, productID, variantID string, qty int) model.CartItem {
	return model.CartItem{BaseModel: baseModel.BaseModel{ID: id}, CartID: "cart-1", ProductID: productID, VariantID: variantID, Quantity: qty}
}

func categoryOffer() offerModel.Offer {
	return offerModel.Offer{
		BaseModel:     baseModel.BaseModel{ID: "o-1"},
		Type:          offerModel.TypePercentage,
		DiscountValue: decimal.NewFromInt(20),
		TargetingType: offerModel.TargetCategories,
		CategoryIDs:   pq.StringArray{"c-1"},
		Status:        offerModel.StatusActive,
		StartDate:     time.Now().Add(-time.Hour),
		EndDate:       time.Now().Add(time.Hour),
	}
}

func TestPriceCart(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCartRepository)
	catalog := new(MockCatalogRepository)
	svc := NewCartService(repo, catalog, new(MockInventoryService), staticOffers{categoryOffer()}, &testutil.InlineTransactor{}, nil)

	repo.On("GetByUserID", ctx, "u-1").Return(cartWith(
		item("i-1", "p-1", "v-ok", 2),
		item("i-2", "p-1", "v-inactive", 1),
		item("i-3", "p-1", "v-empty", 1),
		item("i-4", "p-2", "v-hidden", 1),
		item("i-5", "p-9", "v-gone", 1),
	), nil)
	catalog.On("GetProductsByIDs", ctx, mock.Anything).Return(catalogProducts(), nil)

	cart, err := svc.GetCart(ctx, "u-1")

	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "v-ok", cart.Lines[0].Variant.ID)
	assert.True(t, cart.Lines[0].FinalPrice.Equal(decimal.NewFromInt(800)))
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(1600)))
	assert.Equal(t, 3, cart.Version)
}

func TestPriceCartWithoutCart(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCartRepository)
	svc := NewCartService(repo, new(MockCatalogRepository), new(MockInventoryService), staticOffers{}, &testutil.InlineTransactor{}, nil)
	repo.On("GetByUserID", ctx, "u-1").Return(nil, nil)

	lines, err := svc.PriceCart(ctx, "u-1")

	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Adding an existing variant merges quantity", func(t *testing.T) {
		repo := new(MockCartRepository)
		catalog := new(MockCatalogRepository)
		inventory := new(MockInventoryService)
		svc := NewCartService(repo, catalog, inventory, staticOffers{}, &testutil.InlineTransactor{}, nil)

		cart := cartWith(item("i-1", "p-1", "v-ok", 2))
		catalog.On("GetProductsByIDs", ctx, mock.Anything).Return(catalogProducts(), nil)
		repo.On("GetOrCreate", ctx, "u-1").Return(cart, nil)
		inventory.On("CheckInventory", ctx, "v-ok", 5).Return(&inventoryModel.Check{Available: true}, nil)
		repo.On("UpdateItemQuantity", ctx, "i-1", 5).Return(nil)
		repo.On("BumpVersion", ctx, "cart-1").Return(nil)
		repo.On("GetByUserID", ctx, "u-1").Return(cartWith(item("i-1", "p-1", "v-ok", 5)), nil)

		priced, err := svc.AddItem(ctx, "u-1", AddItemInput{ProductID: "p-1", VariantID: "v-ok", Quantity: 3})

		require.NoError(t, err)
		require.Len(t, priced.Lines, 1)
		assert.Equal(t, 5, priced.Lines[0].Quantity)
		repo.AssertExpectations(t)
	})

	t.Run("Quantity beyond stock is rejected with the check", func(t *testing.T) {
		repo := new(MockCartRepository)
		catalog := new(MockCatalogRepository)
		inventory := new(MockInventoryService)
		svc := NewCartService(repo, catalog, inventory, staticOffers{}, &testutil.InlineTransactor{}, nil)

		stock := 5
		catalog.On("GetProductsByIDs", ctx, mock.Anything).Return(catalogProducts(), nil)
		repo.On("GetOrCreate", ctx, "u-1").Return(cartWith(), nil)
		inventory.On("CheckInventory", ctx, "v-ok", 7).Return(&inventoryModel.Check{
			Reason:         inventoryModel.ReasonInsufficientStock,
			AvailableStock: &stock,
		}, nil)

		_, err := svc.AddItem(ctx, "u-1", AddItemInput{ProductID: "p-1", VariantID: "v-ok", Quantity: 7})

		assert.ErrorIs(t, err, inventoryModel.ErrInsufficientStock)
		repo.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "BumpVersion", mock.Anything, mock.Anything)
	})

	t.Run("Variant from another product is rejected", func(t *testing.T) {
		catalog := new(MockCatalogRepository)
		svc := NewCartService(new(MockCartRepository), catalog, new(MockInventoryService), staticOffers{}, &testutil.InlineTransactor{}, nil)
		catalog.On("GetProductsByIDs", ctx, []string{"p-1"}).Return(catalogProducts()[:1], nil)

		_, err := svc.AddItem(ctx, "u-1", AddItemInput{ProductID: "p-1", VariantID: "v-hidden", Quantity: 1})

		assert.ErrorIs(t, err, catalogModel.ErrVariantNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCartRepository)
	svc := NewCartService(repo, new(MockCatalogRepository), new(MockInventoryService), staticOffers{}, &testutil.InlineTransactor{}, nil)

	repo.On("GetByUserID", ctx, "u-1").Return(cartWith(), nil)
	repo.On("DeleteItem", ctx, "cart-1", "i-9").Return(model.ErrCartItemNotFound)

	_, err := svc.RemoveItem(ctx, "u-1", "i-9")

	assert.ErrorIs(t, err, model.ErrCartItemNotFound)
}
