package service

import (
	"context"
	"sync"

	cartService "shop_engine/internal/domain/cart/service"
	checkoutModel "shop_engine/internal/domain/checkout/model"
	checkoutService "shop_engine/internal/domain/checkout/service"
	inventoryModel "shop_engine/internal/domain/inventory/model"
	"shop_engine/internal/domain/order/model"
	"shop_engine/internal/domain/pricing"
	walletModel "shop_engine/internal/domain/wallet/model"
	"shop_engine/internal/pkg/events"
	"shop_engine/internal/pkg/push"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDForUser(ctx context.Context, id, userID string) (*model.Order, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) List(ctx context.Context, status string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) UpdateItem(ctx context.Context, item *model.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockOrderRepository) AddHistory(ctx context.Context, entries []model.OrderStatusHistory) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockOrderRepository) ListHistory(ctx context.Context, orderID string) ([]model.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]model.OrderStatusHistory), args.Error(1)
}

// MockCheckoutService is a mock of CheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) PriceCheckout(ctx context.Context, userID, addressID string, contact checkoutModel.Contact) (*checkoutModel.CheckoutSnapshot, error) {
	args := m.Called(ctx, userID, addressID, contact)
	return args.Get(0).(*checkoutModel.CheckoutSnapshot), args.Error(1)
}

func (m *MockCheckoutService) Preview(ctx context.Context, userID string, input checkoutService.PreviewInput) (*checkoutModel.CheckoutDraft, error) {
	args := m.Called(ctx, userID, input)
	return args.Get(0).(*checkoutModel.CheckoutDraft), args.Error(1)
}

func (m *MockCheckoutService) GetDraft(ctx context.Context, userID, draftID string) (*checkoutModel.CheckoutDraft, error) {
	args := m.Called(ctx, userID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutModel.CheckoutDraft), args.Error(1)
}

func (m *MockCheckoutService) DeleteDraft(ctx context.Context, draftID string) error {
	return m.Called(ctx, draftID).Error(0)
}

func (m *MockCheckoutService) Revalidate(ctx context.Context, draft *checkoutModel.CheckoutDraft) (*checkoutModel.CheckoutDraft, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutModel.CheckoutDraft), args.Error(1)
}

// MockCartService is a mock of CartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) (*cartService.PricedCart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*cartService.PricedCart), args.Error(1)
}

func (m *MockCartService) PriceCart(ctx context.Context, userID string) ([]pricing.PricedLine, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]pricing.PricedLine), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID string, input cartService.AddItemInput) (*cartService.PricedCart, error) {
	args := m.Called(ctx, userID, input)
	return args.Get(0).(*cartService.PricedCart), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, itemID string, qty int) (*cartService.PricedCart, error) {
	args := m.Called(ctx, userID, itemID, qty)
	return args.Get(0).(*cartService.PricedCart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID string) (*cartService.PricedCart, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Get(0).(*cartService.PricedCart), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// MockInventoryService is a mock of InventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) CheckInventory(ctx context.Context, variantID string, qty int) (*inventoryModel.Check, error) {
	args := m.Called(ctx, variantID, qty)
	return args.Get(0).(*inventoryModel.Check), args.Error(1)
}

func (m *MockInventoryService) Reserve(ctx context.Context, variantID string, qty int) error {
	return m.Called(ctx, variantID, qty).Error(0)
}

func (m *MockInventoryService) Restock(ctx context.Context, variantID string, qty int) error {
	return m.Called(ctx, variantID, qty).Error(0)
}

// MockWalletService is a mock of WalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) Refund(ctx context.Context, userID string, amount decimal.Decimal, orderID, description string, orderItemID *string) (*walletModel.Transaction, error) {
	args := m.Called(ctx, userID, amount, orderID, description, orderItemID)
	return args.Get(0).(*walletModel.Transaction), args.Error(1)
}

func (m *MockWalletService) Pay(ctx context.Context, userID string, amount decimal.Decimal, orderID string) (*walletModel.Transaction, error) {
	args := m.Called(ctx, userID, amount, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletModel.Transaction), args.Error(1)
}

func (m *MockWalletService) TopUp(ctx context.Context, userID string, amount decimal.Decimal, description string) (*walletModel.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	return args.Get(0).(*walletModel.Transaction), args.Error(1)
}

func (m *MockWalletService) GetWallet(ctx context.Context, userID string) (*walletModel.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*walletModel.Wallet), args.Error(1)
}

func (m *MockWalletService) ListTransactions(ctx context.Context, userID string, offset, limit int) ([]walletModel.Transaction, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	return args.Get(0).([]walletModel.Transaction), args.Get(1).(int64), args.Error(2)
}

// recordingPublisher 记录投递的事件
type recordingPublisher struct {
	mu      sync.Mutex
	events  []events.OrderEvent
	batches int
}

func (p *recordingPublisher) Publish(ctx context.Context, evs ...events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	p.batches++
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingNotifier struct {
	sent []push.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification push.Notification) {
	n.sent = append(n.sent, notification)
}
