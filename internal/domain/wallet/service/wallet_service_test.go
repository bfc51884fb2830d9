package service

import (
	"context"
	"testing"

	"shop_engine/internal/domain/wallet/model"
	baseModel "shop_engine/pkg/model"
	"shop_engine/pkg/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWalletRepository is a mock of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*model.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, userID, currency string) (*model.Wallet, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Credit(ctx context.Context, walletID string, amount decimal.Decimal) error {
	args := m.Called(ctx, walletID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) Debit(ctx context.Context, walletID string, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, walletID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockWalletRepository) ListTransactions(ctx context.Context, walletID string, offset, limit int) ([]model.Transaction, int64, error) {
	args := m.Called(ctx, walletID, offset, limit)
	return args.Get(0).([]model.Transaction), args.Get(1).(int64), args.Error(2)
}

// decEq 按数值比较金额，忽略小数位表示差异
func decEq(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(got decimal.Decimal) bool { return got.Equal(want) })
}

func createTestWallet() *model.Wallet {
	return &model.Wallet{
		BaseModel: baseModel.BaseModel{ID: "w-1"},
		UserID:    "u-1",
		Balance:   decimal.Zero,
		Currency:  "INR",
	}
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("Refund creates the wallet and records a completed transaction", func(t *testing.T) {
		repo := new(MockWalletRepository)
		tx := &testutil.InlineTransactor{}
		svc := NewWalletService(repo, tx, nil, "INR")
		amount := decimal.NewFromInt(500)
		itemID := "item-1"

		repo.On("GetOrCreate", ctx, "u-1", "INR").Return(createTestWallet(), nil)
		repo.On("Credit", ctx, "w-1", decEq(amount)).Return(nil)
		repo.On("CreateTransaction", ctx, mock.MatchedBy(func(t *model.Transaction) bool {
			return t.Type == model.TxTypeRefund &&
				t.Status == model.TxStatusCompleted &&
				t.Amount.Equal(amount) &&
				*t.OrderID == "o-1" &&
				*t.OrderItemID == "item-1"
		})).Return(nil)

		record, err := svc.Refund(ctx, "u-1", amount, "o-1", "Item cancelled", &itemID)

		require.NoError(t, err)
		assert.Equal(t, "INR", record.Currency)
		assert.Equal(t, 1, tx.Calls)
		repo.AssertExpectations(t)
	})

	t.Run("Zero amount is rejected", func(t *testing.T) {
		svc := NewWalletService(new(MockWalletRepository), &testutil.InlineTransactor{}, nil, "INR")
		_, err := svc.Refund(ctx, "u-1", decimal.Zero, "o-1", "", nil)
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	})
}

func TestPay(t *testing.T) {
	ctx := context.Background()

	t.Run("Insufficient balance leaves no transaction", func(t *testing.T) {
		repo := new(MockWalletRepository)
		svc := NewWalletService(repo, &testutil.InlineTransactor{}, nil, "INR")
		amount := decimal.NewFromInt(900)

		repo.On("GetOrCreate", ctx, "u-1", "INR").Return(createTestWallet(), nil)
		repo.On("Debit", ctx, "w-1", decEq(amount)).Return(false, nil)

		_, err := svc.Pay(ctx, "u-1", amount, "o-1")

		assert.ErrorIs(t, err, model.ErrInsufficientBalance)
		repo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("Successful payment records a payment transaction", func(t *testing.T) {
		repo := new(MockWalletRepository)
		svc := NewWalletService(repo, &testutil.InlineTransactor{}, nil, "INR")
		amount := decimal.NewFromInt(300)

		repo.On("GetOrCreate", ctx, "u-1", "INR").Return(createTestWallet(), nil)
		repo.On("Debit", ctx, "w-1", decEq(amount)).Return(true, nil)
		repo.On("CreateTransaction", ctx, mock.AnythingOfType("*model.Transaction")).Return(nil)

		record, err := svc.Pay(ctx, "u-1", amount, "o-1")

		require.NoError(t, err)
		assert.Equal(t, model.TxTypePayment, record.Type)
	})
}
