package service

import (
	"context"
	"fmt"

	"shop_engine/internal/domain/wallet/model"
	"shop_engine/internal/domain/wallet/repository"
	"shop_engine/pkg/database"
	"shop_engine/pkg/logger"
	"shop_engine/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WalletService interface {
	// Refund 退款入账，钱包不存在时自动创建。不做幂等去重，由调用方保证每笔退款只调用一次
	Refund(ctx context.Context, userID string, amount decimal.Decimal, orderID, description string, orderItemID *string) (*model.Transaction, error)
	Pay(ctx context.Context, userID string, amount decimal.Decimal, orderID string) (*model.Transaction, error)
	TopUp(ctx context.Context, userID string, amount decimal.Decimal, description string) (*model.Transaction, error)
	GetWallet(ctx context.Context, userID string) (*model.Wallet, error)
	ListTransactions(ctx context.Context, userID string, offset, limit int) ([]model.Transaction, int64, error)
}

type walletService struct {
	repo     repository.WalletRepository
	tx       database.Transactor
	metrics  *metrics.MetricsCollector
	currency string
}

func NewWalletService(repo repository.WalletRepository, tx database.Transactor, m *metrics.MetricsCollector, currency string) WalletService {
	if currency == "" {
		currency = "INR"
	}
	return &walletService{
		repo:     repo,
		tx:       tx,
		metrics:  m,
		currency: currency,
	}
}

func (s *walletService) Refund(ctx context.Context, userID string, amount decimal.Decimal, orderID, description string, orderItemID *string) (*model.Transaction, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	var record *model.Transaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. 获取或创建钱包
		wallet, err := s.repo.GetOrCreate(ctx, userID, s.currency)
		if err != nil {
			return fmt.Errorf("load wallet: %w", err)
		}

		// 2. 余额入账
		if err := s.repo.Credit(ctx, wallet.ID, amount); err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		// 3. 记录流水
		record = &model.Transaction{
			WalletID:    wallet.ID,
			Amount:      amount,
			Currency:    wallet.Currency,
			Type:        model.TxTypeRefund,
			Status:      model.TxStatusCompleted,
			OrderID:     optional(orderID),
			OrderItemID: orderItemID,
			Description: description,
		}
		return s.repo.CreateTransaction(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRefund(amount)
	logger.Log.Info("wallet refund",
		zap.String("user_id", userID),
		zap.String("order_id", orderID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return record, nil
}

func (s *walletService) Pay(ctx context.Context, userID string, amount decimal.Decimal, orderID string) (*model.Transaction, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	var record *model.Transaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		wallet, err := s.repo.GetOrCreate(ctx, userID, s.currency)
		if err != nil {
			return fmt.Errorf("load wallet: %w", err)
		}

		ok, err := s.repo.Debit(ctx, wallet.ID, amount)
		if err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}
		if !ok {
			return model.ErrInsufficientBalance
		}

		record = &model.Transaction{
			WalletID:    wallet.ID,
			Amount:      amount,
			Currency:    wallet.Currency,
			Type:        model.TxTypePayment,
			Status:      model.TxStatusCompleted,
			OrderID:     optional(orderID),
			Description: "Order payment",
		}
		return s.repo.CreateTransaction(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *walletService) TopUp(ctx context.Context, userID string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	var record *model.Transaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		wallet, err := s.repo.GetOrCreate(ctx, userID, s.currency)
		if err != nil {
			return fmt.Errorf("load wallet: %w", err)
		}
		if err := s.repo.Credit(ctx, wallet.ID, amount); err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		record = &model.Transaction{
			WalletID:    wallet.ID,
			Amount:      amount,
			Currency:    wallet.Currency,
			Type:        model.TxTypeTopUp,
			Status:      model.TxStatusCompleted,
			Description: description,
		}
		return s.repo.CreateTransaction(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("wallet top up", zap.String("user_id", userID), zap.String("amount", amount.StringFixed(2)))
	return record, nil
}

func (s *walletService) GetWallet(ctx context.Context, userID string) (*model.Wallet, error) {
	return s.repo.GetOrCreate(ctx, userID, s.currency)
}

func (s *walletService) ListTransactions(ctx context.Context, userID string, offset, limit int) ([]model.Transaction, int64, error) {
	wallet, err := s.repo.GetOrCreate(ctx, userID, s.currency)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListTransactions(ctx, wallet.ID, offset, limit)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
