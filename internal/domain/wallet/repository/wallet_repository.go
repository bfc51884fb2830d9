package repository

import (
	"context"
	"errors"

	"shop_engine/internal/domain/wallet/model"
	"shop_engine/pkg/database"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Wallet, error)
	// GetOrCreate 并发创建时依赖 user_id 唯一索引，冲突后重新读取
	GetOrCreate(ctx context.Context, userID, currency string) (*model.Wallet, error)
	Credit(ctx context.Context, walletID string, amount decimal.Decimal) error
	// Debit 余额不足时返回 false
	Debit(ctx context.Context, walletID string, amount decimal.Decimal) (bool, error)
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	ListTransactions(ctx context.Context, walletID string, offset, limit int) ([]model.Transaction, int64, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID string) (*model.Wallet, error) {
	var wallet model.Wallet
	if err := database.Conn(ctx, r.db).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetOrCreate(ctx context.Context, userID, currency string) (*model.Wallet, error) {
	wallet, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, model.ErrWalletNotFound) {
		return nil, err
	}

	wallet = &model.Wallet{UserID: userID, Balance: decimal.Zero, Currency: currency}
	if err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(wallet).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *walletRepository) Credit(ctx context.Context, walletID string, amount decimal.Decimal) error {
	result := database.Conn(ctx, r.db).Model(&model.Wallet{}).
		Where("id = ?", walletID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) Debit(ctx context.Context, walletID string, amount decimal.Decimal) (bool, error) {
	result := database.Conn(ctx, r.db).Model(&model.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	return database.Conn(ctx, r.db).Create(tx).Error
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID string, offset, limit int) ([]model.Transaction, int64, error) {
	var txs []model.Transaction
	var total int64

	query := database.Conn(ctx, r.db).Model(&model.Transaction{}).Where("wallet_id = ?", walletID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, total, err
}
