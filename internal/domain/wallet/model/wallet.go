package model

import (
	"errors"

	baseModel "shop_engine/pkg/model"

	"github.com/shopspring/decimal"
)

const (
	TxTypePayment = "payment"
	TxTypeRefund  = "refund"
	TxTypeTopUp   = "topup"

	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusReversed  = "reversed"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

// Wallet 用户钱包，每个用户一个
type Wallet struct {
	baseModel.BaseModel
	UserID   string          `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Balance  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	Currency string          `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
}

// Transaction 钱包流水
type Transaction struct {
	baseModel.BaseModel
	WalletID    string          `gorm:"type:uuid;index;not null" json:"walletId"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency    string          `gorm:"type:varchar(3);not null" json:"currency"`
	Type        string          `gorm:"type:varchar(20);not null" json:"type"`
	Status      string          `gorm:"type:varchar(20);not null" json:"status"`
	OrderID     *string         `gorm:"type:uuid;index" json:"orderId,omitempty"`
	OrderItemID *string         `gorm:"type:uuid" json:"orderItemId,omitempty"`
	Description string          `gorm:"type:text" json:"description"`
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}
