package model

import (
	"errors"
	"fmt"
)

// MaxPerOrder 单个规格单次购买上限
const MaxPerOrder = 10

const (
	ReasonVariantNotFound    = "variant_not_found"
	ReasonVariantInactive    = "variant_inactive"
	ReasonOutOfStock         = "out_of_stock"
	ReasonInsufficientStock  = "insufficient_stock"
	ReasonExceedsMaxPerOrder = "exceeds_max_per_order"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInventoryRejected = errors.New("inventory check failed")
)

// Check 库存校验结果，只读，不做预占
type Check struct {
	VariantID      string `json:"variantId"`
	Requested      int    `json:"requested"`
	Available      bool   `json:"available"`
	Reason         string `json:"reason,omitempty"`
	Message        string `json:"message"`
	AvailableStock *int   `json:"availableStock,omitempty"` // 规格存在时才有值
}

// RejectionError 扣减库存被拒绝
type RejectionError struct {
	Check Check
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("variant %s: %s", e.Check.VariantID, e.Check.Message)
}

// Is 缺货类原因同时匹配 ErrInsufficientStock
func (e *RejectionError) Is(target error) bool {
	switch target {
	case ErrInventoryRejected:
		return true
	case ErrInsufficientStock:
		return e.Check.Reason == ReasonOutOfStock || e.Check.Reason == ReasonInsufficientStock
	default:
		return false
	}
}
