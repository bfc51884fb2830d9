package model

import (
	"errors"
	"strings"
	"time"

	baseModel "shop_engine/pkg/model"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// 拒绝原因，优惠券不可用时作为结果返回而不是错误
const (
	ReasonNotFound      = "coupon_not_found"
	ReasonInactive      = "coupon_inactive"
	ReasonNotStarted    = "coupon_not_started"
	ReasonExpired       = "coupon_expired"
	ReasonMinAmount     = "min_amount_not_met"
	ReasonUsageExceeded = "usage_limit_reached"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponCodeExists    = errors.New("coupon code already exists")
	ErrInvalidCode         = errors.New("coupon code is required")
	ErrInvalidDiscountType = errors.New("discount type must be percentage or fixed")
	ErrInvalidDiscount     = errors.New("discount amount must be greater than zero")
	ErrPercentageTooLarge  = errors.New("percentage discount cannot exceed 100")
	ErrInvalidMinAmount    = errors.New("min amount cannot be negative")
	ErrMaxAmountOnFixed    = errors.New("max amount only applies to percentage coupons")
	ErrInvalidMaxAmount    = errors.New("max amount must be greater than zero")
	ErrInvalidPerUserLimit = errors.New("per user limit must be at least 1")
	ErrInvalidCouponWindow = errors.New("start date cannot be after end date")
)

// Coupon 优惠码
type Coupon struct {
	baseModel.BaseModel
	Code           string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Description    string              `gorm:"type:text" json:"description"`
	DiscountType   string              `gorm:"type:varchar(20);not null" json:"discountType"`
	DiscountAmount decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"discountAmount"`
	MinAmount      decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"minAmount"`
	MaxAmount      decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"maxAmount"` // 仅百分比券有效
	PerUserLimit   int                 `gorm:"not null;default:1" json:"perUserLimit"`
	IsActive       bool                `gorm:"not null;default:true" json:"isActive"`
	StartDate      time.Time           `gorm:"not null" json:"startDate"`
	EndDate        time.Time           `gorm:"not null" json:"endDate"`
}

// NormalizeCode 去空格并转大写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate 写入前校验
func (c *Coupon) Validate() error {
	if c.Code == "" {
		return ErrInvalidCode
	}
	switch c.DiscountType {
	case DiscountPercentage, DiscountFixed:
	default:
		return ErrInvalidDiscountType
	}
	if !c.DiscountAmount.IsPositive() {
		return ErrInvalidDiscount
	}
	if c.DiscountType == DiscountPercentage && c.DiscountAmount.GreaterThan(decimal.NewFromInt(100)) {
		return ErrPercentageTooLarge
	}
	if c.MinAmount.IsNegative() {
		return ErrInvalidMinAmount
	}
	if c.MaxAmount.Valid {
		if c.DiscountType == DiscountFixed {
			return ErrMaxAmountOnFixed
		}
		if !c.MaxAmount.Decimal.IsPositive() {
			return ErrInvalidMaxAmount
		}
	}
	if c.PerUserLimit < 1 {
		return ErrInvalidPerUserLimit
	}
	if c.StartDate.After(c.EndDate) {
		return ErrInvalidCouponWindow
	}
	return nil
}

// CouponSnapshot 订单上保存的优惠券快照
type CouponSnapshot struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	DiscountType   string          `json:"discountType"`
	DiscountAmount decimal.Decimal `json:"discountAmount"` // 本单实际减免
}

// CouponApplication 优惠券试算结果，Applied 为 false 时 Reason 说明原因
type CouponApplication struct {
	Applied  bool            `json:"applied"`
	Reason   string          `json:"reason,omitempty"`
	Message  string          `json:"message"`
	Coupon   *CouponSnapshot `json:"coupon,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// EligibleCoupon 结算页可选优惠券及预计减免
type EligibleCoupon struct {
	Coupon   Coupon          `json:"coupon"`
	Discount decimal.Decimal `json:"discount"`
}
