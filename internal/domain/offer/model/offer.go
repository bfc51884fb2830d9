package model

import (
	"errors"
	"time"

	baseModel "shop_engine/pkg/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TypePercentage   = "percentage"
	TypeFixed        = "fixed"
	TypeBuyOneGetOne = "buyonegetone"
	TypeFreeShipping = "free_shipping"

	TargetAll        = "all"
	TargetProducts   = "products"
	TargetCategories = "categories"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrOfferNotFound      = errors.New("offer not found")
	ErrInvalidOfferType   = errors.New("offer type must be percentage or fixed")
	ErrInvalidOfferValue  = errors.New("discount value must be greater than zero")
	ErrPercentageTooLarge = errors.New("percentage discount cannot exceed 100")
	ErrInvalidTargeting   = errors.New("invalid targeting type")
	ErrTargetProducts     = errors.New("products targeting requires product ids and no category ids")
	ErrTargetCategories   = errors.New("categories targeting requires category ids and no product ids")
	ErrTargetAll          = errors.New("all targeting cannot carry product or category ids")
	ErrInvalidOfferWindow = errors.New("start date must be before end date")
	ErrInvalidOfferStatus = errors.New("status must be active or inactive")
)

// Offer 促销活动，只会被停用，不会物理删除
type Offer struct {
	baseModel.BaseModel
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Type          string          `gorm:"type:varchar(20);not null" json:"type"`
	DiscountValue decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discountValue"`
	TargetingType string          `gorm:"type:varchar(20);not null;default:'all'" json:"targetingType"`
	ProductIDs    pq.StringArray  `gorm:"type:text[]" json:"productIds"`
	CategoryIDs   pq.StringArray  `gorm:"type:text[]" json:"categoryIds"`
	Status        string          `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	StartDate     time.Time       `gorm:"not null" json:"startDate"`
	EndDate       time.Time       `gorm:"not null" json:"endDate"`
}

// Validate 写入前校验
func (o *Offer) Validate() error {
	switch o.Type {
	case TypePercentage, TypeFixed:
	default:
		return ErrInvalidOfferType
	}
	if !o.DiscountValue.IsPositive() {
		return ErrInvalidOfferValue
	}
	if o.Type == TypePercentage && o.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return ErrPercentageTooLarge
	}

	switch o.TargetingType {
	case TargetAll:
		if len(o.ProductIDs) > 0 || len(o.CategoryIDs) > 0 {
			return ErrTargetAll
		}
	case TargetProducts:
		if len(o.ProductIDs) == 0 || len(o.CategoryIDs) > 0 {
			return ErrTargetProducts
		}
	case TargetCategories:
		if len(o.CategoryIDs) == 0 || len(o.ProductIDs) > 0 {
			return ErrTargetCategories
		}
	default:
		return ErrInvalidTargeting
	}

	if o.Status != StatusActive && o.Status != StatusInactive {
		return ErrInvalidOfferStatus
	}
	if !o.StartDate.Before(o.EndDate) {
		return ErrInvalidOfferWindow
	}
	return nil
}

// TargetsProduct 是否按商品命中
func (o *Offer) TargetsProduct(productID string) bool {
	return o.TargetingType == TargetProducts && contains(o.ProductIDs, productID)
}

// TargetsCategory 是否按分类命中
func (o *Offer) TargetsCategory(categoryID string) bool {
	return o.TargetingType == TargetCategories && contains(o.CategoryIDs, categoryID)
}

// IsGlobal 全场活动
func (o *Offer) IsGlobal() bool {
	return o.TargetingType == TargetAll
}

func contains(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
