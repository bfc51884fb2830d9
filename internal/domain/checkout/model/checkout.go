package model

import (
	"errors"
	"time"

	addressModel "shop_engine/internal/domain/address/model"
	couponModel "shop_engine/internal/domain/coupon/model"
	"shop_engine/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart      = errors.New("cart has no purchasable items")
	ErrDraftNotFound  = errors.New("checkout draft not found or expired")
	ErrDraftStale     = errors.New("cart or prices changed since the checkout preview")
	ErrCouponRejected = errors.New("coupon no longer applies")
)

// Contact 下单联系人
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// AddressSnapshot 下单时复制的收货地址，之后地址变更不影响订单
type AddressSnapshot struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func NewAddressSnapshot(a *addressModel.Address) AddressSnapshot {
	return AddressSnapshot{
		Name:       a.Name,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// CheckoutSnapshot 结算定价结果，不含优惠券
type CheckoutSnapshot struct {
	CartVersion int                  `json:"cartVersion"`
	AddressID   string               `json:"addressId"`
	Items       []pricing.PricedLine `json:"items"`
	Address     AddressSnapshot      `json:"address"`
	Contact     Contact              `json:"contact"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
}

// CheckoutDraft 结算预览草稿，保存在缓存中，过期后不能再下单
type CheckoutDraft struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	CheckoutSnapshot
	CouponCode      string                         `json:"couponCode,omitempty"`
	CouponResult    *couponModel.CouponApplication `json:"couponResult,omitempty"`
	Coupon          *couponModel.CouponSnapshot    `json:"coupon,omitempty"`
	Discount        decimal.Decimal                `json:"discount"`
	Tax             decimal.Decimal                `json:"tax"`
	Total           decimal.Decimal                `json:"total"`
	EligibleCoupons []couponModel.EligibleCoupon   `json:"eligibleCoupons"`
	CreatedAt       time.Time                      `json:"createdAt"`
	ExpiresAt       time.Time                      `json:"expiresAt"`
}

// ApplyTotals 写入优惠券试算结果，未使用优惠券时 app 为 nil
func (d *CheckoutDraft) ApplyTotals(app *couponModel.CouponApplication) {
	d.CouponResult = app
	d.Coupon = nil
	d.Discount = decimal.Zero
	d.Tax = decimal.Zero
	d.Total = d.Subtotal
	if app != nil && app.Applied {
		d.Coupon = app.Coupon
		d.Discount = app.Discount
		d.Tax = app.Tax
		d.Total = app.Total
	}
}

// DraftKey 草稿缓存键
func DraftKey(id string) string {
	return "checkout:draft:" + id
}
