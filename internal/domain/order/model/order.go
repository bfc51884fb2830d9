package model

import (
	"errors"
	"time"

	baseModel "shop_engine/pkg/model"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"

	MethodCOD    = "cod"
	MethodOnline = "online"
	MethodWallet = "wallet"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderItemNotFound    = errors.New("order item not found")
	ErrConcurrentUpdate     = errors.New("order was modified concurrently, please retry")
	ErrInvalidPaymentMethod = errors.New("payment method must be cod, online or wallet")
	ErrPaymentNotConfirmed  = errors.New("online payment has not been confirmed")
	ErrNothingToReturn      = errors.New("no delivered items to return")
)

// ShippingAddress 下单时的收货地址快照
type ShippingAddress struct {
	Name       string `gorm:"type:varchar(100)" json:"name"`
	Phone      string `gorm:"type:varchar(20)" json:"phone"`
	Line1      string `gorm:"type:varchar(255)" json:"line1"`
	Line2      string `gorm:"type:varchar(255)" json:"line2"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	State      string `gorm:"type:varchar(100)" json:"state"`
	PostalCode string `gorm:"type:varchar(20)" json:"postalCode"`
	Country    string `gorm:"type:varchar(60)" json:"country"`
}

type Contact struct {
	Name  string `gorm:"type:varchar(100)" json:"name"`
	Phone string `gorm:"type:varchar(20)" json:"phone"`
	Email string `gorm:"type:varchar(255)" json:"email"`
}

// AppliedCoupon 优惠券快照，ID 为空表示未使用优惠券
type AppliedCoupon struct {
	ID             *string         `gorm:"type:uuid;index" json:"couponId,omitempty"`
	Code           string          `gorm:"type:varchar(50)" json:"code,omitempty"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discountAmount"`
}

// Order 订单，金额满足 total = subtotal - discount + tax
type Order struct {
	baseModel.BaseModel
	baseModel.Versioned
	OrderNo           string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"orderNo"`
	UserID            string          `gorm:"type:uuid;index;not null" json:"userId"`
	Shipping          ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	Contact           Contact         `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DiscountAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discountAmount"`
	TaxAmount         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"taxAmount"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	Status            string          `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	PaymentStatus     string          `gorm:"type:varchar(20);not null;default:'pending'" json:"paymentStatus"`
	PaymentMethod     string          `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	Coupon            AppliedCoupon   `gorm:"embedded;embeddedPrefix:coupon_" json:"appliedCoupon"`
	ReturnReason      string          `gorm:"type:text" json:"returnReason,omitempty"`
	ReturnRequestedAt *time.Time      `json:"returnRequestedAt,omitempty"`
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
}

// OrderItem 订单行快照，单价下单后不再变化
type OrderItem struct {
	baseModel.BaseModel
	OrderID           string          `gorm:"type:uuid;index;not null" json:"orderId"`
	Position          int             `gorm:"not null;default:0" json:"position"`
	ProductID         string          `gorm:"type:uuid;not null" json:"productId"`
	VariantID         string          `gorm:"type:uuid;not null" json:"variantId"`
	Name              string          `gorm:"type:varchar(200);not null" json:"name"`
	Color             string          `gorm:"type:varchar(50)" json:"color"`
	Quantity          int             `gorm:"not null" json:"quantity"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Status            string          `gorm:"type:varchar(30);not null;default:'pending'" json:"status"`
	ReturnReason      string          `gorm:"type:text" json:"returnReason,omitempty"`
	ReturnRequestedAt *time.Time      `json:"returnRequestedAt,omitempty"`
}

// OrderStatusHistory 状态流转记录，与流转写在同一事务
type OrderStatusHistory struct {
	baseModel.BaseModel
	OrderID     string  `gorm:"type:uuid;index;not null" json:"orderId"`
	OrderItemID *string `gorm:"type:uuid" json:"orderItemId,omitempty"`
	FromStatus  string  `gorm:"type:varchar(30)" json:"from"`
	ToStatus    string  `gorm:"type:varchar(30);not null" json:"to"`
	Actor       string  `gorm:"type:varchar(20);not null" json:"actor"`
	Reason      string  `gorm:"type:text" json:"reason,omitempty"`
	// Seq 同一次变更内的先后顺序，同批写入的 created_at 相同
	Seq         int     `gorm:"not null;default:0" json:"-"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}

// Amount 行金额 = 单价 × 数量
func (i *OrderItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// FindItem 按 ID 查找订单行
func (o *Order) FindItem(itemID string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// ItemStatuses 按订单行 Position 顺序返回状态
func (o *Order) ItemStatuses() []string {
	statuses := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		statuses = append(statuses, item.Status)
	}
	return statuses
}

// RemoveAmount 订单行取消后重算金额，折扣不超过新小计
func (o *Order) RemoveAmount(amount decimal.Decimal) {
	o.Subtotal = decimal.Max(o.Subtotal.Sub(amount), decimal.Zero).Round(2)
	o.DiscountAmount = decimal.Min(o.DiscountAmount, o.Subtotal)
	o.TotalAmount = o.Subtotal.Sub(o.DiscountAmount).Add(o.TaxAmount).Round(2)
}
