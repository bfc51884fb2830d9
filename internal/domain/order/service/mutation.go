package service

import (
	"time"

	"shop_engine/internal/domain/order/model"
	"shop_engine/internal/pkg/events"

	"github.com/shopspring/decimal"
)

type transition struct {
	level string
	from  string
	to    string
}

// mutation 一次状态变更在事务内累积的改动，提交后再统一发事件和通知
type mutation struct {
	order       *model.Order
	actor       string
	reason      string
	now         time.Time
	dirty       []*model.OrderItem
	history     []model.OrderStatusHistory
	events      []events.OrderEvent
	transitions []transition
	refunded    decimal.Decimal
}

func newMutation(order *model.Order, actor, reason string, now time.Time) *mutation {
	return &mutation{
		order:    order,
		actor:    actor,
		reason:   reason,
		now:      now,
		refunded: decimal.Zero,
	}
}

func (m *mutation) unchanged() bool {
	return len(m.history) == 0
}

func (m *mutation) setItem(item *model.OrderItem, to string) {
	from := item.Status
	item.Status = to
	m.dirty = append(m.dirty, item)

	itemID := item.ID
	m.history = append(m.history, model.OrderStatusHistory{
		OrderID:     m.order.ID,
		OrderItemID: &itemID,
		FromStatus:  from,
		ToStatus:    to,
		Actor:       m.actor,
		Reason:      m.reason,
		Seq:         len(m.history),
	})
	m.events = append(m.events, events.OrderEvent{
		Type:        events.OrderItemStatusChanged,
		OrderID:     m.order.ID,
		OrderItemID: itemID,
		UserID:      m.order.UserID,
		From:        from,
		To:          to,
		Actor:       m.actor,
	})
	m.transitions = append(m.transitions, transition{level: "item", from: from, to: to})
}

// setOrder 写入推导出的订单状态并同步支付状态
func (m *mutation) setOrder(to string) {
	order := m.order
	from := order.Status
	if from == to {
		return
	}
	order.Status = to

	switch to {
	case model.StatusCancelled:
		order.PaymentStatus = model.PaymentRefunded
	case model.StatusReturned:
		if order.PaymentStatus == model.PaymentPaid {
			order.PaymentStatus = model.PaymentRefunded
		}
	case model.StatusDelivered:
		if order.PaymentStatus == model.PaymentPending || order.PaymentStatus == model.PaymentFailed {
			m.markPaid()
		}
	}

	m.history = append(m.history, model.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   to,
		Actor:      m.actor,
		Reason:     m.reason,
		Seq:        len(m.history),
	})
	m.events = append(m.events, events.OrderEvent{
		Type:    events.OrderStatusChanged,
		OrderID: order.ID,
		UserID:  order.UserID,
		From:    from,
		To:      to,
		Actor:   m.actor,
	})
	m.transitions = append(m.transitions, transition{level: "order", from: from, to: to})
}

func (m *mutation) markPaid() {
	now := m.now
	m.order.PaymentStatus = model.PaymentPaid
	m.order.PaidAt = &now
}

func (m *mutation) derive() {
	m.setOrder(model.DeriveOrderStatus(m.order.Status, m.order.ItemStatuses()))
}
