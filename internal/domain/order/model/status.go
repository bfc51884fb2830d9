package model

import (
	"errors"
	"fmt"
)

// 订单与订单行共用一套状态
const (
	StatusPending          = "pending"
	StatusConfirmed        = "confirmed"
	StatusProcessing       = "processing"
	StatusShipped          = "shipped"
	StatusDelivered        = "delivered"
	StatusRequestingReturn = "requesting_return"
	StatusReturned         = "returned"
	StatusCancelled        = "cancelled"
)

const (
	ActorCustomer = "customer"
	ActorAdmin    = "admin"
)

var (
	// ErrCustomerOnlyStatus 退货申请只能由顾客发起
	ErrCustomerOnlyStatus = errors.New("requesting_return can only be set by the customer")
	ErrUnknownStatus      = errors.New("unknown order status")
)

// InvalidTransitionError 状态表不允许的流转
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

var transitions = map[string][]string{
	StatusPending:          {StatusConfirmed, StatusCancelled},
	StatusConfirmed:        {StatusProcessing, StatusCancelled},
	StatusProcessing:       {StatusShipped, StatusCancelled},
	StatusShipped:          {StatusDelivered},
	StatusDelivered:        {StatusRequestingReturn},
	StatusRequestingReturn: {StatusReturned, StatusDelivered},
}

// Statuses 全部状态，按流转顺序
var Statuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusRequestingReturn,
	StatusReturned,
	StatusCancelled,
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal 已取消和已退货不能再流转
func IsTerminal(status string) bool {
	return status == StatusCancelled || status == StatusReturned
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition 先校验操作者权限，再查状态表
func ValidateTransition(from, to, actor string) error {
	if to == StatusRequestingReturn && actor != ActorCustomer {
		return ErrCustomerOnlyStatus
	}
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// DeriveOrderStatus 由订单行状态推导订单状态
func DeriveOrderStatus(previous string, items []string) string {
	if len(items) == 0 {
		return previous
	}

	same := true
	for _, s := range items[1:] {
		if s != items[0] {
			same = false
			break
		}
	}
	if same {
		return items[0]
	}

	for _, s := range items {
		if s == StatusRequestingReturn {
			return StatusRequestingReturn
		}
	}

	// 退货申请全部处理完，取数量最多的状态，并列时取最先达到的
	if previous == StatusRequestingReturn {
		counts := make(map[string]int, len(items))
		best, bestCount := previous, 0
		for _, s := range items {
			counts[s]++
			if counts[s] > bestCount {
				best, bestCount = s, counts[s]
			}
		}
		return best
	}
	return previous
}
