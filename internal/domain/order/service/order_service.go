package service

import (
	"context"
	"fmt"
	"time"

	cartService "shop_engine/internal/domain/cart/service"
	checkoutModel "shop_engine/internal/domain/checkout/model"
	checkoutService "shop_engine/internal/domain/checkout/service"
	inventoryService "shop_engine/internal/domain/inventory/service"
	"shop_engine/internal/domain/order/model"
	"shop_engine/internal/domain/order/repository"
	"shop_engine/internal/domain/order/strategy"
	walletService "shop_engine/internal/domain/wallet/service"
	"shop_engine/internal/pkg/events"
	"shop_engine/internal/pkg/push"
	"shop_engine/pkg/database"
	"shop_engine/pkg/logger"
	"shop_engine/pkg/metrics"
	baseModel "shop_engine/pkg/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PlaceOrderInput struct {
	DraftID          string
	PaymentMethod    string
	PaymentConfirmed bool
}

// Result 状态变更结果，目标状态与当前一致时 Unchanged 为 true 且不做任何写入
type Result struct {
	Order     *model.Order `json:"order"`
	Unchanged bool         `json:"unchanged"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (*model.Order, error)

	// 管理端，可以设置除 requesting_return 以外的任何合法状态
	UpdateOrderStatus(ctx context.Context, orderID, status, actor, reason string) (*Result, error)
	UpdateItemStatus(ctx context.Context, orderID, itemID, status, actor, reason string) (*Result, error)

	// 顾客端
	CancelOrder(ctx context.Context, userID, orderID, reason string) (*Result, error)
	CancelItem(ctx context.Context, userID, orderID, itemID, reason string) (*Result, error)
	// RequestReturn itemIDs 为空表示整单退货
	RequestReturn(ctx context.Context, userID, orderID string, itemIDs []string, reason string) (*Result, error)

	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetUserOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error)
	ListOrders(ctx context.Context, status string, offset, limit int) ([]model.Order, int64, error)
	GetHistory(ctx context.Context, orderID string) ([]model.OrderStatusHistory, error)
}

type orderService struct {
	repo      repository.OrderRepository
	checkout  checkoutService.CheckoutService
	carts     cartService.CartService
	inventory inventoryService.InventoryService
	wallet    walletService.WalletService
	payments  strategy.Registry
	tx        database.Transactor
	publisher events.Publisher
	notifier  push.Notifier
	metrics   *metrics.MetricsCollector
	now       func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	checkout checkoutService.CheckoutService,
	carts cartService.CartService,
	inventory inventoryService.InventoryService,
	wallet walletService.WalletService,
	payments strategy.Registry,
	tx database.Transactor,
	publisher events.Publisher,
	notifier push.Notifier,
	m *metrics.MetricsCollector,
) OrderService {
	return &orderService{
		repo:      repo,
		checkout:  checkout,
		carts:     carts,
		inventory: inventory,
		wallet:    wallet,
		payments:  payments,
		tx:        tx,
		publisher: publisher,
		notifier:  notifier,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (*model.Order, error) {
	// 1. 支付方式与草稿
	payment, err := s.payments.Get(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	draft, err := s.checkout.GetDraft(ctx, userID, input.DraftID)
	if err != nil {
		return nil, err
	}

	// 2. 用最新活动重新定价，与草稿不一致时拒绝下单
	fresh, err := s.checkout.Revalidate(ctx, draft)
	if err != nil {
		return nil, err
	}
	order := newOrder(userID, input.PaymentMethod, fresh)

	// 3. 扣库存、结算、写订单、清购物车在同一事务内
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, item := range order.Items {
			if err := s.inventory.Reserve(ctx, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}

		status, err := payment.Settle(ctx, order, input.PaymentConfirmed)
		if err != nil {
			return err
		}
		order.PaymentStatus = status
		if status == model.PaymentPaid {
			now := s.now()
			order.PaidAt = &now
		}

		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.repo.AddHistory(ctx, []model.OrderStatusHistory{{
			OrderID:  order.ID,
			ToStatus: model.StatusPending,
			Actor:    model.ActorCustomer,
			Reason:   "order placed",
		}}); err != nil {
			return err
		}
		return s.carts.Clear(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	// 4. 提交之后的副作用
	if err := s.checkout.DeleteDraft(ctx, draft.ID); err != nil {
		logger.Log.Warn("delete checkout draft failed", zap.String("draft_id", draft.ID), zap.Error(err))
	}
	s.metrics.RecordOrderPlaced(order.PaymentMethod)
	s.publish(ctx, events.OrderEvent{
		Type:    events.OrderPlaced,
		OrderID: order.ID,
		UserID:  userID,
		To:      order.Status,
		Actor:   model.ActorCustomer,
		Amount:  order.TotalAmount.StringFixed(2),
	})
	s.notifier.Notify(ctx, push.Notification{
		UserID:  userID,
		OrderID: order.ID,
		Title:   "Order placed",
		Body:    fmt.Sprintf("Your order %s has been placed.", order.OrderNo),
	})

	logger.Log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("order_no", order.OrderNo),
		zap.String("user_id", userID),
		zap.String("payment_method", order.PaymentMethod),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID, status, actor, reason string) (*Result, error) {
	if !model.IsValidStatus(status) {
		return nil, model.ErrUnknownStatus
	}
	return s.run(ctx, s.byID(orderID), actor, reason, func(ctx context.Context, m *mutation) error {
		return s.applyOrderStatus(ctx, m, status)
	})
}

func (s *orderService) UpdateItemStatus(ctx context.Context, orderID, itemID, status, actor, reason string) (*Result, error) {
	if !model.IsValidStatus(status) {
		return nil, model.ErrUnknownStatus
	}
	return s.run(ctx, s.byID(orderID), actor, reason, func(ctx context.Context, m *mutation) error {
		return s.applyItemStatus(ctx, m, itemID, status)
	})
}

func (s *orderService) CancelOrder(ctx context.Context, userID, orderID, reason string) (*Result, error) {
	return s.run(ctx, s.byUser(userID, orderID), model.ActorCustomer, reason, func(ctx context.Context, m *mutation) error {
		return s.applyOrderStatus(ctx, m, model.StatusCancelled)
	})
}

func (s *orderService) CancelItem(ctx context.Context, userID, orderID, itemID, reason string) (*Result, error) {
	return s.run(ctx, s.byUser(userID, orderID), model.ActorCustomer, reason, func(ctx context.Context, m *mutation) error {
		return s.applyItemStatus(ctx, m, itemID, model.StatusCancelled)
	})
}

func (s *orderService) RequestReturn(ctx context.Context, userID, orderID string, itemIDs []string, reason string) (*Result, error) {
	return s.run(ctx, s.byUser(userID, orderID), model.ActorCustomer, reason, func(ctx context.Context, m *mutation) error {
		order := m.order

		targets := itemIDs
		if len(targets) == 0 {
			// 整单退货要求订单本身已签收
			if err := model.ValidateTransition(order.Status, model.StatusRequestingReturn, m.actor); err != nil {
				return err
			}
			for _, item := range order.Items {
				if item.Status == model.StatusDelivered {
					targets = append(targets, item.ID)
				}
			}
			if len(targets) == 0 {
				return model.ErrNothingToReturn
			}
		}

		for _, id := range targets {
			item := order.FindItem(id)
			if item == nil {
				return model.ErrOrderItemNotFound
			}
			if err := model.ValidateTransition(item.Status, model.StatusRequestingReturn, m.actor); err != nil {
				return err
			}
			m.setItem(item, model.StatusRequestingReturn)
			item.ReturnReason = reason
			item.ReturnRequestedAt = &m.now
		}

		order.ReturnReason = reason
		order.ReturnRequestedAt = &m.now
		m.derive()
		return nil
	})
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *orderService) GetUserOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	return s.repo.GetByIDForUser(ctx, orderID, userID)
}

func (s *orderService) ListUserOrders(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

func (s *orderService) ListOrders(ctx context.Context, status string, offset, limit int) ([]model.Order, int64, error) {
	if status != "" && !model.IsValidStatus(status) {
		return nil, 0, model.ErrUnknownStatus
	}
	return s.repo.List(ctx, status, offset, limit)
}

func (s *orderService) GetHistory(ctx context.Context, orderID string) ([]model.OrderStatusHistory, error) {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, orderID)
}

// applyOrderStatus 订单级流转，订单行跟随后再推导订单状态
func (s *orderService) applyOrderStatus(ctx context.Context, m *mutation, to string) error {
	order := m.order
	if order.Status == to {
		return nil
	}
	if err := model.ValidateTransition(order.Status, to, m.actor); err != nil {
		return err
	}
	paid := order.PaymentStatus == model.PaymentPaid

	switch to {
	case model.StatusCancelled:
		// 已发货的订单行不能取消，整单拒绝
		for _, item := range order.Items {
			if !model.IsTerminal(item.Status) && !model.CanTransition(item.Status, to) {
				return &model.InvalidTransitionError{From: item.Status, To: to}
			}
		}
		// 逐行退库存，已支付则逐行退款
		for i := range order.Items {
			item := &order.Items[i]
			if model.IsTerminal(item.Status) {
				continue
			}
			m.setItem(item, to)
			if err := s.release(ctx, m, item, paid); err != nil {
				return err
			}
		}

	case model.StatusReturned:
		// 退货审批通过，整单合并为一笔退款
		total := decimal.Zero
		for i := range order.Items {
			item := &order.Items[i]
			if model.IsTerminal(item.Status) {
				continue
			}
			m.setItem(item, to)
			if err := s.inventory.Restock(ctx, item.VariantID, item.Quantity); err != nil {
				return err
			}
			total = total.Add(item.Amount())
		}
		if paid && total.IsPositive() {
			desc := fmt.Sprintf("Refund for returned order %s", order.OrderNo)
			if err := s.refund(ctx, m, total, desc, nil); err != nil {
				return err
			}
		}

	case model.StatusDelivered:
		if order.PaymentStatus != model.PaymentPaid {
			m.markPaid()
		}
		if order.Status == model.StatusRequestingReturn {
			// 拒绝退货，申请中的行回到已签收并清除退货信息
			for i := range order.Items {
				item := &order.Items[i]
				if item.Status != model.StatusRequestingReturn {
					continue
				}
				m.setItem(item, to)
				item.ReturnReason = ""
				item.ReturnRequestedAt = nil
			}
			order.ReturnReason = ""
			order.ReturnRequestedAt = nil
		} else {
			for i := range order.Items {
				item := &order.Items[i]
				if model.IsTerminal(item.Status) || item.Status == to {
					continue
				}
				m.setItem(item, to)
			}
		}

	default:
		for i := range order.Items {
			item := &order.Items[i]
			if model.CanTransition(item.Status, to) {
				m.setItem(item, to)
			}
		}
	}

	m.setOrder(model.DeriveOrderStatus(to, order.ItemStatuses()))
	return nil
}

// applyItemStatus 订单行级流转，之后由全部订单行推导订单状态
func (s *orderService) applyItemStatus(ctx context.Context, m *mutation, itemID, to string) error {
	order := m.order
	item := order.FindItem(itemID)
	if item == nil {
		return model.ErrOrderItemNotFound
	}
	if item.Status == to {
		return nil
	}
	if err := model.ValidateTransition(item.Status, to, m.actor); err != nil {
		return err
	}
	paid := order.PaymentStatus == model.PaymentPaid
	from := item.Status
	m.setItem(item, to)

	switch to {
	case model.StatusCancelled:
		if err := s.release(ctx, m, item, paid); err != nil {
			return err
		}
		order.RemoveAmount(item.Amount())
	case model.StatusReturned:
		if err := s.release(ctx, m, item, paid); err != nil {
			return err
		}
	case model.StatusRequestingReturn:
		item.ReturnReason = m.reason
		item.ReturnRequestedAt = &m.now
	case model.StatusDelivered:
		if from == model.StatusRequestingReturn {
			item.ReturnReason = ""
			item.ReturnRequestedAt = nil
		}
	}

	previous := order.Status
	m.derive()
	if previous == model.StatusRequestingReturn && order.Status == model.StatusDelivered {
		// 订单回到已签收，与整单拒绝退货一样清除退货信息
		order.ReturnReason = ""
		order.ReturnRequestedAt = nil
	}
	return nil
}

// release 退回库存，已支付时按行金额退款
func (s *orderService) release(ctx context.Context, m *mutation, item *model.OrderItem, paid bool) error {
	if err := s.inventory.Restock(ctx, item.VariantID, item.Quantity); err != nil {
		return err
	}
	if !paid {
		return nil
	}
	itemID := item.ID
	desc := fmt.Sprintf("Refund for %s x%d in order %s", item.Name, item.Quantity, m.order.OrderNo)
	return s.refund(ctx, m, item.Amount(), desc, &itemID)
}

func (s *orderService) refund(ctx context.Context, m *mutation, amount decimal.Decimal, desc string, itemID *string) error {
	if _, err := s.wallet.Refund(ctx, m.order.UserID, amount, m.order.ID, desc, itemID); err != nil {
		return fmt.Errorf("refund order %s: %w", m.order.ID, err)
	}
	m.refunded = m.refunded.Add(amount)
	return nil
}

// run 在一个事务内加载订单、应用变更并以 version 做比较交换写回
func (s *orderService) run(
	ctx context.Context,
	load func(ctx context.Context) (*model.Order, error),
	actor, reason string,
	apply func(ctx context.Context, m *mutation) error,
) (*Result, error) {
	var m *mutation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := load(ctx)
		if err != nil {
			return err
		}
		m = newMutation(order, actor, reason, s.now())
		if err := apply(ctx, m); err != nil {
			return err
		}
		if m.unchanged() {
			return nil
		}
		return s.commit(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	if m.unchanged() {
		return &Result{Order: m.order, Unchanged: true}, nil
	}

	s.afterCommit(ctx, m)
	return &Result{Order: m.order}, nil
}

func (s *orderService) commit(ctx context.Context, m *mutation) error {
	for _, item := range m.dirty {
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return err
		}
	}
	if err := s.repo.Save(ctx, m.order); err != nil {
		return err
	}
	return s.repo.AddHistory(ctx, m.history)
}

func (s *orderService) afterCommit(ctx context.Context, m *mutation) {
	for _, t := range m.transitions {
		s.metrics.RecordTransition(t.level, t.from, t.to)
	}
	s.publish(ctx, m.events...)

	order := m.order
	s.notifier.Notify(ctx, push.Notification{
		UserID:  order.UserID,
		OrderID: order.ID,
		Title:   "Order update",
		Body:    fmt.Sprintf("Your order %s is now %s.", order.OrderNo, order.Status),
		Extra:   map[string]string{"status": order.Status, "paymentStatus": order.PaymentStatus},
	})

	logger.Log.Info("order status changed",
		zap.String("order_id", order.ID),
		zap.String("status", order.Status),
		zap.String("payment_status", order.PaymentStatus),
		zap.String("actor", m.actor),
		zap.Int("transitions", len(m.transitions)),
		zap.String("refunded", m.refunded.StringFixed(2)),
	)
}

func (s *orderService) publish(ctx context.Context, evs ...events.OrderEvent) {
	if len(evs) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		logger.Log.Error("publish order events failed",
			zap.String("order_id", evs[0].OrderID),
			zap.Int("count", len(evs)),
			zap.Error(err),
		)
	}
}

func (s *orderService) byID(orderID string) func(ctx context.Context) (*model.Order, error) {
	return func(ctx context.Context) (*model.Order, error) {
		return s.repo.GetByID(ctx, orderID)
	}
}

func (s *orderService) byUser(userID, orderID string) func(ctx context.Context) (*model.Order, error) {
	return func(ctx context.Context) (*model.Order, error) {
		return s.repo.GetByIDForUser(ctx, orderID, userID)
	}
}

// newOrder 由草稿生成订单，订单号沿用 时间 + 随机串
func newOrder(userID, method string, draft *checkoutModel.CheckoutDraft) *model.Order {
	order := &model.Order{
		BaseModel:      baseModel.BaseModel{ID: uuid.New().String()},
		Versioned:      baseModel.Versioned{Version: 1},
		OrderNo:        fmt.Sprintf("%s%s", time.Now().Format("20060102150405"), uuid.New().String()[:8]),
		UserID:         userID,
		Subtotal:       draft.Subtotal,
		DiscountAmount: draft.Discount,
		TaxAmount:      draft.Tax,
		TotalAmount:    draft.Total,
		Status:         model.StatusPending,
		PaymentStatus:  model.PaymentPending,
		PaymentMethod:  method,
		Shipping: model.ShippingAddress{
			Name:       draft.Address.Name,
			Phone:      draft.Address.Phone,
			Line1:      draft.Address.Line1,
			Line2:      draft.Address.Line2,
			City:       draft.Address.City,
			State:      draft.Address.State,
			PostalCode: draft.Address.PostalCode,
			Country:    draft.Address.Country,
		},
		Contact: model.Contact{
			Name:  draft.Contact.Name,
			Phone: draft.Contact.Phone,
			Email: draft.Contact.Email,
		},
	}
	if draft.Coupon != nil {
		couponID := draft.Coupon.ID
		order.Coupon = model.AppliedCoupon{
			ID:             &couponID,
			Code:           draft.Coupon.Code,
			DiscountAmount: draft.Coupon.DiscountAmount,
		}
	}

	for i, line := range draft.Items {
		order.Items = append(order.Items, model.OrderItem{
			Position:  i,
			ProductID: line.ProductID,
			VariantID: line.Variant.ID,
			Name:      line.ProductName,
			Color:     line.Variant.Color,
			Quantity:  line.Quantity,
			Price:     line.FinalPrice,
			Status:    model.StatusPending,
		})
	}
	return order
}
