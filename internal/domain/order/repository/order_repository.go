package repository

import (
	"context"
	"errors"

	"shop_engine/internal/domain/order/model"
	"shop_engine/pkg/database"

	"gorm.io/gorm"
)

type OrderRepository interface {
	// Create 连同订单行一起写入
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Order, int64, error)
	// Save 以 version 做比较交换，版本不一致返回 ErrConcurrentUpdate
	Save(ctx context.Context, order *model.Order) error
	UpdateItem(ctx context.Context, item *model.OrderItem) error
	AddHistory(ctx context.Context, entries []model.OrderStatusHistory) error
	ListHistory(ctx context.Context, orderID string) ([]model.OrderStatusHistory, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return database.Conn(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *orderRepository) GetByIDForUser(ctx context.Context, id, userID string) (*model.Order, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

func (r *orderRepository) first(ctx context.Context, query string, args ...interface{}) (*model.Order, error) {
	var order model.Order
	err := database.Conn(ctx, r.db).
		Preload("Items", withItemOrder).
		Where(query, args...).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error) {
	db := database.Conn(ctx, r.db).Model(&model.Order{}).Where("user_id = ?", userID)
	return r.page(db, offset, limit)
}

func (r *orderRepository) List(ctx context.Context, status string, offset, limit int) ([]model.Order, int64, error) {
	db := database.Conn(ctx, r.db).Model(&model.Order{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	return r.page(db, offset, limit)
}

func (r *orderRepository) page(db *gorm.DB, offset, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := db.Preload("Items", withItemOrder).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	result := database.Conn(ctx, r.db).Model(&model.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"status":              order.Status,
			"payment_status":      order.PaymentStatus,
			"subtotal":            order.Subtotal,
			"discount_amount":     order.DiscountAmount,
			"total_amount":        order.TotalAmount,
			"return_reason":       order.ReturnReason,
			"return_requested_at": order.ReturnRequestedAt,
			"paid_at":             order.PaidAt,
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrConcurrentUpdate
	}
	order.Version++
	return nil
}

func (r *orderRepository) UpdateItem(ctx context.Context, item *model.OrderItem) error {
	result := database.Conn(ctx, r.db).Model(&model.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"status":              item.Status,
			"return_reason":       item.ReturnReason,
			"return_requested_at": item.ReturnRequestedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrOrderItemNotFound
	}
	return nil
}

func (r *orderRepository) AddHistory(ctx context.Context, entries []model.OrderStatusHistory) error {
	if len(entries) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Create(&entries).Error
}

func (r *orderRepository) ListHistory(ctx context.Context, orderID string) ([]model.OrderStatusHistory, error) {
	var entries []model.OrderStatusHistory
	err := database.Conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at, seq").
		Find(&entries).Error
	return entries, err
}

// withItemOrder 订单行按下单时的位置排序，同批写入的 created_at 相同不能作为顺序
func withItemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}
