package repository

import (
	"context"
	"errors"
	"time"

	"shop_engine/internal/domain/coupon/model"
	"shop_engine/pkg/database"

	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	GetByID(ctx context.Context, id string) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context, offset, limit int) ([]model.Coupon, int64, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Coupon, error)
	// CountUserUsage 用户使用过该券且未取消的订单数
	CountUserUsage(ctx context.Context, userID, couponID string) (int64, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	return database.Conn(ctx, r.db).Create(coupon).Error
}

func (r *couponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	return database.Conn(ctx, r.db).Save(coupon).Error
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := database.Conn(ctx, r.db).Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) List(ctx context.Context, offset, limit int) ([]model.Coupon, int64, error) {
	var coupons []model.Coupon
	var total int64

	query := database.Conn(ctx, r.db).Model(&model.Coupon{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&coupons).Error
	return coupons, total, err
}

func (r *couponRepository) ListActive(ctx context.Context, now time.Time) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := database.Conn(ctx, r.db).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Order("code").
		Find(&coupons).Error
	return coupons, err
}

// CountUserUsage 直接统计 orders 表，已取消的订单不占用次数
func (r *couponRepository) CountUserUsage(ctx context.Context, userID, couponID string) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Table("orders").
		Where("user_id = ? AND coupon_id = ? AND status <> ? AND deleted_at IS NULL", userID, couponID, "cancelled").
		Count(&count).Error
	return count, err
}
