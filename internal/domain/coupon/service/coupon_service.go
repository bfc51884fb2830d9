package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop_engine/internal/domain/coupon/model"
	"shop_engine/internal/domain/coupon/repository"
	"shop_engine/internal/domain/pricing"
	"shop_engine/pkg/logger"
	"shop_engine/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CouponInput 创建 / 更新优惠券的参数
type CouponInput struct {
	Code           string
	Description    string
	DiscountType   string
	DiscountAmount decimal.Decimal
	MinAmount      decimal.Decimal
	MaxAmount      *decimal.Decimal
	PerUserLimit   int
	IsActive       *bool
	StartDate      time.Time
	EndDate        time.Time
}

type CouponService interface {
	CreateCoupon(ctx context.Context, input CouponInput) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, input CouponInput) (*model.Coupon, error)
	ToggleCoupon(ctx context.Context, id string) (*model.Coupon, error)
	GetCoupon(ctx context.Context, id string) (*model.Coupon, error)
	ListCoupons(ctx context.Context, offset, limit int) ([]model.Coupon, int64, error)
	// ApplyCoupon 不可用时返回 Applied=false 的结果，只有基础设施故障才返回 error
	ApplyCoupon(ctx context.Context, subtotal decimal.Decimal, code, userID string) (*model.CouponApplication, error)
	EligibleCoupons(ctx context.Context, subtotal decimal.Decimal, userID string) ([]model.EligibleCoupon, error)
}

type couponService struct {
	repo    repository.CouponRepository
	metrics *metrics.MetricsCollector
	now     func() time.Time
}

func NewCouponService(repo repository.CouponRepository, m *metrics.MetricsCollector) CouponService {
	return &couponService{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

func (s *couponService) CreateCoupon(ctx context.Context, input CouponInput) (*model.Coupon, error) {
	coupon := &model.Coupon{IsActive: true, PerUserLimit: 1}
	apply(coupon, input)
	if err := coupon.Validate(); err != nil {
		return nil, err
	}

	// 1. 优惠码唯一
	if _, err := s.repo.GetByCode(ctx, coupon.Code); err == nil {
		return nil, model.ErrCouponCodeExists
	} else if !errors.Is(err, model.ErrCouponNotFound) {
		return nil, err
	}

	// 2. 写入
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	logger.Log.Info("coupon created", zap.String("coupon_id", coupon.ID), zap.String("code", coupon.Code))
	return coupon, nil
}

func (s *couponService) UpdateCoupon(ctx context.Context, id string, input CouponInput) (*model.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldCode := coupon.Code
	apply(coupon, input)
	if err := coupon.Validate(); err != nil {
		return nil, err
	}
	if coupon.Code != oldCode {
		if existing, err := s.repo.GetByCode(ctx, coupon.Code); err == nil && existing.ID != coupon.ID {
			return nil, model.ErrCouponCodeExists
		} else if err != nil && !errors.Is(err, model.ErrCouponNotFound) {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	logger.Log.Info("coupon updated", zap.String("coupon_id", coupon.ID))
	return coupon, nil
}

func (s *couponService) ToggleCoupon(ctx context.Context, id string) (*model.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	coupon.IsActive = !coupon.IsActive
	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	logger.Log.Info("coupon toggled", zap.String("coupon_id", coupon.ID), zap.Bool("active", coupon.IsActive))
	return coupon, nil
}

func (s *couponService) GetCoupon(ctx context.Context, id string) (*model.Coupon, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *couponService) ListCoupons(ctx context.Context, offset, limit int) ([]model.Coupon, int64, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *couponService) ApplyCoupon(ctx context.Context, subtotal decimal.Decimal, code, userID string) (*model.CouponApplication, error) {
	subtotal = subtotal.Round(2)
	result := &model.CouponApplication{
		Subtotal: subtotal,
		Discount: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    subtotal,
	}

	// 1. 查找优惠码
	coupon, err := s.repo.GetByCode(ctx, model.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFound) {
			return s.reject(result, model.ReasonNotFound, "Coupon not found"), nil
		}
		return nil, fmt.Errorf("load coupon: %w", err)
	}

	// 2. 状态、时间窗口与门槛
	now := s.now()
	switch {
	case !coupon.IsActive:
		return s.reject(result, model.ReasonInactive, "Coupon is not active"), nil
	case now.Before(coupon.StartDate):
		return s.reject(result, model.ReasonNotStarted, "Coupon is not yet valid"), nil
	case now.After(coupon.EndDate):
		return s.reject(result, model.ReasonExpired, "Coupon has expired"), nil
	case subtotal.LessThan(coupon.MinAmount):
		return s.reject(result, model.ReasonMinAmount,
			fmt.Sprintf("Minimum order amount of %s required", coupon.MinAmount.StringFixed(2))), nil
	}

	// 3. 使用次数
	used, err := s.repo.CountUserUsage(ctx, userID, coupon.ID)
	if err != nil {
		return nil, fmt.Errorf("count coupon usage: %w", err)
	}
	if used >= int64(coupon.PerUserLimit) {
		return s.reject(result, model.ReasonUsageExceeded, "Coupon usage limit reached"), nil
	}

	// 4. 计算折扣，不超过小计
	discount := Discount(coupon, subtotal)
	result.Applied = true
	result.Message = "Coupon applied"
	result.Discount = discount
	result.Total = decimal.Max(subtotal.Sub(discount).Add(result.Tax), decimal.Zero).Round(2)
	result.Coupon = &model.CouponSnapshot{
		ID:             coupon.ID,
		Code:           coupon.Code,
		DiscountType:   coupon.DiscountType,
		DiscountAmount: discount,
	}
	return result, nil
}

func (s *couponService) EligibleCoupons(ctx context.Context, subtotal decimal.Decimal, userID string) ([]model.EligibleCoupon, error) {
	coupons, err := s.repo.ListActive(ctx, s.now())
	if err != nil {
		return nil, err
	}

	eligible := make([]model.EligibleCoupon, 0, len(coupons))
	for _, c := range coupons {
		if subtotal.LessThan(c.MinAmount) {
			continue
		}
		used, err := s.repo.CountUserUsage(ctx, userID, c.ID)
		if err != nil {
			return nil, err
		}
		if used >= int64(c.PerUserLimit) {
			continue
		}
		eligible = append(eligible, model.EligibleCoupon{Coupon: c, Discount: Discount(&c, subtotal)})
	}
	return eligible, nil
}

// Discount 优惠券在给定小计上的减免金额：百分比受 maxAmount 封顶，结果不超过小计
func Discount(c *model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var policy pricing.DiscountPolicy
	if c.DiscountType == model.DiscountPercentage {
		policy = pricing.Percentage{Value: c.DiscountAmount}
		if c.MaxAmount.Valid {
			policy = pricing.Capped{Policy: policy, Max: c.MaxAmount.Decimal}
		}
	} else {
		policy = pricing.Fixed{Value: c.DiscountAmount}
	}
	return policy.DiscountAmount(subtotal)
}

func (s *couponService) reject(result *model.CouponApplication, reason, message string) *model.CouponApplication {
	s.metrics.RecordCouponRejection(reason)
	result.Reason = reason
	result.Message = message
	return result
}

func apply(coupon *model.Coupon, input CouponInput) {
	coupon.Code = model.NormalizeCode(input.Code)
	coupon.Description = input.Description
	coupon.DiscountType = input.DiscountType
	coupon.DiscountAmount = input.DiscountAmount.Round(2)
	coupon.MinAmount = input.MinAmount.Round(2)
	coupon.MaxAmount = decimal.NullDecimal{}
	if input.MaxAmount != nil {
		coupon.MaxAmount = decimal.NewNullDecimal(input.MaxAmount.Round(2))
	}
	if input.PerUserLimit != 0 {
		coupon.PerUserLimit = input.PerUserLimit
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
	coupon.StartDate = input.StartDate
	coupon.EndDate = input.EndDate
}
