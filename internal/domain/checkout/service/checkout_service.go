package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	addressService "shop_engine/internal/domain/address/service"
	cartService "shop_engine/internal/domain/cart/service"
	"shop_engine/internal/domain/checkout/model"
	couponModel "shop_engine/internal/domain/coupon/model"
	couponService "shop_engine/internal/domain/coupon/service"
	"shop_engine/pkg/cache"
	"shop_engine/pkg/logger"
	"shop_engine/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PreviewInput struct {
	AddressID  string
	Contact    model.Contact
	CouponCode string
}

type CheckoutService interface {
	// PriceCheckout 购物车定价并附上收货地址快照
	PriceCheckout(ctx context.Context, userID, addressID string, contact model.Contact) (*model.CheckoutSnapshot, error)
	// Preview 定价、试算优惠券并保存草稿
	Preview(ctx context.Context, userID string, input PreviewInput) (*model.CheckoutDraft, error)
	GetDraft(ctx context.Context, userID, draftID string) (*model.CheckoutDraft, error)
	DeleteDraft(ctx context.Context, draftID string) error
	// Revalidate 用最新的活动与库存重新定价，购物车版本或总价变化返回 ErrDraftStale
	Revalidate(ctx context.Context, draft *model.CheckoutDraft) (*model.CheckoutDraft, error)
}

type checkoutService struct {
	carts     cartService.CartService
	addresses addressService.AddressService
	coupons   couponService.CouponService
	cache     cache.CacheService
	ttl       time.Duration
	metrics   *metrics.MetricsCollector
	now       func() time.Time
}

func NewCheckoutService(
	carts cartService.CartService,
	addresses addressService.AddressService,
	coupons couponService.CouponService,
	c cache.CacheService,
	ttl time.Duration,
	m *metrics.MetricsCollector,
) CheckoutService {
	return &checkoutService{
		carts:     carts,
		addresses: addresses,
		coupons:   coupons,
		cache:     c,
		ttl:       ttl,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *checkoutService) PriceCheckout(ctx context.Context, userID, addressID string, contact model.Contact) (*model.CheckoutSnapshot, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	address, err := s.addresses.GetAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	return &model.CheckoutSnapshot{
		CartVersion: cart.Version,
		AddressID:   addressID,
		Items:       cart.Lines,
		Address:     model.NewAddressSnapshot(address),
		Contact:     contact,
		Subtotal:    cart.Subtotal.Round(2),
	}, nil
}

func (s *checkoutService) Preview(ctx context.Context, userID string, input PreviewInput) (*model.CheckoutDraft, error) {
	// 1. 定价
	snapshot, err := s.PriceCheckout(ctx, userID, input.AddressID, input.Contact)
	if err != nil {
		return nil, err
	}

	draft := &model.CheckoutDraft{
		ID:               uuid.New().String(),
		UserID:           userID,
		CheckoutSnapshot: *snapshot,
		CouponCode:       couponModel.NormalizeCode(input.CouponCode),
	}

	// 2. 优惠券，最多一张
	app, err := s.applyCoupon(ctx, draft)
	if err != nil {
		return nil, err
	}
	draft.ApplyTotals(app)

	eligible, err := s.coupons.EligibleCoupons(ctx, draft.Subtotal, userID)
	if err != nil {
		return nil, fmt.Errorf("load eligible coupons: %w", err)
	}
	draft.EligibleCoupons = eligible

	// 3. 保存草稿
	now := s.now()
	draft.CreatedAt = now
	draft.ExpiresAt = now.Add(s.ttl)
	if err := s.cache.Set(ctx, model.DraftKey(draft.ID), draft, s.ttl); err != nil {
		return nil, fmt.Errorf("save checkout draft: %w", err)
	}
	s.metrics.RecordDraftCreated()

	logger.Log.Info("checkout draft created",
		zap.String("draft_id", draft.ID),
		zap.String("user_id", userID),
		zap.Int("cart_version", draft.CartVersion),
		zap.String("total", draft.Total.StringFixed(2)),
	)
	return draft, nil
}

func (s *checkoutService) GetDraft(ctx context.Context, userID, draftID string) (*model.CheckoutDraft, error) {
	var draft model.CheckoutDraft
	if err := s.cache.Get(ctx, model.DraftKey(draftID), &draft); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, model.ErrDraftNotFound
		}
		return nil, err
	}
	// 他人的草稿按不存在处理
	if draft.UserID != userID || s.now().After(draft.ExpiresAt) {
		return nil, model.ErrDraftNotFound
	}
	return &draft, nil
}

func (s *checkoutService) DeleteDraft(ctx context.Context, draftID string) error {
	return s.cache.Delete(ctx, model.DraftKey(draftID))
}

func (s *checkoutService) Revalidate(ctx context.Context, draft *model.CheckoutDraft) (*model.CheckoutDraft, error) {
	snapshot, err := s.PriceCheckout(ctx, draft.UserID, draft.AddressID, draft.Contact)
	if err != nil {
		if errors.Is(err, model.ErrEmptyCart) {
			return nil, model.ErrDraftStale
		}
		return nil, err
	}
	if snapshot.CartVersion != draft.CartVersion {
		return nil, model.ErrDraftStale
	}

	fresh := *draft
	fresh.CheckoutSnapshot = *snapshot
	app, err := s.applyCoupon(ctx, &fresh)
	if err != nil {
		return nil, err
	}
	if draft.Coupon != nil && (app == nil || !app.Applied) {
		reason := ""
		if app != nil {
			reason = app.Reason
		}
		return nil, fmt.Errorf("%w: %s", model.ErrCouponRejected, reason)
	}
	fresh.ApplyTotals(app)

	if !fresh.Total.Equal(draft.Total) {
		logger.Log.Info("checkout draft is stale",
			zap.String("draft_id", draft.ID),
			zap.String("draft_total", draft.Total.StringFixed(2)),
			zap.String("current_total", fresh.Total.StringFixed(2)),
		)
		return nil, model.ErrDraftStale
	}
	return &fresh, nil
}

// applyCoupon 草稿没有优惠码时返回 nil
func (s *checkoutService) applyCoupon(ctx context.Context, draft *model.CheckoutDraft) (*couponModel.CouponApplication, error) {
	if draft.CouponCode == "" {
		return nil, nil
	}
	app, err := s.coupons.ApplyCoupon(ctx, draft.Subtotal, draft.CouponCode, draft.UserID)
	if err != nil {
		return nil, fmt.Errorf("apply coupon: %w", err)
	}
	return app, nil
}
