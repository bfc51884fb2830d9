package service

import (
	"context"
	"strings"
	"time"

	"shop_engine/internal/domain/offer/model"
	"shop_engine/internal/domain/offer/repository"
	"shop_engine/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OfferInput 创建 / 更新活动的参数
type OfferInput struct {
	Name          string
	Description   string
	Type          string
	DiscountValue decimal.Decimal
	TargetingType string
	ProductIDs    []string
	CategoryIDs   []string
	Status        string
	StartDate     time.Time
	EndDate       time.Time
}

type OfferService interface {
	CreateOffer(ctx context.Context, input OfferInput) (*model.Offer, error)
	UpdateOffer(ctx context.Context, id string, input OfferInput) (*model.Offer, error)
	ToggleOffer(ctx context.Context, id string) (*model.Offer, error)
	GetOffer(ctx context.Context, id string) (*model.Offer, error)
	ListOffers(ctx context.Context, status string, offset, limit int) ([]model.Offer, int64, error)
	// ActiveOffers 每次调用都实时查询，不做跨请求缓存
	ActiveOffers(ctx context.Context) ([]model.Offer, error)
}

type offerService struct {
	repo repository.OfferRepository
	now  func() time.Time
}

func NewOfferService(repo repository.OfferRepository) OfferService {
	return &offerService{repo: repo, now: time.Now}
}

func (s *offerService) CreateOffer(ctx context.Context, input OfferInput) (*model.Offer, error) {
	offer := &model.Offer{}
	apply(offer, input)
	if offer.Status == "" {
		offer.Status = model.StatusActive
	}
	if err := offer.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}
	logger.Log.Info("offer created",
		zap.String("offer_id", offer.ID),
		zap.String("type", offer.Type),
		zap.String("targeting", offer.TargetingType),
	)
	return offer, nil
}

func (s *offerService) UpdateOffer(ctx context.Context, id string, input OfferInput) (*model.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := offer.Status
	apply(offer, input)
	if input.Status == "" {
		offer.Status = status
	}
	if err := offer.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, err
	}
	logger.Log.Info("offer updated", zap.String("offer_id", offer.ID))
	return offer, nil
}

// ToggleOffer 在 active / inactive 之间切换，活动不会被删除
func (s *offerService) ToggleOffer(ctx context.Context, id string) (*model.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if offer.Status == model.StatusActive {
		offer.Status = model.StatusInactive
	} else {
		offer.Status = model.StatusActive
	}

	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, err
	}
	logger.Log.Info("offer toggled", zap.String("offer_id", offer.ID), zap.String("status", offer.Status))
	return offer, nil
}

func (s *offerService) GetOffer(ctx context.Context, id string) (*model.Offer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *offerService) ListOffers(ctx context.Context, status string, offset, limit int) ([]model.Offer, int64, error) {
	return s.repo.List(ctx, status, offset, limit)
}

func (s *offerService) ActiveOffers(ctx context.Context) ([]model.Offer, error) {
	return s.repo.ListActive(ctx, s.now())
}

// apply 将输入写入模型，targeting 为 all 时清空 id 列表
func apply(offer *model.Offer, input OfferInput) {
	offer.Name = strings.TrimSpace(input.Name)
	offer.Description = input.Description
	offer.Type = input.Type
	offer.DiscountValue = input.DiscountValue.Round(2)
	offer.TargetingType = input.TargetingType
	offer.ProductIDs = input.ProductIDs
	offer.CategoryIDs = input.CategoryIDs
	if input.TargetingType == model.TargetAll {
		offer.ProductIDs = nil
		offer.CategoryIDs = nil
	}
	offer.Status = input.Status
	offer.StartDate = input.StartDate
	offer.EndDate = input.EndDate
}
