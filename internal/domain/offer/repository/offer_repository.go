package repository

import (
	"context"
	"errors"
	"time"

	"shop_engine/internal/domain/offer/model"
	"shop_engine/pkg/database"

	"gorm.io/gorm"
)

type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	Update(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id string) (*model.Offer, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Offer, int64, error)
	// ListActive 返回状态为 active 且 now 落在 [startDate, endDate] 内的活动
	ListActive(ctx context.Context, now time.Time) ([]model.Offer, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *model.Offer) error {
	return database.Conn(ctx, r.db).Create(offer).Error
}

func (r *offerRepository) Update(ctx context.Context, offer *model.Offer) error {
	return database.Conn(ctx, r.db).Save(offer).Error
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	var offer model.Offer
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) List(ctx context.Context, status string, offset, limit int) ([]model.Offer, int64, error) {
	var offers []model.Offer
	var total int64

	query := database.Conn(ctx, r.db).Model(&model.Offer{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&offers).Error
	return offers, total, err
}

func (r *offerRepository) ListActive(ctx context.Context, now time.Time) ([]model.Offer, error) {
	var offers []model.Offer
	err := database.Conn(ctx, r.db).
		Where("status = ? AND start_date <= ? AND end_date >= ?", model.StatusActive, now, now).
		Find(&offers).Error
	return offers, err
}
