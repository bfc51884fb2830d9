package repository

import (
	"context"
	"errors"

	catalogModel "shop_engine/internal/domain/catalog/model"
	"shop_engine/pkg/database"

	"gorm.io/gorm"
)

type InventoryRepository interface {
	GetVariant(ctx context.Context, id string) (*catalogModel.Variant, error)
	// DecrementStock 条件扣减，库存不足时返回 false
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
	IncrementStock(ctx context.Context, id string, qty int) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetVariant(ctx context.Context, id string) (*catalogModel.Variant, error) {
	var variant catalogModel.Variant
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogModel.ErrVariantNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// DecrementStock 比较并交换：WHERE stock >= qty，避免超卖
func (r *inventoryRepository) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	result := database.Conn(ctx, r.db).Model(&catalogModel.Variant{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementStock 已软删除的规格同样回补
func (r *inventoryRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	result := database.Conn(ctx, r.db).Unscoped().Model(&catalogModel.Variant{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalogModel.ErrVariantNotFound
	}
	return nil
}
