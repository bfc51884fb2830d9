package repository

import (
	"context"
	"errors"

	"shop_engine/internal/domain/catalog/model"
	"shop_engine/pkg/database"

	"gorm.io/gorm"
)

// ProductFilter 商品列表筛选条件
type ProductFilter struct {
	Search     string
	CategoryID string
}

type CatalogRepository interface {
	// ListSellable 上架商品且分类上架，预加载分类和上架规格
	ListSellable(ctx context.Context, filter ProductFilter, offset, limit int) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	// GetProductsByIDs 预加载分类和全部规格，缺失的 id 不报错
	GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListSellable(ctx context.Context, filter ProductFilter, offset, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := database.Conn(ctx, r.db).Model(&model.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id AND categories.deleted_at IS NULL").
		Where("products.is_active = ? AND categories.is_active = ?", true, true)
	if filter.CategoryID != "" {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("products.name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("Category").
		Preload("Variants", "is_active = ?", true).
		Order("products.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&products).Error
	return products, total, err
}

func (r *catalogRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := database.Conn(ctx, r.db).
		Preload("Category").
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []model.Product
	err := database.Conn(ctx, r.db).
		Preload("Category").
		Preload("Variants").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}
