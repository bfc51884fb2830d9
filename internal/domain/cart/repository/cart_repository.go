package repository

import (
	"context"
	"errors"

	"shop_engine/internal/domain/cart/model"
	"shop_engine/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	// GetByUserID 购物车不存在时返回 nil, nil
	GetByUserID(ctx context.Context, userID string) (*model.Cart, error)
	GetOrCreate(ctx context.Context, userID string) (*model.Cart, error)
	CreateItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID string, qty int) error
	DeleteItem(ctx context.Context, cartID, itemID string) error
	ClearItems(ctx context.Context, cartID string) error
	BumpVersion(ctx context.Context, cartID string) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := database.Conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err != nil || cart != nil {
		return cart, err
	}

	cart = &model.Cart{UserID: userID, Version: 1}
	if err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(cart).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *cartRepository) CreateItem(ctx context.Context, item *model.CartItem) error {
	return database.Conn(ctx, r.db).Create(item).Error
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID string, qty int) error {
	result := database.Conn(ctx, r.db).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", qty)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

// DeleteItem 购物车行直接物理删除
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID string) error {
	result := database.Conn(ctx, r.db).Unscoped().
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) ClearItems(ctx context.Context, cartID string) error {
	return database.Conn(ctx, r.db).Unscoped().
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepository) BumpVersion(ctx context.Context, cartID string) error {
	return database.Conn(ctx, r.db).Model(&model.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("version", gorm.Expr("version + 1")).Error
}
