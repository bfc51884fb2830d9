package model

import (
	"errors"

	baseModel "shop_engine/pkg/model"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// Cart 购物车，每个用户一个，任何改动都会使 Version 加一
type Cart struct {
	baseModel.BaseModel
	UserID  string     `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Version int        `gorm:"not null;default:1" json:"version"`
	Items   []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

// CartItem 购物车行，同一规格只占一行
type CartItem struct {
	baseModel.BaseModel
	CartID    string `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant" json:"cartId"`
	ProductID string `gorm:"type:uuid;not null" json:"productId"`
	VariantID string `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant" json:"variantId"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

// FindVariant 按规格查找购物车行
func (c *Cart) FindVariant(variantID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			return &c.Items[i]
		}
	}
	return nil
}

// FindItem 按行 ID 查找
func (c *Cart) FindItem(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}
