package model

import (
	baseModel "shop_engine/pkg/model"

	"github.com/shopspring/decimal"
)

// Category 商品分类
type Category struct {
	baseModel.BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
}

// Product 商品，定价单位是 Variant
type Product struct {
	baseModel.BaseModel
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  string    `gorm:"type:uuid;index;not null" json:"categoryId"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	Variants    []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

// Variant 商品规格 (颜色 / 价格 / 库存)
type Variant struct {
	baseModel.BaseModel
	ProductID string          `gorm:"type:uuid;index;not null" json:"productId"`
	Color     string          `gorm:"type:varchar(50)" json:"color"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock     int             `gorm:"not null;default:0" json:"stock"` // 不允许为负，由条件更新保证
	IsActive  bool            `gorm:"not null;default:true" json:"isActive"`
}

// Sellable 商品、分类、规格都上架才可售
func (p *Product) Sellable(v *Variant) bool {
	if p == nil || v == nil || !p.IsActive || !v.IsActive {
		return false
	}
	return p.Category != nil && p.Category.IsActive
}
