package model

import (
	"errors"

	baseModel "shop_engine/pkg/model"
)

var ErrAddressNotFound = errors.New("address not found")

// Address 收货地址，由用户资料服务维护，这里只读
type Address struct {
	baseModel.BaseModel
	UserID     string `gorm:"type:uuid;index;not null" json:"userId"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Phone      string `gorm:"type:varchar(20);not null" json:"phone"`
	Line1      string `gorm:"type:varchar(255);not null" json:"line1"`
	Line2      string `gorm:"type:varchar(255)" json:"line2"`
	City       string `gorm:"type:varchar(100);not null" json:"city"`
	State      string `gorm:"type:varchar(100)" json:"state"`
	PostalCode string `gorm:"type:varchar(20)" json:"postalCode"`
	Country    string `gorm:"type:varchar(60);not null;default:'IN'" json:"country"`
}
