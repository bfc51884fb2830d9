package repository

import (
	"context"
	"errors"

	"shop_engine/internal/domain/address/model"
	"shop_engine/pkg/database"

	"gorm.io/gorm"
)

type AddressRepository interface {
	// GetByIDForUser 地址不属于该用户时同样返回 ErrAddressNotFound
	GetByIDForUser(ctx context.Context, id, userID string) (*model.Address, error)
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) GetByIDForUser(ctx context.Context, id, userID string) (*model.Address, error) {
	var address model.Address
	err := database.Conn(ctx, r.db).
		Where("id = ? AND user_id = ?", id, userID).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAddressNotFound
		}
		return nil, err
	}
	return &address, nil
}
