package service

import (
	"context"

	"shop_engine/internal/domain/address/model"
	"shop_engine/internal/domain/address/repository"
)

type AddressService interface {
	GetAddress(ctx context.Context, userID, addressID string) (*model.Address, error)
}

type addressService struct {
	repo repository.AddressRepository
}

func NewAddressService(repo repository.AddressRepository) AddressService {
	return &addressService{repo: repo}
}

func (s *addressService) GetAddress(ctx context.Context, userID, addressID string) (*model.Address, error) {
	return s.repo.GetByIDForUser(ctx, addressID, userID)
}
