package service

import (
	"context"
	"errors"
	"fmt"

	catalogModel "shop_engine/internal/domain/catalog/model"
	"shop_engine/internal/domain/inventory/model"
	"shop_engine/internal/domain/inventory/repository"
	"shop_engine/pkg/logger"
	"shop_engine/pkg/metrics"

	"go.uber.org/zap"
)

type InventoryService interface {
	// CheckInventory 依次校验，第一个失败的原因生效
	CheckInventory(ctx context.Context, variantID string, qty int) (*model.Check, error)
	// Reserve 扣减库存，ctx 中有事务时加入该事务
	Reserve(ctx context.Context, variantID string, qty int) error
	Restock(ctx context.Context, variantID string, qty int) error
}

type inventoryService struct {
	repo    repository.InventoryRepository
	metrics *metrics.MetricsCollector
}

func NewInventoryService(repo repository.InventoryRepository, m *metrics.MetricsCollector) InventoryService {
	return &inventoryService{repo: repo, metrics: m}
}

func (s *inventoryService) CheckInventory(ctx context.Context, variantID string, qty int) (*model.Check, error) {
	if qty < 1 {
		return nil, model.ErrInvalidQuantity
	}

	check := &model.Check{VariantID: variantID, Requested: qty}
	variant, err := s.repo.GetVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, catalogModel.ErrVariantNotFound) {
			return s.reject(check, model.ReasonVariantNotFound, "Variant not found"), nil
		}
		return nil, fmt.Errorf("load variant: %w", err)
	}

	stock := variant.Stock
	check.AvailableStock = &stock

	switch {
	case !variant.IsActive:
		return s.reject(check, model.ReasonVariantInactive, "Variant is not available"), nil
	case stock <= 0:
		return s.reject(check, model.ReasonOutOfStock, "Out of stock"), nil
	case qty > stock:
		return s.reject(check, model.ReasonInsufficientStock, fmt.Sprintf("Only %d left in stock", stock)), nil
	case qty > model.MaxPerOrder:
		return s.reject(check, model.ReasonExceedsMaxPerOrder, fmt.Sprintf("Maximum %d per order", model.MaxPerOrder)), nil
	}

	check.Available = true
	check.Message = "In stock"
	return check, nil
}

func (s *inventoryService) Reserve(ctx context.Context, variantID string, qty int) error {
	// 1. 权威校验
	check, err := s.CheckInventory(ctx, variantID, qty)
	if err != nil {
		return err
	}
	if !check.Available {
		return &model.RejectionError{Check: *check}
	}

	// 2. 条件扣减，校验与扣减之间被抢购时返回库存不足
	ok, err := s.repo.DecrementStock(ctx, variantID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if !ok {
		check.Available = false
		check.Reason = model.ReasonInsufficientStock
		check.Message = "Stock changed, please retry"
		s.metrics.RecordInventoryRejection(model.ReasonInsufficientStock)
		return &model.RejectionError{Check: *check}
	}

	logger.Log.Debug("stock reserved", zap.String("variant_id", variantID), zap.Int("qty", qty))
	return nil
}

func (s *inventoryService) Restock(ctx context.Context, variantID string, qty int) error {
	if qty < 1 {
		return model.ErrInvalidQuantity
	}
	if err := s.repo.IncrementStock(ctx, variantID, qty); err != nil {
		return fmt.Errorf("restock variant %s: %w", variantID, err)
	}
	logger.Log.Info("stock restored", zap.String("variant_id", variantID), zap.Int("qty", qty))
	return nil
}

func (s *inventoryService) reject(check *model.Check, reason, message string) *model.Check {
	s.metrics.RecordInventoryRejection(reason)
	check.Available = false
	check.Reason = reason
	check.Message = message
	return check
}
