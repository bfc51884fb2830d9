package service

import (
	"context"
	"fmt"

	"shop_engine/internal/domain/cart/model"
	"shop_engine/internal/domain/cart/repository"
	catalogModel "shop_engine/internal/domain/catalog/model"
	catalogRepo "shop_engine/internal/domain/catalog/repository"
	inventoryModel "shop_engine/internal/domain/inventory/model"
	inventoryService "shop_engine/internal/domain/inventory/service"
	"shop_engine/internal/domain/pricing"
	"shop_engine/pkg/database"
	"shop_engine/pkg/logger"
	"shop_engine/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricedCart 定价后的购物车
type PricedCart struct {
	CartID   string               `json:"cartId"`
	Version  int                  `json:"version"`
	Lines    []pricing.PricedLine `json:"lines"`
	Subtotal decimal.Decimal      `json:"subtotal"`
}

type AddItemInput struct {
	ProductID string
	VariantID string
	Quantity  int
}

type CartService interface {
	GetCart(ctx context.Context, userID string) (*PricedCart, error)
	// PriceCart 丢弃不可售的行 (商品 / 分类 / 规格下架或缺失、库存为 0)，其余按最优活动定价
	PriceCart(ctx context.Context, userID string) ([]pricing.PricedLine, error)
	AddItem(ctx context.Context, userID string, input AddItemInput) (*PricedCart, error)
	UpdateItem(ctx context.Context, userID, itemID string, qty int) (*PricedCart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*PricedCart, error)
	// Clear 清空购物车，ctx 中有事务时加入该事务
	Clear(ctx context.Context, userID string) error
}

type cartService struct {
	repo      repository.CartRepository
	catalog   catalogRepo.CatalogRepository
	inventory inventoryService.InventoryService
	offers    pricing.OfferSource
	tx        database.Transactor
	metrics   *metrics.MetricsCollector
}

func NewCartService(
	repo repository.CartRepository,
	catalog catalogRepo.CatalogRepository,
	inventory inventoryService.InventoryService,
	offers pricing.OfferSource,
	tx database.Transactor,
	m *metrics.MetricsCollector,
) CartService {
	return &cartService{
		repo:      repo,
		catalog:   catalog,
		inventory: inventory,
		offers:    offers,
		tx:        tx,
		metrics:   m,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID string) (*PricedCart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

func (s *cartService) PriceCart(ctx context.Context, userID string) ([]pricing.PricedLine, error) {
	priced, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return priced.Lines, nil
}

func (s *cartService) AddItem(ctx context.Context, userID string, input AddItemInput) (*PricedCart, error) {
	if input.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}
	if err := s.ensureVariantOfProduct(ctx, input.ProductID, input.VariantID); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.repo.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		// 1. 合并同规格行后校验库存
		existing := cart.FindVariant(input.VariantID)
		qty := input.Quantity
		if existing != nil {
			qty += existing.Quantity
		}
		if err := s.checkStock(ctx, input.VariantID, qty); err != nil {
			return err
		}

		// 2. 写入购物车行
		if existing != nil {
			err = s.repo.UpdateItemQuantity(ctx, existing.ID, qty)
		} else {
			err = s.repo.CreateItem(ctx, &model.CartItem{
				CartID:    cart.ID,
				ProductID: input.ProductID,
				VariantID: input.VariantID,
				Quantity:  qty,
			})
		}
		if err != nil {
			return err
		}
		return s.repo.BumpVersion(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, itemID string, qty int) (*PricedCart, error) {
	if qty < 1 {
		return nil, model.ErrInvalidQuantity
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.repo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return model.ErrCartItemNotFound
		}
		item := cart.FindItem(itemID)
		if item == nil {
			return model.ErrCartItemNotFound
		}

		if err := s.checkStock(ctx, item.VariantID, qty); err != nil {
			return err
		}
		if err := s.repo.UpdateItemQuantity(ctx, item.ID, qty); err != nil {
			return err
		}
		return s.repo.BumpVersion(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID string) (*PricedCart, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.repo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return model.ErrCartItemNotFound
		}
		if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
			return err
		}
		return s.repo.BumpVersion(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.repo.GetByUserID(ctx, userID)
		if err != nil || cart == nil {
			return err
		}
		if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		return s.repo.BumpVersion(ctx, cart.ID)
	})
}

// price 购物车定价，活动在一次请求内只查询一次
func (s *cartService) price(ctx context.Context, cart *model.Cart) (*PricedCart, error) {
	out := &PricedCart{Lines: []pricing.PricedLine{}, Subtotal: decimal.Zero}
	if cart == nil || len(cart.Items) == 0 {
		if cart != nil {
			out.CartID, out.Version = cart.ID, cart.Version
		}
		return out, nil
	}
	out.CartID, out.Version = cart.ID, cart.Version

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	byID := make(map[string]*catalogModel.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	offers := pricing.LoadOffers(ctx, s.offers, s.metrics)
	for _, item := range cart.Items {
		product := byID[item.ProductID]
		variant := findVariant(product, item.VariantID)
		if !product.Sellable(variant) || variant.Stock <= 0 {
			logger.Log.Debug("cart line dropped",
				zap.String("cart_id", cart.ID),
				zap.String("variant_id", item.VariantID),
			)
			continue
		}
		out.Lines = append(out.Lines, pricing.PriceLine(*product, *variant, item.Quantity, offers))
	}
	out.Subtotal = pricing.Subtotal(out.Lines)
	return out, nil
}

func (s *cartService) ensureVariantOfProduct(ctx context.Context, productID, variantID string) error {
	products, err := s.catalog.GetProductsByIDs(ctx, []string{productID})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return catalogModel.ErrProductNotFound
	}
	if findVariant(&products[0], variantID) == nil {
		return catalogModel.ErrVariantNotFound
	}
	return nil
}

// checkStock 加购时的库存校验只做提示，不预占库存
func (s *cartService) checkStock(ctx context.Context, variantID string, qty int) error {
	check, err := s.inventory.CheckInventory(ctx, variantID, qty)
	if err != nil {
		return err
	}
	if !check.Available {
		return &inventoryModel.RejectionError{Check: *check}
	}
	return nil
}

func findVariant(p *catalogModel.Product, variantID string) *catalogModel.Variant {
	if p == nil {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
