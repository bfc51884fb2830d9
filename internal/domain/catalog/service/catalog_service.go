package service

import (
	"context"

	"shop_engine/internal/domain/catalog/model"
	"shop_engine/internal/domain/catalog/repository"
	offerModel "shop_engine/internal/domain/offer/model"
	"shop_engine/internal/domain/pricing"
	"shop_engine/pkg/metrics"

	"github.com/shopspring/decimal"
)

// PricedVariant 带活动价的规格
type PricedVariant struct {
	model.Variant
	OriginalPrice decimal.Decimal    `json:"originalPrice"`
	FinalPrice    decimal.Decimal    `json:"finalPrice"`
	HasOffer      bool               `json:"hasOffer"`
	OfferInfo     *pricing.OfferInfo `json:"offerInfo,omitempty"`
}

// PricedProduct 商品详情 / 列表项
type PricedProduct struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Variants     []PricedVariant `json:"variants"`
}

type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter, offset, limit int) ([]PricedProduct, int64, error)
	GetProduct(ctx context.Context, id string) (*PricedProduct, error)
}

type catalogService struct {
	repo    repository.CatalogRepository
	offers  pricing.OfferSource
	metrics *metrics.MetricsCollector
}

func NewCatalogService(repo repository.CatalogRepository, offers pricing.OfferSource, m *metrics.MetricsCollector) CatalogService {
	return &catalogService{repo: repo, offers: offers, metrics: m}
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, offset, limit int) ([]PricedProduct, int64, error) {
	products, total, err := s.repo.ListSellable(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	offers := pricing.LoadOffers(ctx, s.offers, s.metrics)
	priced := make([]PricedProduct, 0, len(products))
	for i := range products {
		priced = append(priced, priceProduct(&products[i], offers))
	}
	return priced, total, nil
}

// GetProduct 下架商品、下架分类都视为不存在，只返回上架规格
func (s *catalogService) GetProduct(ctx context.Context, id string) (*PricedProduct, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive || product.Category == nil || !product.Category.IsActive {
		return nil, model.ErrProductNotFound
	}

	active := product.Variants[:0:0]
	for _, v := range product.Variants {
		if v.IsActive {
			active = append(active, v)
		}
	}
	product.Variants = active

	priced := priceProduct(product, pricing.LoadOffers(ctx, s.offers, s.metrics))
	return &priced, nil
}

func priceProduct(p *model.Product, offers []offerModel.Offer) PricedProduct {
	out := PricedProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Variants:    make([]PricedVariant, 0, len(p.Variants)),
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	for _, v := range p.Variants {
		line := pricing.PriceLine(*p, v, 1, offers)
		out.Variants = append(out.Variants, PricedVariant{
			Variant:       v,
			OriginalPrice: line.OriginalPrice,
			FinalPrice:    line.FinalPrice,
			HasOffer:      line.HasOffer,
			OfferInfo:     line.OfferInfo,
		})
	}
	return out
}
