package pricing

import (
	catalogModel "shop_engine/internal/domain/catalog/model"
	offerModel "shop_engine/internal/domain/offer/model"

	"github.com/shopspring/decimal"
)

// OfferInfo 命中活动的展示信息
type OfferInfo struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// PricedLine 已定价的购物车行
type PricedLine struct {
	ProductID     string               `json:"productId"`
	ProductName   string               `json:"productName"`
	CategoryID    string               `json:"categoryId"`
	Variant       catalogModel.Variant `json:"variant"`
	Quantity      int                  `json:"quantity"`
	OriginalPrice decimal.Decimal      `json:"originalPrice"`
	FinalPrice    decimal.Decimal      `json:"finalPrice"`
	HasOffer      bool                 `json:"hasOffer"`
	OfferInfo     *OfferInfo           `json:"offerInfo,omitempty"`
	LineTotal     decimal.Decimal      `json:"lineTotal"`
}

// PriceLine 对商品规格按数量定价，行金额 = 折后单价 × 数量
func PriceLine(product catalogModel.Product, variant catalogModel.Variant, quantity int, offers []offerModel.Offer) PricedLine {
	res := ResolveOffer(variant, product.ID, product.CategoryID, offers)

	line := PricedLine{
		ProductID:     product.ID,
		ProductName:   product.Name,
		CategoryID:    product.CategoryID,
		Variant:       variant,
		Quantity:      quantity,
		OriginalPrice: res.Original,
		FinalPrice:    res.Final,
		HasOffer:      res.HasOffer(),
		LineTotal:     res.Final.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}
	if res.HasOffer() {
		line.OfferInfo = &OfferInfo{
			ID:             res.Offer.ID,
			Name:           res.Offer.Name,
			Type:           res.Offer.Type,
			DiscountValue:  res.Offer.DiscountValue,
			DiscountAmount: res.Discount,
		}
	}
	return line
}

// Subtotal 各行金额之和，保留两位小数
func Subtotal(lines []PricedLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal)
	}
	return sum.Round(2)
}
