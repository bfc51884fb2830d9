package pricing

import (
	catalogModel "shop_engine/internal/domain/catalog/model"
	offerModel "shop_engine/internal/domain/offer/model"

	"github.com/shopspring/decimal"
)

// Resolution 单个规格的定价结果
type Resolution struct {
	Offer    *offerModel.Offer `json:"-"`
	Original decimal.Decimal   `json:"originalPrice"`
	Discount decimal.Decimal   `json:"discount"`
	Final    decimal.Decimal   `json:"finalPrice"`
}

// HasOffer 是否命中活动
func (r Resolution) HasOffer() bool {
	return r.Offer != nil
}

// ResolveOffer 在生效中的活动里为规格挑选最优折扣
// 商品或分类定向活动优先，没有命中时才考虑全场活动。调用方负责传入当前生效的活动，这里不再校验时间窗口。
func ResolveOffer(variant catalogModel.Variant, productID, categoryID string, offers []offerModel.Offer) Resolution {
	price := variant.Price.Round(2)
	res := Resolution{Original: price, Discount: decimal.Zero, Final: price}
	if !price.IsPositive() || len(offers) == 0 {
		return res
	}

	var specific, global []Candidate
	byID := make(map[string]*offerModel.Offer, len(offers))
	for i := range offers {
		o := &offers[i]
		policy, ok := PolicyFor(o.Type, o.DiscountValue)
		if !ok {
			continue
		}
		c := Candidate{ID: o.ID, Policy: policy}
		switch {
		case o.TargetsProduct(productID), o.TargetsCategory(categoryID):
			specific = append(specific, c)
		case o.IsGlobal():
			global = append(global, c)
		default:
			continue
		}
		byID[o.ID] = o
	}

	pool := specific
	if len(pool) == 0 {
		pool = global
	}
	best, ok := Best(price, pool)
	if !ok {
		return res
	}

	amount := best.Policy.DiscountAmount(price)
	res.Offer = byID[best.ID]
	res.Discount = amount
	res.Final = decimal.Max(price.Sub(amount), decimal.Zero).Round(2)
	return res
}
