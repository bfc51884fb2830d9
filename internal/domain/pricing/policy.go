package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountPolicy 折扣策略，活动和优惠券共用
type DiscountPolicy interface {
	// DiscountPercent 折扣占原价的百分比，用于比较优劣
	DiscountPercent(price decimal.Decimal) decimal.Decimal
	// DiscountAmount 实际减免金额，不会超过原价
	DiscountAmount(price decimal.Decimal) decimal.Decimal
}

// Percentage 百分比折扣
type Percentage struct {
	Value decimal.Decimal
}

func (p Percentage) DiscountPercent(price decimal.Decimal) decimal.Decimal {
	return p.Value
}

func (p Percentage) DiscountAmount(price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return clamp(price.Mul(p.Value).Div(hundred), price).Round(2)
}

// Fixed 固定金额折扣
type Fixed struct {
	Value decimal.Decimal
}

func (f Fixed) DiscountPercent(price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return f.Value.Div(price).Mul(hundred)
}

func (f Fixed) DiscountAmount(price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return clamp(f.Value, price).Round(2)
}

// Capped 带封顶金额的折扣，优惠券 maxAmount 使用
type Capped struct {
	Policy DiscountPolicy
	Max    decimal.Decimal
}

func (c Capped) DiscountPercent(price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return c.DiscountAmount(price).Div(price).Mul(hundred)
}

func (c Capped) DiscountAmount(price decimal.Decimal) decimal.Decimal {
	return decimal.Min(c.Policy.DiscountAmount(price), c.Max).Round(2)
}

// PolicyFor 按类型构造策略，未知类型返回 false
func PolicyFor(kind string, value decimal.Decimal) (DiscountPolicy, bool) {
	switch kind {
	case "percentage":
		return Percentage{Value: value}, true
	case "fixed":
		return Fixed{Value: value}, true
	default:
		return nil, false
	}
}

// Candidate 参与比较的折扣
type Candidate struct {
	ID     string
	Policy DiscountPolicy
}

// Best 选出折扣百分比最高的候选，百分比相同时取 ID 最小者，结果与输入顺序无关
func Best(price decimal.Decimal, candidates []Candidate) (Candidate, bool) {
	var (
		best    Candidate
		bestPct decimal.Decimal
		found   bool
	)
	for _, c := range candidates {
		pct := c.Policy.DiscountPercent(price)
		switch {
		case !found:
		case pct.GreaterThan(bestPct):
		case pct.Equal(bestPct) && c.ID < best.ID:
		default:
			continue
		}
		best, bestPct, found = c, pct, true
	}
	return best, found
}

func clamp(amount, limit decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(amount, limit)
}
