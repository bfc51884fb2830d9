package pricing

import (
	"context"

	offerModel "shop_engine/internal/domain/offer/model"
	"shop_engine/pkg/logger"
	"shop_engine/pkg/metrics"

	"go.uber.org/zap"
)

// OfferSource 生效中活动的来源，每次请求实时查询
type OfferSource interface {
	ActiveOffers(ctx context.Context) ([]offerModel.Offer, error)
}

// LoadOffers 查询失败时记日志并按无活动处理，定价页面不因此报错
func LoadOffers(ctx context.Context, src OfferSource, m *metrics.MetricsCollector) []offerModel.Offer {
	if src == nil {
		return nil
	}
	offers, err := src.ActiveOffers(ctx)
	if err != nil {
		m.RecordOfferLookupFailure()
		logger.Log.Warn("active offer lookup failed, pricing without offers", zap.Error(err))
		return nil
	}
	return offers
}
