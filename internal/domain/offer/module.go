package offer

import (
	"shop_engine/internal/domain/offer/handler"
	"shop_engine/internal/domain/offer/repository"
	"shop_engine/internal/domain/offer/service"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceName 其他模块通过该名称获取 OfferService
const ServiceName = "offer.service"

// OfferModule 促销活动模块
type OfferModule struct{}

func init() {
	registry.Register(&OfferModule{})
}

func (m *OfferModule) Name() string {
	return "offer"
}

func (m *OfferModule) Priority() int {
	// 定价依赖活动，需先于 catalog / cart / checkout 初始化
	return 10
}

func (m *OfferModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	oRepo := repository.NewOfferRepository(ctx.DB)
	oService := service.NewOfferService(oRepo)
	oHandler := handler.NewOfferHandler(oService)
	ctx.Provide(ServiceName, oService)

	// 2. 路由注册
	setupRoutes(ctx.Router, oHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OfferHandler) {
	admin := r.Group("/admin/offers")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("", h.CreateOffer)
		admin.GET("", h.ListOffers)
		admin.GET("/:id", h.GetOffer)
		admin.PUT("/:id", h.UpdateOffer)
		admin.PATCH("/:id/toggle", h.ToggleOffer)
	}
}
