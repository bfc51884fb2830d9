package cart

import (
	"shop_engine/internal/domain/cart/handler"
	"shop_engine/internal/domain/cart/repository"
	"shop_engine/internal/domain/cart/service"
	"shop_engine/internal/domain/catalog"
	catalogRepo "shop_engine/internal/domain/catalog/repository"
	"shop_engine/internal/domain/inventory"
	inventoryService "shop_engine/internal/domain/inventory/service"
	"shop_engine/internal/domain/offer"
	offerService "shop_engine/internal/domain/offer/service"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceName 结算与订单模块通过该名称获取 CartService
const ServiceName = "cart.service"

// CartModule 购物车模块
type CartModule struct{}

func init() {
	registry.Register(&CartModule{})
}

func (m *CartModule) Name() string {
	return "cart"
}

func (m *CartModule) Priority() int {
	return 30
}

func (m *CartModule) Init(ctx *registry.ModuleContext) error {
	offers, err := registry.Resolve[offerService.OfferService](ctx, offer.ServiceName)
	if err != nil {
		return err
	}
	products, err := registry.Resolve[catalogRepo.CatalogRepository](ctx, catalog.RepositoryName)
	if err != nil {
		return err
	}
	stock, err := registry.Resolve[inventoryService.InventoryService](ctx, inventory.ServiceName)
	if err != nil {
		return err
	}

	// 1. 依赖注入
	cRepo := repository.NewCartRepository(ctx.DB)
	cService := service.NewCartService(cRepo, products, stock, offers, ctx.Transactor, ctx.Metrics)
	cHandler := handler.NewCartHandler(cService)
	ctx.Provide(ServiceName, cService)

	// 2. 路由注册
	setupRoutes(ctx.Router, cHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CartHandler) {
	g := r.Group("/cart")
	g.Use(middleware.AuthMiddleware())
	{
		g.GET("", h.GetCart)
		g.POST("/items", h.AddItem)
		g.PUT("/items/:id", h.UpdateItem)
		g.DELETE("/items/:id", h.RemoveItem)
	}
}
