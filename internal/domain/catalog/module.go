package catalog

import (
	"shop_engine/internal/domain/catalog/handler"
	"shop_engine/internal/domain/catalog/repository"
	"shop_engine/internal/domain/catalog/service"
	"shop_engine/internal/domain/offer"
	offerService "shop_engine/internal/domain/offer/service"
	"shop_engine/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// RepositoryName 购物车通过该名称获取 CatalogRepository
const RepositoryName = "catalog.repository"

// CatalogModule 商品目录模块
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 20
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	offers, err := registry.Resolve[offerService.OfferService](ctx, offer.ServiceName)
	if err != nil {
		return err
	}

	// 1. 依赖注入
	cRepo := repository.NewCatalogRepository(ctx.DB)
	cService := service.NewCatalogService(cRepo, offers, ctx.Metrics)
	cHandler := handler.NewCatalogHandler(cService)
	ctx.Provide(RepositoryName, cRepo)

	// 2. 路由注册
	setupRoutes(ctx.Router, cHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CatalogHandler) {
	// 商品浏览无需登录
	g := r.Group("/products")
	{
		g.GET("", h.ListProducts)
		g.GET("/:id", h.GetProduct)
	}
}
