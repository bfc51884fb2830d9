package inventory

import (
	"shop_engine/internal/domain/inventory/handler"
	"shop_engine/internal/domain/inventory/repository"
	"shop_engine/internal/domain/inventory/service"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceName 其他模块通过该名称获取 InventoryService
const ServiceName = "inventory.service"

// InventoryModule 库存模块
type InventoryModule struct{}

func init() {
	registry.Register(&InventoryModule{})
}

func (m *InventoryModule) Name() string {
	return "inventory"
}

func (m *InventoryModule) Priority() int {
	return 20
}

func (m *InventoryModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	iRepo := repository.NewInventoryRepository(ctx.DB)
	iService := service.NewInventoryService(iRepo, ctx.Metrics)
	iHandler := handler.NewInventoryHandler(iService)
	ctx.Provide(ServiceName, iService)

	// 2. 路由注册
	setupRoutes(ctx.Router, iHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.InventoryHandler) {
	g := r.Group("/inventory")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("/check", h.CheckInventory)
	}
}
