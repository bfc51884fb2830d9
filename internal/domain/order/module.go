package order

import (
	"shop_engine/internal/domain/cart"
	cartService "shop_engine/internal/domain/cart/service"
	"shop_engine/internal/domain/checkout"
	checkoutService "shop_engine/internal/domain/checkout/service"
	"shop_engine/internal/domain/inventory"
	inventoryService "shop_engine/internal/domain/inventory/service"
	"shop_engine/internal/domain/order/handler"
	"shop_engine/internal/domain/order/repository"
	"shop_engine/internal/domain/order/service"
	"shop_engine/internal/domain/order/strategy"
	"shop_engine/internal/domain/wallet"
	walletService "shop_engine/internal/domain/wallet/service"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 50
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	drafts, err := registry.Resolve[checkoutService.CheckoutService](ctx, checkout.ServiceName)
	if err != nil {
		return err
	}
	carts, err := registry.Resolve[cartService.CartService](ctx, cart.ServiceName)
	if err != nil {
		return err
	}
	stock, err := registry.Resolve[inventoryService.InventoryService](ctx, inventory.ServiceName)
	if err != nil {
		return err
	}
	wallets, err := registry.Resolve[walletService.WalletService](ctx, wallet.ServiceName)
	if err != nil {
		return err
	}

	// 1. 支付策略
	payments := strategy.NewRegistry(
		strategy.CODStrategy{},
		strategy.OnlineStrategy{},
		strategy.NewWalletStrategy(wallets),
	)

	// 2. 依赖注入
	oRepo := repository.NewOrderRepository(ctx.DB)
	oService := service.NewOrderService(oRepo, drafts, carts, stock, wallets, payments, ctx.Transactor, ctx.Publisher, ctx.Notifier, ctx.Metrics)
	oHandler := handler.NewOrderHandler(oService)

	// 3. 路由注册
	setupRoutes(ctx.Router, oHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", middleware.PlaceOrderRateLimit(), h.PlaceOrder)
		orders.GET("", h.ListMyOrders)
		orders.GET("/:id", h.GetMyOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/items/:itemId/cancel", h.CancelItem)
		orders.POST("/:id/return", h.RequestReturn)
	}

	admin := r.Group("/admin/orders")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("", h.ListOrders)
		admin.GET("/:id", h.GetOrder)
		admin.GET("/:id/history", h.GetHistory)
		admin.PATCH("/:id/status", h.UpdateOrderStatus)
		admin.PATCH("/:id/items/:itemId/status", h.UpdateItemStatus)
	}
}
