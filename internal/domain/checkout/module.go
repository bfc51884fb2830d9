package checkout

import (
	"shop_engine/internal/domain/address"
	addressService "shop_engine/internal/domain/address/service"
	"shop_engine/internal/domain/cart"
	cartService "shop_engine/internal/domain/cart/service"
	"shop_engine/internal/domain/checkout/handler"
	"shop_engine/internal/domain/checkout/service"
	"shop_engine/internal/domain/coupon"
	couponService "shop_engine/internal/domain/coupon/service"
	"shop_engine/internal/pkg/config"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceName 订单模块通过该名称获取 CheckoutService
const ServiceName = "checkout.service"

// CheckoutModule 结算模块
type CheckoutModule struct{}

func init() {
	registry.Register(&CheckoutModule{})
}

func (m *CheckoutModule) Name() string {
	return "checkout"
}

func (m *CheckoutModule) Priority() int {
	return 40
}

func (m *CheckoutModule) Init(ctx *registry.ModuleContext) error {
	carts, err := registry.Resolve[cartService.CartService](ctx, cart.ServiceName)
	if err != nil {
		return err
	}
	addresses, err := registry.Resolve[addressService.AddressService](ctx, address.ServiceName)
	if err != nil {
		return err
	}
	coupons, err := registry.Resolve[couponService.CouponService](ctx, coupon.ServiceName)
	if err != nil {
		return err
	}

	// 1. 依赖注入
	cService := service.NewCheckoutService(carts, addresses, coupons, ctx.Cache, config.GlobalConfig.Checkout.DraftTTL, ctx.Metrics)
	cHandler := handler.NewCheckoutHandler(cService)
	ctx.Provide(ServiceName, cService)

	// 2. 路由注册
	setupRoutes(ctx.Router, cHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CheckoutHandler) {
	g := r.Group("/checkout")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("/preview", h.Preview)
		g.GET("/drafts/:id", h.GetDraft)
	}
}
