package coupon

import (
	"shop_engine/internal/domain/coupon/handler"
	"shop_engine/internal/domain/coupon/repository"
	"shop_engine/internal/domain/coupon/service"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceName 其他模块通过该名称获取 CouponService
const ServiceName = "coupon.service"

// CouponModule 优惠券模块
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 10
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	cRepo := repository.NewCouponRepository(ctx.DB)
	cService := service.NewCouponService(cRepo, ctx.Metrics)
	cHandler := handler.NewCouponHandler(cService)
	ctx.Provide(ServiceName, cService)

	// 2. 路由注册
	setupRoutes(ctx.Router, cHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CouponHandler) {
	// 需要管理员权限的路由组
	admin := r.Group("/admin/coupons")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("", h.CreateCoupon)
		admin.GET("", h.ListCoupons)
		admin.GET("/:id", h.GetCoupon)
		admin.PUT("/:id", h.UpdateCoupon)
		admin.PATCH("/:id/toggle", h.ToggleCoupon)
	}
}
