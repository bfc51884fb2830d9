package wallet

import (
	"shop_engine/internal/domain/wallet/handler"
	"shop_engine/internal/domain/wallet/repository"
	"shop_engine/internal/domain/wallet/service"
	"shop_engine/internal/pkg/config"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceName 其他模块通过该名称获取 WalletService
const ServiceName = "wallet.service"

// WalletModule 钱包模块
type WalletModule struct{}

func init() {
	registry.Register(&WalletModule{})
}

func (m *WalletModule) Name() string {
	return "wallet"
}

func (m *WalletModule) Priority() int {
	return 10
}

func (m *WalletModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	wRepo := repository.NewWalletRepository(ctx.DB)
	wService := service.NewWalletService(wRepo, ctx.Transactor, ctx.Metrics, config.GlobalConfig.Wallet.Currency)
	wHandler := handler.NewWalletHandler(wService)
	ctx.Provide(ServiceName, wService)

	// 2. 路由注册
	setupRoutes(ctx.Router, wHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.WalletHandler) {
	g := r.Group("/wallet")
	g.Use(middleware.AuthMiddleware())
	{
		g.GET("", h.GetWallet)
		g.GET("/transactions", h.ListTransactions)
	}

	admin := r.Group("/admin/wallets")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/:userId/topup", h.TopUp)
	}
}
