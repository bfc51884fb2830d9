package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "shop_engine/docs"
	"shop_engine/internal/pkg/config"
	"shop_engine/internal/pkg/events"
	"shop_engine/internal/pkg/middleware"
	"shop_engine/internal/pkg/push"
	"shop_engine/internal/pkg/registry"
	"shop_engine/internal/pkg/worker"
	"shop_engine/pkg/cache"
	"shop_engine/pkg/database"
	"shop_engine/pkg/logger"
	"shop_engine/pkg/metrics"

	// 业务模块在 init 中注册
	_ "shop_engine/internal/domain/address"
	_ "shop_engine/internal/domain/cart"
	_ "shop_engine/internal/domain/catalog"
	_ "shop_engine/internal/domain/checkout"
	_ "shop_engine/internal/domain/coupon"
	_ "shop_engine/internal/domain/inventory"
	_ "shop_engine/internal/domain/offer"
	_ "shop_engine/internal/domain/order"
	_ "shop_engine/internal/domain/wallet"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Shop Engine API
// @version 1.0
// @description 商品定价、购物车结算与订单生命周期
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 配置与日志
	config.LoadConfig()
	cfg := config.GlobalConfig
	if err := logger.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	// 2. 基础设施
	db := database.InitDatabase()
	rdb := database.InitRedis()
	collector := metrics.GetGlobalCollector()

	publisher := events.New(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
	defer publisher.Close()

	pool := worker.NewWorkerPool(cfg.Push.Workers, cfg.Push.QueueSize)
	pool.Start()
	defer pool.Stop()

	var notifier push.Notifier = push.LogNotifier{}
	if pushSvc, err := push.NewAliyunPushService(cfg.Push); err != nil {
		logger.Log.Warn("push disabled, notifications are only logged", zap.Error(err))
	} else {
		notifier = push.NewPoolNotifier(pushSvc, pool)
	}

	// 3. 路由与中间件
	r := gin.New()
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Trace-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(50), 100)))
	r.Use(collector.Middleware())

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		}
		if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = "unreachable"
		}
		if status["status"] != "ok" {
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		c.JSON(http.StatusOK, status)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 业务模块
	moduleCtx := &registry.ModuleContext{
		DB:         db,
		Redis:      rdb,
		Router:     r,
		Cache:      cache.NewRedisCache(rdb),
		Transactor: database.NewTransactor(db),
		Metrics:    collector,
		Publisher:  publisher,
		Notifier:   notifier,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("Failed to init modules", zap.Error(err))
	}

	// 5. 启动与优雅退出
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}
	go func() {
		logger.Log.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Log.Warn("Redis close failed", zap.Error(err))
	}
	logger.Log.Info("Server exited")
}
