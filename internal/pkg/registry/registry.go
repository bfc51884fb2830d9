package registry

import (
	"fmt"
	"sort"

	"shop_engine/internal/pkg/events"
	"shop_engine/internal/pkg/push"
	"shop_engine/pkg/cache"
	"shop_engine/pkg/database"
	"shop_engine/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
type ModuleContext struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Router     *gin.Engine
	Cache      cache.CacheService
	Transactor database.Transactor
	Metrics    *metrics.MetricsCollector
	Publisher  events.Publisher
	Notifier   push.Notifier

	// services 模块之间共享的服务，先初始化的模块 Provide，后初始化的模块 Resolve
	services map[string]interface{}
}

// Provide 暴露服务给其他模块
func (c *ModuleContext) Provide(name string, svc interface{}) {
	if c.services == nil {
		c.services = make(map[string]interface{})
	}
	c.services[name] = svc
}

// Resolve 获取其他模块暴露的服务
func Resolve[T any](c *ModuleContext, name string) (T, error) {
	var zero T
	svc, ok := c.services[name]
	if !ok {
		return zero, fmt.Errorf("service %q not provided, check module priority", name)
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("service %q has type %T", name, svc)
	}
	return typed, nil
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	// 例如：offer 模块需要先于 catalog、cart 模块初始化
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 按优先级初始化所有模块，优先级相同时按名称排序
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})

	// 按顺序初始化
	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return fmt.Errorf("init module %s: %w", module.Name(), err)
		}
	}

	return nil
}
