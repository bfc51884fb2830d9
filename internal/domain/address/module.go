package address

import (
	"shop_engine/internal/domain/address/repository"
	"shop_engine/internal/domain/address/service"
	"shop_engine/internal/pkg/registry"
)

// ServiceName 其他模块通过该名称获取 AddressService
const ServiceName = "address.service"

// AddressModule 收货地址模块，地址的增删改由用户资料服务负责，这里不注册路由
type AddressModule struct{}

func init() {
	registry.Register(&AddressModule{})
}

func (m *AddressModule) Name() string {
	return "address"
}

func (m *AddressModule) Priority() int {
	return 10
}

func (m *AddressModule) Init(ctx *registry.ModuleContext) error {
	aRepo := repository.NewAddressRepository(ctx.DB)
	ctx.Provide(ServiceName, service.NewAddressService(aRepo))
	return nil
}
