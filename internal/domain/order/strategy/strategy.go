package strategy

import (
	"context"
	"fmt"

	"shop_engine/internal/domain/order/model"
	walletService "shop_engine/internal/domain/wallet/service"
)

// PaymentStrategy 下单时按支付方式结算，在下单事务内执行
type PaymentStrategy interface {
	Method() string

	// Settle 返回订单的初始支付状态
	Settle(ctx context.Context, order *model.Order, confirmed bool) (string, error)
}

// Registry 支付方式 -> 策略
type Registry map[string]PaymentStrategy

func NewRegistry(strategies ...PaymentStrategy) Registry {
	r := make(Registry, len(strategies))
	for _, s := range strategies {
		r[s.Method()] = s
	}
	return r
}

func (r Registry) Get(method string) (PaymentStrategy, error) {
	s, ok := r[method]
	if !ok {
		return nil, model.ErrInvalidPaymentMethod
	}
	return s, nil
}

// CODStrategy 货到付款，签收时才变为已支付
type CODStrategy struct{}

func (CODStrategy) Method() string { return model.MethodCOD }

func (CODStrategy) Settle(ctx context.Context, order *model.Order, confirmed bool) (string, error) {
	return model.PaymentPending, nil
}

// OnlineStrategy 网关支付由外部完成，这里只接收确认结果
type OnlineStrategy struct{}

func (OnlineStrategy) Method() string { return model.MethodOnline }

func (OnlineStrategy) Settle(ctx context.Context, order *model.Order, confirmed bool) (string, error) {
	if !confirmed {
		return "", model.ErrPaymentNotConfirmed
	}
	return model.PaymentPaid, nil
}

// WalletStrategy 钱包余额支付
type WalletStrategy struct {
	wallet walletService.WalletService
}

func NewWalletStrategy(wallet walletService.WalletService) *WalletStrategy {
	return &WalletStrategy{wallet: wallet}
}

func (s *WalletStrategy) Method() string { return model.MethodWallet }

func (s *WalletStrategy) Settle(ctx context.Context, order *model.Order, confirmed bool) (string, error) {
	if _, err := s.wallet.Pay(ctx, order.UserID, order.TotalAmount, order.ID); err != nil {
		return "", fmt.Errorf("wallet payment: %w", err)
	}
	return model.PaymentPaid, nil
}
