package push

import (
	"context"
	"fmt"

	"shop_engine/internal/pkg/worker"
	"shop_engine/pkg/logger"

	"go.uber.org/zap"
)

// Notification 发给顾客的订单通知
type Notification struct {
	UserID  string
	OrderID string
	Title   string
	Body    string
	Extra   map[string]string
}

// Notifier 订单通知，调用方不等待结果
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type pushTask struct {
	svc PushService
	n   Notification
}

func (t pushTask) Name() string {
	return fmt.Sprintf("push:%s", t.n.OrderID)
}

func (t pushTask) Run(ctx context.Context) error {
	ext := map[string]string{"orderId": t.n.OrderID}
	for k, v := range t.n.Extra {
		ext[k] = v
	}
	return t.svc.PushToAccount(t.n.UserID, t.n.Title, t.n.Body, ext)
}

// PoolNotifier 通过 worker pool 异步推送，失败自动重试
type PoolNotifier struct {
	svc  PushService
	pool *worker.WorkerPool
}

func NewPoolNotifier(svc PushService, pool *worker.WorkerPool) *PoolNotifier {
	return &PoolNotifier{svc: svc, pool: pool}
}

func (n *PoolNotifier) Notify(ctx context.Context, notification Notification) {
	if !n.pool.AddTask(pushTask{svc: n.svc, n: notification}) {
		logger.Log.Warn("notification dropped", zap.String("order_id", notification.OrderID))
	}
}

// LogNotifier 未配置推送时只记录日志
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	logger.Log.Info("notification",
		zap.String("user_id", n.UserID),
		zap.String("order_id", n.OrderID),
		zap.String("title", n.Title),
	)
}
