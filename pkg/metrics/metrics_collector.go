package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 业务指标
	ordersPlacedTotal        *prometheus.CounterVec
	orderTransitionsTotal    *prometheus.CounterVec
	refundsTotal             prometheus.Counter
	refundAmountTotal        prometheus.Counter
	couponRejectionsTotal    *prometheus.CounterVec
	inventoryRejectionsTotal *prometheus.CounterVec
	offerLookupFailuresTotal prometheus.Counter
	checkoutDraftsCreated    prometheus.Counter
}

// NewMetricsCollector 创建指标收集器，reg 为 nil 时注册到默认 Registerer
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ordersPlacedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_placed_total",
				Help: "Total number of orders placed",
			},
			[]string{"payment_method"},
		),

		orderTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_status_transitions_total",
				Help: "Applied order and item status transitions",
			},
			[]string{"level", "from", "to"},
		),

		refundsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wallet_refunds_total",
				Help: "Number of wallet refund transactions",
			},
		),

		refundAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wallet_refund_amount_total",
				Help: "Sum of refunded amounts",
			},
		),

		couponRejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_rejections_total",
				Help: "Coupon applications rejected by reason",
			},
			[]string{"reason"},
		),

		inventoryRejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_rejections_total",
				Help: "Inventory checks rejected by reason",
			},
			[]string{"reason"},
		),

		offerLookupFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "offer_lookup_failures_total",
				Help: "Active offer lookups that failed and degraded to no offers",
			},
		),

		checkoutDraftsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "checkout_drafts_created_total",
				Help: "Checkout drafts stored",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordOrderPlaced 记录下单，nil 收集器上的 Record 调用均为空操作
func (m *MetricsCollector) RecordOrderPlaced(paymentMethod string) {
	if m == nil {
		return
	}
	m.ordersPlacedTotal.WithLabelValues(paymentMethod).Inc()
}

// RecordTransition 记录状态流转，level 为 order 或 item
func (m *MetricsCollector) RecordTransition(level, from, to string) {
	if m == nil {
		return
	}
	m.orderTransitionsTotal.WithLabelValues(level, from, to).Inc()
}

// RecordRefund 记录退款
func (m *MetricsCollector) RecordRefund(amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.refundsTotal.Inc()
	m.refundAmountTotal.Add(amount.InexactFloat64())
}

func (m *MetricsCollector) RecordCouponRejection(reason string) {
	if m == nil {
		return
	}
	m.couponRejectionsTotal.WithLabelValues(reason).Inc()
}

func (m *MetricsCollector) RecordInventoryRejection(reason string) {
	if m == nil {
		return
	}
	m.inventoryRejectionsTotal.WithLabelValues(reason).Inc()
}

func (m *MetricsCollector) RecordOfferLookupFailure() {
	if m == nil {
		return
	}
	m.offerLookupFailuresTotal.Inc()
}

func (m *MetricsCollector) RecordDraftCreated() {
	if m == nil {
		return
	}
	m.checkoutDraftsCreated.Inc()
}

// Middleware gin 请求指标中间件
func (m *MetricsCollector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, endpoint, getStatusCategory(c.Writer.Status()), time.Since(start))
	}
}

// getStatusCategory 获取状态分类
func getStatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return strconv.Itoa(status)
	}
}

var (
	globalCollector *MetricsCollector
	initOnce        sync.Once
)

// GetGlobalCollector 获取全局指标收集器
func GetGlobalCollector() *MetricsCollector {
	initOnce.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}
