// Package metrics 提供 Prometheus helper，包含 HTTP、数据库、事件与业务指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shop"

// Metrics 指标集合。所有 Record 方法对 nil 接收者安全，未启用指标时可直接传 nil。
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 数据库命令计数
	DBCommandsTotal *prometheus.CounterVec
	// 数据库命令耗时
	DBCommandDuration *prometheus.HistogramVec

	// 领域事件发布计数
	EventsPublishedTotal *prometheus.CounterVec

	// 业务指标
	ProductsCreatedTotal     prometheus.Counter
	CartItemsAddedTotal      prometheus.Counter
	ChatMessagesTotal        prometheus.Counter
	ChatPersistFailuresTotal prometheus.Counter
	ChatConnections          prometheus.Gauge
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBCommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "db_commands_total",
			Help:      "Total database commands",
		}, []string{"command", "status"}),
		DBCommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "db_command_duration_seconds",
			Help:      "Database command duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),

		EventsPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "events_published_total",
			Help:      "Total domain events handed to the broker",
		}, []string{"topic", "status"}),

		ProductsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "products_created_total",
			Help:      "Total products created",
		}),
		CartItemsAddedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "cart_items_added_total",
			Help:      "Total add-to-cart operations",
		}),
		ChatMessagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "chat_messages_total",
			Help:      "Total chat messages received",
		}),
		ChatPersistFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "chat_persist_failures_total",
			Help:      "Chat messages broadcast without being stored",
		}),
		ChatConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "chat_connections",
			Help:      "Number of open chat connections",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBCommandsTotal,
		m.DBCommandDuration,
		m.EventsPublishedTotal,
		m.ProductsCreatedTotal,
		m.CartItemsAddedTotal,
		m.ChatMessagesTotal,
		m.ChatPersistFailuresTotal,
		m.ChatConnections,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler 返回指标暴露的 HTTP handler
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDBCommand 记录数据库命令，签名与 db.CommandObserver 一致
func (m *Metrics) RecordDBCommand(command string, duration time.Duration, failed bool) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.DBCommandsTotal.WithLabelValues(command, status).Inc()
	m.DBCommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordEventPublished 记录事件发布结果
func (m *Metrics) RecordEventPublished(topic string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublishedTotal.WithLabelValues(topic, status).Inc()
}

// RecordProductCreated 记录商品创建
func (m *Metrics) RecordProductCreated() {
	if m == nil {
		return
	}
	m.ProductsCreatedTotal.Inc()
}

// RecordCartItemAdded 记录加购
func (m *Metrics) RecordCartItemAdded() {
	if m == nil {
		return
	}
	m.CartItemsAddedTotal.Inc()
}

// RecordChatMessage 记录聊天消息，persisted 为 false 表示存储失败但已广播
func (m *Metrics) RecordChatMessage(persisted bool) {
	if m == nil {
		return
	}
	m.ChatMessagesTotal.Inc()
	if !persisted {
		m.ChatPersistFailuresTotal.Inc()
	}
}

// ChatConnected 连接数加一
func (m *Metrics) ChatConnected() {
	if m == nil {
		return
	}
	m.ChatConnections.Inc()
}

// ChatDisconnected 连接数减一
func (m *Metrics) ChatDisconnected() {
	if m == nil {
		return
	}
	m.ChatConnections.Dec()
}
