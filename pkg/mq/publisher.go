package mq

import (
	"context"

	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// Publisher 领域事件发布者
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// NopPublisher 未配置 Kafka 时使用，只记录 debug 日志
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(ctx context.Context, topic string, key string, _ any) error {
	logger.Debug(ctx, "Event dropped, no broker configured", "topic", topic, "key", key)
	return nil
}

// ObservedPublisher 在发布失败时记录日志并上报指标
type ObservedPublisher struct {
	next    Publisher
	metrics *metrics.Metrics
}

// NewObservedPublisher 包装一个 Publisher
func NewObservedPublisher(next Publisher, m *metrics.Metrics) *ObservedPublisher {
	return &ObservedPublisher{next: next, metrics: m}
}

// Publish 发布事件
func (p *ObservedPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	err := p.next.Publish(ctx, topic, key, event)
	p.metrics.RecordEventPublished(topic, err)
	if err != nil {
		logger.Error(ctx, "Failed to publish event", "topic", topic, "key", key, "error", err)
	}
	return err
}
