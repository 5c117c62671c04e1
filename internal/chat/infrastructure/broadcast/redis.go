package broadcast

import (
	"context"

	"github.com/wyfcoding/storefront/internal/chat/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// PubSub 发布订阅客户端，由 rdb.Client 实现
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, fn func([]byte)) error
}

// RedisBroadcaster 通过 Redis 频道把帧分发给所有实例，
// 每个实例的订阅循环再交给本地 hub 投递。
type RedisBroadcaster struct {
	pubsub  PubSub
	channel string
}

// NewRedisBroadcaster 创建跨实例广播器
func NewRedisBroadcaster(pubsub PubSub, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{pubsub: pubsub, channel: channel}
}

// Broadcast 发布到频道，本实例的连接也经由订阅收到
func (b *RedisBroadcaster) Broadcast(ctx context.Context, frame []byte) error {
	return b.pubsub.Publish(ctx, b.channel, frame)
}

// Run 订阅频道并转发给本地广播器，阻塞到 ctx 取消
func (b *RedisBroadcaster) Run(ctx context.Context, local domain.Broadcaster) error {
	logger.Info(ctx, "Chat fan-out subscribed", "channel", b.channel)
	return b.pubsub.Subscribe(ctx, b.channel, func(frame []byte) {
		if err := local.Broadcast(ctx, frame); err != nil {
			logger.Warn(ctx, "Failed to deliver chat frame locally", "error", err)
		}
	})
}
