package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/chat/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// Relay 聊天中继：先存储再广播。
// 广播不以存储成功为前提，存储失败只记录日志和指标。
type Relay struct {
	repo        domain.MessageRepository
	broadcaster domain.Broadcaster
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewRelay 创建聊天中继
func NewRelay(repo domain.MessageRepository, broadcaster domain.Broadcaster, m *metrics.Metrics) *Relay {
	return &Relay{
		repo:        repo,
		broadcaster: broadcaster,
		metrics:     m,
		now:         time.Now,
	}
}

// HandleEnvelope 处理客户端发来的一帧，非 message 事件忽略
func (r *Relay) HandleEnvelope(ctx context.Context, env domain.Envelope) error {
	if env.Event != domain.EventMessage {
		logger.Debug(ctx, "Ignoring chat event", "event", env.Event)
		return nil
	}
	return r.HandleMessage(ctx, env.Data)
}

// HandleMessage 存储消息后把原始 payload 广播给所有连接
func (r *Relay) HandleMessage(ctx context.Context, data json.RawMessage) error {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	payload, err := domain.DecodePayload(data)
	if err != nil {
		return fmt.Errorf("decode chat payload: %w", err)
	}

	persisted := true
	msg := &domain.Message{Payload: payload, CreatedAt: r.now()}
	if err := r.repo.Save(ctx, msg); err != nil {
		persisted = false
		logger.Error(ctx, "Failed to persist chat message, broadcasting anyway", "error", err)
	}
	r.metrics.RecordChatMessage(persisted)

	frame, err := json.Marshal(domain.Envelope{Event: domain.EventMessage, Data: data})
	if err != nil {
		return fmt.Errorf("encode chat frame: %w", err)
	}
	if err := r.broadcaster.Broadcast(ctx, frame); err != nil {
		return fmt.Errorf("broadcast chat message: %w", err)
	}
	return nil
}
