package ws

import (
	"context"

	"github.com/wyfcoding/storefront/internal/chat/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// Hub 管理本实例的所有连接。连接集合只在 Run 所在的 goroutine 中读写。
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]struct{}
	done       chan struct{}
	metrics    *metrics.Metrics
}

// NewHub 创建 hub，需要调用 Run 才开始工作
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		metrics:    m,
	}
}

// Run 事件循环，ctx 取消后关闭所有连接并返回
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			logger.Info(ctx, "Chat hub stopped")
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.metrics.ChatConnected()
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// 发送缓冲已满的慢连接直接断开
					logger.Warn(ctx, "Dropping slow chat client", "remote", c.remote)
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.metrics.ChatDisconnected()
}

// Broadcast 投递给本实例所有连接，实现 domain.Broadcaster
func (h *Hub) Broadcast(ctx context.Context, frame []byte) error {
	select {
	case h.broadcast <- frame:
		return nil
	case <-h.done:
		return domain.ErrBroadcasterClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done hub 停止后关闭
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
