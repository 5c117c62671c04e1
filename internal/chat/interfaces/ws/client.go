package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wyfcoding/storefront/internal/chat/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// EnvelopeHandler 处理客户端发来的帧
type EnvelopeHandler interface {
	HandleEnvelope(ctx context.Context, env domain.Envelope) error
}

// Client 一个 WebSocket 连接
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	handler EnvelopeHandler
	remote  string
}

func newClient(hub *Hub, conn *websocket.Conn, handler EnvelopeHandler) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		handler: handler,
		remote:  conn.RemoteAddr().String(),
	}
}

// readPump 读取客户端帧直到连接断开，断开时不保留任何状态
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warn(ctx, "Chat connection closed unexpectedly", "remote", c.remote, "error", err)
			}
			return
		}

		var env domain.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			logger.Warn(ctx, "Malformed chat frame", "remote", c.remote, "error", err)
			continue
		}

		if err := c.handler.HandleEnvelope(ctx, env); err != nil {
			if errors.Is(err, domain.ErrBroadcasterClosed) {
				return
			}
			logger.Error(ctx, "Failed to relay chat message", "remote", c.remote, "error", err)
		}
	}
}

// writePump 把 hub 投递的帧写给客户端并定期 ping；send 关闭后发送 close 帧退出
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
