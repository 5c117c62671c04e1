package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Handler WebSocket 入口
type Handler struct {
	hub      *Hub
	relay    EnvelopeHandler
	upgrader websocket.Upgrader
}

// NewHandler 创建 WebSocket 处理器
func NewHandler(hub *Hub, relay EnvelopeHandler) *Handler {
	return &Handler{
		hub:   hub,
		relay: relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 没有鉴权，也就不限制来源
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/ws", h.Serve)
}

// Serve 升级连接并在当前 goroutine 中读取，直到连接断开
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写出 400 响应
		logger.Warn(c.Request.Context(), "WebSocket upgrade failed", "error", err)
		return
	}

	client := newClient(h.hub, conn, h.relay)
	if !h.hub.add(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	logger.Info(c.Request.Context(), "Chat client connected", "remote", client.remote)
	go client.writePump()
	client.readPump(c.Request.Context())
	logger.Info(c.Request.Context(), "Chat client disconnected", "remote", client.remote)
}
