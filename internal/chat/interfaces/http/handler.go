package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/chat.html
var templatesFS embed.FS

var chatTemplate = template.Must(template.ParseFS(templatesFS, "templates/chat.html"))

// ChatViewHandler 渲染聊天页面
type ChatViewHandler struct {
	socketPath string
}

// NewChatViewHandler socketPath 为页面连接的 WebSocket 路径
func NewChatViewHandler(socketPath string) *ChatViewHandler {
	return &ChatViewHandler{socketPath: socketPath}
}

// RegisterRoutes 注册路由
func (h *ChatViewHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/chat", h.Render)
}

// Render 渲染聊天页面
func (h *ChatViewHandler) Render(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: chatTemplate,
		Name:     "chat.html",
		Data: gin.H{
			"Title":      "Chat",
			"SocketPath": h.socketPath,
		},
	})
}
