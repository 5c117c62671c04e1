package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chathttp "github.com/wyfcoding/storefront/internal/chat/interfaces/http"
)

func TestRenderChatView(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chathttp.NewChatViewHandler("/ws").RegisterRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/chat", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "<title>Chat</title>")
	assert.Contains(t, rr.Body.String(), "new WebSocket(")
	assert.NotContains(t, rr.Body.String(), "{{")
}
