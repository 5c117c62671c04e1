package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/chat/application"
	"github.com/wyfcoding/storefront/internal/chat/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

type memoryMessages struct {
	mu    sync.Mutex
	saved []*domain.Message
}

func (m *memoryMessages) Save(_ context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, msg)
	return nil
}

func (m *memoryMessages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

type chatServer struct {
	hub    *Hub
	repo   *memoryMessages
	srv    *httptest.Server
	cancel context.CancelFunc
}

func startChatServer(t *testing.T) *chatServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	repo := &memoryMessages{}
	relay := application.NewRelay(repo, hub, nil)

	r := gin.New()
	NewHandler(hub, relay).RegisterRoutes(r)
	srv := httptest.NewServer(r)

	cs := &chatServer{hub: hub, repo: repo, srv: srv, cancel: cancel}
	t.Cleanup(cs.stop)
	return cs
}

func (cs *chatServer) stop() {
	cs.cancel()
	<-cs.hub.Done()
	cs.srv.Close()
}

func (cs *chatServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(cs.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, data string) {
	t.Helper()
	frame := `{"event":"message","data":` + data + `}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func receive(t *testing.T, conn *websocket.Conn) domain.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env domain.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestBroadcastToAllClientsIncludingSender(t *testing.T) {
	cs := startChatServer(t)

	alice := cs.dial(t)
	// 收到自己的回显说明已经注册到 hub
	send(t, alice, `{"user":"alice","message":"joined"}`)
	receive(t, alice)

	bob := cs.dial(t)
	send(t, bob, `{"user":"bob","message":"joined"}`)
	receive(t, bob)
	receive(t, alice)

	send(t, alice, `{"user":"alice","message":"hola"}`)

	for _, conn := range []*websocket.Conn{alice, bob} {
		env := receive(t, conn)
		assert.Equal(t, domain.EventMessage, env.Event)
		assert.JSONEq(t, `{"user":"alice","message":"hola"}`, string(env.Data))
	}
	assert.Equal(t, 3, cs.repo.count())
}

func TestNonMessageEventsAreIgnored(t *testing.T) {
	cs := startChatServer(t)
	conn := cs.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"typing","data":{}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	send(t, conn, `"after"`)

	env := receive(t, conn)
	assert.JSONEq(t, `"after"`, string(env.Data))
	assert.Equal(t, 1, cs.repo.count())
}

func TestHubShutdownClosesClients(t *testing.T) {
	cs := startChatServer(t)
	conn := cs.dial(t)
	send(t, conn, `"hello"`)
	receive(t, conn)

	cs.cancel()
	<-cs.hub.Done()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())

	err = cs.hub.Broadcast(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrBroadcasterClosed)
}

func TestSlowClientIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := metrics.New("ws_test")
	hub := NewHub(m)
	go hub.Run(ctx)
	defer func() {
		cancel()
		<-hub.Done()
	}()

	// 没有 writePump 消费，send 无缓冲，任何投递都会阻塞
	slow := &Client{hub: hub, send: make(chan []byte), remote: "slow"}
	require.True(t, hub.add(slow))
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.ChatConnections) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(ctx, []byte("next")))

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.ChatConnections) == 0
	}, 5*time.Second, 10*time.Millisecond)
	_, ok := <-slow.send
	assert.False(t, ok, "slow client should have been dropped")
}
