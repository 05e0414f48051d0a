package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pixelgram-backend/internal/handlers"
	"pixelgram-backend/internal/models"
	"pixelgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSServer(t *testing.T) (*httptest.Server, *services.Hub, *services.UserService) {
	t.Helper()

	users := &stubUserStore{users: map[string]*models.User{
		"user-a": {ID: "user-a", Username: "alice"},
	}}
	userService := services.NewUserService(users, nil, nil, "test-secret")
	hub := services.NewHub()
	wsHandler := handlers.NewWebSocketHandler(hub, userService)

	r := chi.NewRouter()
	r.Get("/ws", wsHandler.HandleWebSocket)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, hub, userService
}

func wsURL(server *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
}

func TestWebSocket_NotificationDelivery(t *testing.T) {
	server, hub, userService := newWSServer(t)

	token, err := userService.GenerateJWT("user-a")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.IsOnline("user-a")
	}, time.Second, 10*time.Millisecond)

	// Deliver through the notifier exactly as the services do.
	notifier := services.NewNotifier(hub, nil, &stubUserStore{users: map[string]*models.User{}})
	notifier.Notify(services.Event{
		RecipientID: "user-a",
		Type:        "like",
		UserID:      "user-b",
		PostID:      "post-1",
		Message:     "bob liked your post",
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string         `json:"type"`
		Data services.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "like", msg.Data.Type)
	assert.Equal(t, "user-b", msg.Data.UserID)
	assert.Equal(t, "post-1", msg.Data.PostID)

	// Closing the client side unregisters the session.
	conn.Close()
	require.Eventually(t, func() bool {
		return !hub.IsOnline("user-a")
	}, time.Second, 10*time.Millisecond)
}

func TestWebSocket_RejectsBadToken(t *testing.T) {
	server, hub, _ := newWSServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "forged"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, hub.IsOnline("user-a"))
}
