package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agromarket/globals"
	"agromarket/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func mintToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: "consumer-1",
		Roles:  []string{globals.RoleConsumer},
	})
	signed, err := token.SignedString(globals.JwtSecret)
	assert.NoError(t, err)
	return signed
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func waitForSubscriber(t *testing.T, orderID string) {
	t.Helper()
	for i := 0; i < 100; i++ {
		mu.Lock()
		n := len(subscribers[orderID])
		mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("subscriber never registered")
}

func TestPushOrderUpdate(t *testing.T) {
	router := httprouter.New()
	router.GET("/ws/orders/:orderid", HandleOrderWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(
		wsURL(srv, "/ws/orders/order-77?token="+mintToken(t)), nil)
	assert.NoError(t, err)
	defer conn.Close()

	waitForSubscriber(t, "order-77")
	PushOrderUpdate("order-77", map[string]string{"status": "shipped"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	assert.NoError(t, err)
	assert.Contains(t, string(msg), "shipped")
}

func TestHandshakeRequiresToken(t *testing.T) {
	router := httprouter.New()
	router.GET("/ws/orders/:orderid", HandleOrderWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/orders/order-77"), nil)
	assert.Error(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, 401, resp.StatusCode)
	}
}
