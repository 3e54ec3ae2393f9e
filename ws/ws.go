package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"agromarket/middleware"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// HandleOrderWS subscribes the caller to live updates for one order. Browsers
// cannot set an Authorization header on a websocket handshake, so the token
// rides in the query string.
func HandleOrderWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")

	if _, err := middleware.ValidateJWT("Bearer " + r.URL.Query().Get("token")); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[orderID] = append(subscribers[orderID], conn)
	mu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Clean up on disconnect
	mu.Lock()
	conns := subscribers[orderID]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[orderID] = newList
	mu.Unlock()

	conn.Close()
}

// PushOrderUpdate broadcasts a payload to everyone watching the order. Dead
// and stalled connections are dropped along the way; the write deadline keeps
// one slow subscriber from holding the lock indefinitely.
func PushOrderUpdate(orderID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws push: marshal: %v", err)
		return
	}

	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[orderID]
	newList := conns[:0]
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers[orderID] = newList
}
