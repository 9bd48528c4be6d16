package ws

import (
	"log"
	"net/http"
	"sync"

	"estate-backend/internal/auth"
	"estate-backend/internal/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type message struct {
	userID int
	note   *models.Notification
}

// Hub fans notifications out to connected clients, one room per user id.
// Delivery is best-effort: an offline user still has the persisted row.
type Hub struct {
	jwtManager *auth.JWTManager

	clientsMux sync.Mutex
	clients    map[int]map[*websocket.Conn]bool

	broadcast chan message
}

func NewHub(jwtManager *auth.JWTManager) *Hub {
	h := &Hub{
		jwtManager: jwtManager,
		clients:    make(map[int]map[*websocket.Conn]bool),
		broadcast:  make(chan message, 64),
	}
	go h.run()
	return h
}

// Publish queues a notification for every open connection of one user.
// Never blocks the caller: if the buffer is full the update is dropped,
// the client catches up from the notifications list.
func (h *Hub) Publish(userID int, note *models.Notification) {
	select {
	case h.broadcast <- message{userID: userID, note: note}:
	default:
	}
}

// HandleWS upgrades the connection and parks it in the user's room. The
// token comes in a query parameter because browsers cannot set headers on
// websocket dials.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	if h.clients[claims.UserID] == nil {
		h.clients[claims.UserID] = make(map[*websocket.Conn]bool)
	}
	h.clients[claims.UserID][conn] = true
	h.clientsMux.Unlock()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			h.clientsMux.Lock()
			delete(h.clients[claims.UserID], conn)
			if len(h.clients[claims.UserID]) == 0 {
				delete(h.clients, claims.UserID)
			}
			h.clientsMux.Unlock()
			break
		}
	}
}

func (h *Hub) run() {
	for msg := range h.broadcast {
		h.clientsMux.Lock()
		for conn := range h.clients[msg.userID] {
			if err := conn.WriteJSON(msg.note); err != nil {
				conn.Close()
				delete(h.clients[msg.userID], conn)
			}
		}
		h.clientsMux.Unlock()
	}
}
