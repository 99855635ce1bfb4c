package ws

import (
	"log"
	"net/http"
	"sync"

	"backend/entity"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// DispatchHub bridges the in-process position feed to websocket clients on
// the dispatch view. Every committed rider position insert is pushed to all
// connected staff clients.
type DispatchHub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
	feed       *services.PositionFeed
}

func NewDispatchHub(feed *services.PositionFeed) *DispatchHub {
	return &DispatchHub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		feed:       feed,
	}
}

// Run consumes the feed and fans out to clients until the process exits.
func (h *DispatchHub) Run() {
	positions, cancel := h.feed.Subscribe(64)
	defer cancel()

	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case p, ok := <-positions:
			if !ok {
				return
			}
			h.broadcast(p)
		}
	}
}

func (h *DispatchHub) broadcast(p entity.RiderPosition) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(p); err != nil {
			log.Printf("ws write error: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/dispatch — staff only, authenticated by WSAuthMiddleware.
func (h *DispatchHub) HandleWebSocket(c *gin.Context) {
	role := utils.CurrentRole(c)
	if role != entity.RoleAdmin && role != entity.RoleAgent {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	h.register <- conn
	go h.drain(conn)
}

// drain reads until the client goes away; dispatch clients never send
// anything meaningful, the read loop only detects the close.
func (h *DispatchHub) drain(conn *websocket.Conn) {
	defer func() { h.unregister <- conn }()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
