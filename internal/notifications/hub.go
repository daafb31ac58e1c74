package notifications

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Hub fans portal notifications out to connected websocket clients. The run
// loop is the only goroutine that touches the connection set.
type Hub struct {
	connections map[*Connection]bool
	broadcast   chan Notification
	register    chan *Connection
	unregister  chan *Connection
	stop        chan struct{}
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// Connection is one websocket client.
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan Notification
}

// NewHub creates and starts the notification hub
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan Notification, 256),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		stop:        make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.connections[conn] = true
		case conn := <-h.unregister:
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
			}
		case n := <-h.broadcast:
			for conn := range h.connections {
				select {
				case conn.Send <- n:
				default:
					// Slow client; drop it rather than block the hub.
					delete(h.connections, conn)
					close(conn.Send)
				}
			}
		case <-h.stop:
			for conn := range h.connections {
				close(conn.Send)
			}
			return
		}
	}
}

// Broadcast queues a notification for every connected client.
func (h *Hub) Broadcast(n Notification) {
	select {
	case h.broadcast <- n:
	default:
		h.logger.Warn("Notification broadcast buffer full, dropping",
			zap.String("title", n.Title))
	}
}

// Stop shuts the hub down.
func (h *Hub) Stop() {
	close(h.stop)
}

// HandleConnection upgrades an HTTP request to a websocket subscription.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	connection := &Connection{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan Notification, sendBufferSize),
	}
	h.register <- connection

	go h.writePump(connection)
	go h.readPump(connection)
	return nil
}

func (h *Hub) writePump(conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case n, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(conn *Connection) {
	defer func() {
		h.unregister <- conn
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(512)
	conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// The feed is one-way; reads only service control frames.
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
