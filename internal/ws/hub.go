package ws

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/logging"
)

const writeTimeout = 3 * time.Second

// Hub fans messages out to every connection of one view.
type Hub struct {
	view    string
	mu      deadlock.Mutex
	clients map[*websocket.Conn]struct{}
	log     logrus.FieldLogger
}

func NewHub(view string, log logrus.FieldLogger) *Hub {
	return &Hub{
		view:    view,
		clients: make(map[*websocket.Conn]struct{}),
		log:     logging.OrDiscard(log).WithFields(logrus.Fields{"component": "hub", "view": view}),
	}
}

func (h *Hub) View() string {
	return h.view
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.WithField("clients", n).Info("client connected")
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()
	h.log.WithField("clients", n).Info("client disconnected")
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Send writes to one connection.
func (h *Hub) Send(conn *websocket.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, message)
}

// Broadcast writes to every connection; connections that fail are closed and
// dropped.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			h.log.WithError(err).Debug("dropping client after failed write")
			_ = conn.Close(websocket.StatusNormalClosure, "")
			delete(h.clients, conn)
		}
	}
}
