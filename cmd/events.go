package cmd

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/eosc/client"
)

// eventHub streams console notifications to websocket clients.
type eventHub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader

	log *zap.Logger
}

func newEventHub(log *zap.Logger) *eventHub {
	return &eventHub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// ServeHTTP upgrades the request and keeps the client until it goes away.
// Anything the client sends is ignored.
func (h *eventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("Failed to upgrade", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("Events client connected", zap.String("remote", conn.RemoteAddr().String()))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
}

// Run forwards notifications until ctx is done.
func (h *eventHub) Run(ctx context.Context, notifications <-chan client.Notification) {
	for {
		select {
		case n := <-notifications:
			data, err := client.MarshalNotification(n)
			if err != nil {
				h.log.Warn("Failed to encode notification", zap.String("event", client.EventName(n)), zap.Error(err))
				continue
			}

			h.broadcast(data)

		case <-ctx.Done():
			return
		}
	}
}

func (h *eventHub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.RUnlock()

	for _, conn := range clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("Dropping events client", zap.Error(err))
			h.remove(conn)
		}
	}
}

func (h *eventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()

	conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *eventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every client.
func (h *eventHub) Close() (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		err = multierr.Append(err, conn.Close())
		delete(h.clients, conn)
	}

	return err
}
