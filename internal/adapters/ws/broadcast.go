// Package ws streams emitted alerts to connected websocket clients,
// one message per event.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/domain/types"
	"github.com/okian/vigil/pkg/logger"
	"github.com/okian/vigil/pkg/metrics"
)

// clientSendBuffer bounds the per-client queue; a slow consumer drops
// messages rather than stalling the alert path.
const clientSendBuffer = 64

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster fans alerts out to websocket subscribers.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[*client]bool
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.Get().Named("ws"),
	}
}

// HandleAlerts upgrades GET requests to a websocket subscription.
func (b *Broadcaster) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	c := newClient(conn)
	b.mu.Lock()
	b.clients[c] = true
	count := len(b.clients)
	b.mu.Unlock()
	metrics.UpdateAlertSubscribers(count)

	// Reader loop only watches for close; subscribers don't send.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.remove(c)
				return
			}
		}
	}()
}

// Publish sends one alert to every connected subscriber.
func (b *Broadcaster) Publish(ev model.Event) {
	alert := types.Alert{
		SessionID: ev.SessionID,
		AlertType: string(ev.Type),
		Timestamp: ev.Timestamp,
		Message:   ev.Message,
		Details:   ev.Details,
	}
	data, err := json.Marshal(alert)
	if err != nil {
		b.logger.Error(context.Background(), "marshal alert failed", logger.Error(err))
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, drop this alert for it.
		}
	}
}

// Close disconnects all subscribers.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		c.close()
	}
	metrics.UpdateAlertSubscribers(0)
}

func (b *Broadcaster) remove(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	count := len(b.clients)
	b.mu.Unlock()
	metrics.UpdateAlertSubscribers(count)
}
