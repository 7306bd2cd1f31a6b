// Package ws keeps connected viewers synchronized with the todo store.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/dohr-michael/todoscope/internal/events"
	"github.com/dohr-michael/todoscope/internal/todo"
)

// Client represents a connected WebSocket viewer.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub manages viewer connections. Every todo mutation, whether from
// the ingestion pipeline or from a viewer, ends up as a bus event, and
// the hub answers each one by pushing the full snapshot to every
// connected viewer. All viewers converge on the same state after every
// mutation; there are no partial updates.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	store       *todo.Store
	bus         *events.Bus
	unsubscribe func()
}

// NewHub creates a hub bound to the store and bus.
func NewHub(store *todo.Store, bus *events.Bus) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		store:   store,
		bus:     bus,
	}

	h.unsubscribe = bus.Subscribe(func(events.Event) {
		h.broadcastSnapshot()
	}, events.EventTodoCreated, events.EventTodoUpdated)

	return h
}

// broadcastSnapshot pushes the current todo list to all viewers.
func (h *Hub) broadcastSnapshot() {
	data, err := MarshalSnapshot(h.store.Snapshot())
	if err != nil {
		slog.Error("marshal snapshot", "error", err)
		return
	}
	h.broadcast(data)
}

// broadcast sends data to all connected clients. Delivery is
// best-effort and at-most-once: a slow or closing client is skipped so
// it cannot block the fan-out for everyone else.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

// register adds a client to the hub.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	slog.Info("viewer connected", "viewers", len(h.clients))
}

// unregister removes a client from the hub.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		slog.Info("viewer disconnected", "viewers", len(h.clients))
	}
}

// ServeWS handles a WebSocket upgrade and manages the client lifecycle.
// The new viewer immediately receives one full snapshot.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow any origin for dev
	})
	if err != nil {
		slog.Error("ws accept", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
		hub:  h,
	}

	h.register(client)

	data, err := MarshalSnapshot(h.store.Snapshot())
	if err == nil {
		client.send <- data
	}

	ctx := r.Context()
	go client.writePump(ctx)
	client.readPump(ctx)
}

// readPump reads mutation requests from the connection.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("ws read closed", "status", websocket.CloseStatus(err))
			} else {
				slog.Debug("ws read error", "error", err)
			}
			return
		}

		msg, err := ParseClientMessage(data)
		if err != nil {
			slog.Error("ws parse message", "error", err)
			continue
		}

		c.hub.applyMutation(msg)
	}
}

// applyMutation routes a viewer request through the store contract and
// publishes the update event that triggers the fan-out. Unknown ids
// are logged and ignored; the requester keeps its stale but consistent
// view until the next successful mutation.
func (h *Hub) applyMutation(msg ClientMessage) {
	var err error
	switch msg.Type {
	case TypeToggleStatus:
		err = h.store.ToggleStatus(msg.Timestamp)
	case TypeUpdateIndent:
		err = h.store.SetIndent(msg.Timestamp, msg.IndentLevel)
	}

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			slog.Warn("mutation for unknown todo", "type", msg.Type, "timestamp", msg.Timestamp)
		} else {
			slog.Error("mutation failed", "type", msg.Type, "error", err)
		}
		return
	}

	field := "status"
	if msg.Type == TypeUpdateIndent {
		field = "indentLevel"
	}
	h.bus.Publish(events.NewTypedEvent(events.SourceHub, events.TodoUpdatedPayload{
		Timestamp: msg.Timestamp,
		Field:     field,
	}))
}

// writePump writes queued snapshots to the connection.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close shuts down the hub and all client connections.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutdown")
		delete(h.clients, c)
	}
}
