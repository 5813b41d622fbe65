// Package notify pushes live events to users over WebSocket connections.
package notify

import (
	"context"
	"encoding/json"

	"lostfound/internal/logging"
)

type notification struct {
	userID  uint
	payload []byte
}

// Hub tracks connected clients by user. All client bookkeeping happens on
// the goroutine running Run.
type Hub struct {
	// Registered clients, grouped by user.
	clients map[uint]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Outbound events for a single user.
	notify chan notification

	// Closed when Run returns.
	done chan struct{}

	logger logging.Logger
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan notification, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes hub events until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[uint]map[*Client]bool)
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.userID] = set
			}
			set[client] = true
		case client := <-h.unregister:
			h.remove(client)
		case n := <-h.notify:
			for client := range h.clients[n.userID] {
				select {
				case client.send <- n.payload:
				default:
					// Slow consumer: drop the connection.
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// NotifyUser queues event for every connection of userID. It never blocks:
// when the queue is full the event is dropped.
func (h *Hub) NotifyUser(userID uint, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error(context.Background(), "encode notification", "user_id", userID, "error", err)
		return
	}
	select {
	case h.notify <- notification{userID: userID, payload: payload}:
	default:
		h.logger.Warn(context.Background(), "notification dropped", "user_id", userID)
	}
}
