package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/gradplanner/internal/app/models"
)

// MessageTypeSnapshot marks a frame carrying freshly computed progress
const MessageTypeSnapshot = "progress.snapshot"

// Message is a frame pushed to live clients
type Message struct {
	// Type of message, currently always "progress.snapshot"
	Type string `json:"type"`

	// Curriculum the stats were computed against
	CurriculumID string `json:"curriculumId"`

	// Progress summary over the user's latest records
	Stats *models.Stats `json:"stats"`

	// Credit-weighted average letter of completed records
	AverageGrade string `json:"averageGrade"`

	// Number of records the stats were computed from
	RecordCount int `json:"recordCount"`

	// Timestamp when the snapshot was computed
	Timestamp time.Time `json:"timestamp"`
}

// Hub keeps track of the live clients of every user
type Hub struct {
	// Registered clients organized by user ID
	clients map[string]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "live_hub").Logger(),
	}
}

// Run handles client registrations until ctx is cancelled, then drops every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register adds a client. It returns false when the hub is no longer running.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and releases its subscription
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Str("userID", client.userID).
		Str("curriculum", client.curriculumID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userClients, ok := h.clients[client.userID]
	if !ok || !userClients[client] {
		return
	}

	delete(userClients, client)
	if len(userClients) == 0 {
		delete(h.clients, client.userID)
	}
	client.close()

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userClients := range h.clients {
		for client := range userClients {
			client.close()
		}
		delete(h.clients, userID)
	}
	h.logger.Info().Msg("Live hub stopped")
}

// ClientCount returns the number of connected clients of a user
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}
