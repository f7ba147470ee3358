package hub

import (
	"context"
	"sync"

	"lacrosse-tracker/internal/game"

	"github.com/rs/zerolog"
)

// Hub maintains the set of connected scoreboard clients and fans live
// game updates out to the ones watching each game.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan game.Update
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan game.Update, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's main loop; it exits when the context is cancelled,
// closing every client connection.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info().Msg("hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			close(h.done)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Register and Unregister never block past hub shutdown; once the run
// loop has exited there is nobody left to receive.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		// Hub already stopped: shut the client down instead.
		close(c.Send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues an update for fan-out. Non-blocking: when the buffer
// is full the update is dropped, the next tick replaces it anyway.
func (h *Hub) Broadcast(update game.Update) {
	select {
	case h.broadcast <- update:
	default:
		h.logger.Warn().Str("game_id", update.GameID).Msg("broadcast buffer full, dropping update")
	}
}

func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.logger.Info().Str("client_id", c.ID).Int("total", len(h.clients)).Msg("client connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.logger.Info().Str("client_id", c.ID).Int("total", len(h.clients)).Msg("client disconnected")
	}
}

func (h *Hub) broadcastUpdate(update game.Update) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.WatchesGame(update.GameID) {
			continue
		}

		if !c.TrySend(update) {
			// Client buffer full: too slow, disconnect it.
			h.logger.Warn().Str("client_id", c.ID).Msg("client buffer full, disconnecting")
			go h.Unregister(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info().Int("clients", len(h.clients)).Msg("shutting down hub")

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}
