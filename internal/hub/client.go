package hub

import (
	"context"
	"time"

	"lacrosse-tracker/internal/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// Client is one websocket scoreboard connection, pinned to a single
// game's feed.
type Client struct {
	ID     string
	GameID string
	Send   chan game.Update

	conn   *websocket.Conn
	hub    *Hub
	logger zerolog.Logger
}

func NewClient(id, gameID string, conn *websocket.Conn, h *Hub, logger zerolog.Logger) *Client {
	return &Client{
		ID:     id,
		GameID: gameID,
		Send:   make(chan game.Update, sendBufferSize),
		conn:   conn,
		hub:    h,
		logger: logger,
	}
}

func (c *Client) WatchesGame(gameID string) bool {
	return c.GameID == gameID
}

// TrySend queues an update without blocking; false means the client's
// buffer is full.
func (c *Client) TrySend(update game.Update) bool {
	select {
	case c.Send <- update:
		return true
	default:
		return false
	}
}

// ReadPump drains the connection so pings/pongs and close frames are
// processed; the feed is one-way, inbound payloads are discarded.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.logger.Debug().Err(err).Str("client_id", c.ID).Msg("unexpected close")
				}
				return
			}
		}
	}
}

// WritePump pushes queued updates and keepalive pings to the peer.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case update, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(update); err != nil {
				c.logger.Debug().Err(err).Str("client_id", c.ID).Msg("write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
