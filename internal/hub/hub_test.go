package hub

import (
	"context"
	"testing"
	"time"

	"lacrosse-tracker/internal/game"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(id, gameID string) *Client {
	return &Client{
		ID:     id,
		GameID: gameID,
		Send:   make(chan game.Update, sendBufferSize),
	}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, chan struct{}) {
	t.Helper()
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	return h, cancel, stopped
}

func TestHubBroadcastReachesWatchingClientsOnly(t *testing.T) {
	h, cancel, stopped := startHub(t)
	defer func() {
		cancel()
		<-stopped
	}()

	watching := testClient("c1", "game-1")
	other := testClient("c2", "game-2")
	h.Register(watching)
	h.Register(other)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	h.Broadcast(game.Update{GameID: "game-1", ClockSeconds: 500})

	select {
	case update := <-watching.Send:
		assert.Equal(t, 500, update.ClockSeconds)
	case <-time.After(time.Second):
		t.Fatal("watching client received nothing")
	}
	assert.Empty(t, other.Send, "update must not reach clients on another game")
}

func TestHubUnregisterAfterShutdown(t *testing.T) {
	h, cancel, stopped := startHub(t)

	c := testClient("c1", "game-1")
	h.Register(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-stopped

	// A client disconnecting after shutdown must not park forever on the
	// unregister channel.
	done := make(chan struct{})
	go func() {
		h.Unregister(c)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after hub shutdown")
	}
}

func TestHubRegisterAfterShutdown(t *testing.T) {
	h, cancel, stopped := startHub(t)
	cancel()
	<-stopped

	c := testClient("c1", "game-1")
	done := make(chan struct{})
	go func() {
		h.Register(c)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register blocked after hub shutdown")
	}

	_, open := <-c.Send
	assert.False(t, open, "late registration closes the client's send channel")
	assert.Zero(t, h.ClientCount())
}
