package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID string) *Client {
	return &Client{hub: hub, userID: userID, send: make(chan []byte, sendBufferSize)}
}

func TestHubRegisterAndSend(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := newTestClient(hub, "alice")
	hub.register <- alice

	require.Eventually(t, func() bool { return hub.IsConnected("alice") },
		time.Second, 5*time.Millisecond)

	hub.SendToUser("alice", Event{Type: "notification", Payload: "hi"})
	select {
	case raw := <-alice.send:
		assert.Contains(t, string(raw), `"notification"`)
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
	}

	// Unknown recipients are a no-op, not a panic.
	hub.SendToUser("nobody", Event{Type: "typing", Payload: nil})
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	hub.register <- alice
	hub.register <- bob
	require.Eventually(t, func() bool { return hub.IsConnected("bob") },
		time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	// Shutdown closes every client channel and clears the registry.
	_, open := <-alice.send
	assert.False(t, open)
	_, open = <-bob.send
	assert.False(t, open)
	assert.False(t, hub.IsConnected("alice"))
	assert.False(t, hub.IsConnected("bob"))
}
