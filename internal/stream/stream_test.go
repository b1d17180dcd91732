package stream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cryptovault/trading-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsSnapshotToRegisteredClients(t *testing.T) {
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- c

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	snapshot := []types.MarketData{{Symbol: "BTC", Price: 43250.0}}
	hub.BroadcastSnapshot(snapshot)

	select {
	case raw := <-c.send:
		var msg tickMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "market_data", msg.Channel)
		require.Len(t, msg.Data, 1)
		assert.Equal(t, "BTC", msg.Data[0].Symbol)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}

	hub.unregister <- c
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 5*time.Millisecond)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := &client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	cancel()

	select {
	case _, ok := <-c.send:
		assert.False(t, ok, "send channel should be closed on shutdown")
	case <-time.After(time.Second):
		t.Fatal("client channel not closed")
	}
}
