package notify

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusDeliversPerUser(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	var alice, bob int32
	unsubAlice, err := bus.Subscribe(ctx, "alice", func() { atomic.AddInt32(&alice, 1) })
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, "bob", func() { atomic.AddInt32(&bob, 1) })
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "alice"))
	require.NoError(t, bus.Publish(ctx, "alice"))
	require.NoError(t, bus.Publish(ctx, "carol"))

	assert.Equal(t, int32(2), atomic.LoadInt32(&alice))
	assert.Equal(t, int32(0), atomic.LoadInt32(&bob))

	unsubAlice()
	unsubAlice()
	require.NoError(t, bus.Publish(ctx, "alice"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&alice))
	assert.Equal(t, 0, bus.Subscribers("alice"))
	assert.Equal(t, 1, bus.Subscribers("bob"))
}

func TestMemoryBusHandlerMayUnsubscribe(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	var unsub func()
	calls := 0
	unsub, err := bus.Subscribe(ctx, "alice", func() {
		calls++
		unsub()
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "alice"))
	require.NoError(t, bus.Publish(ctx, "alice"))
	assert.Equal(t, 1, calls)
}

func TestMemoryBusClose(t *testing.T) {
	bus := NewMemoryBus()
	_, err := bus.Subscribe(context.Background(), "alice", func() {})
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	assert.Equal(t, 0, bus.Subscribers("alice"))
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "records:alice", Channel("alice"))
}

func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("GRADPLANNER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRADPLANNER_TEST_REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus, err := NewRedisBus(ctx, RedisOptions{Addr: addr}, zerolog.Nop())
	require.NoError(t, err)
	defer bus.Close()

	received := make(chan struct{}, 1)
	unsub, err := bus.Subscribe(ctx, "alice", func() { received <- struct{}{} })
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, bus.Publish(ctx, "alice"))

	select {
	case <-received:
	case <-ctx.Done():
		t.Fatal("notification not delivered")
	}
}
