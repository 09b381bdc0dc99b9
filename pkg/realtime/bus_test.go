package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewInMemoryBus()
	ctx := context.Background()

	var mu sync.Mutex
	var got []Event
	sub, err := bus.Subscribe(ctx, "toys", func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, bus.Publish(ctx, NewEvent("toys", EventToySaved, map[string]string{"name": "Teddy Bear"})))
	require.NoError(t, bus.Publish(ctx, NewEvent("other", EventToySaved, nil)))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1, "only the subscribed channel should be delivered")
	assert.Equal(t, EventToySaved, got[0].Type)
	assert.Equal(t, "toys", got[0].Channel)
}

func TestInMemoryBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewInMemoryBus()
	ctx := context.Background()

	delivered := 0
	sub, err := bus.Subscribe(ctx, "toys", func(Event) { delivered++ })
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, NewEvent("toys", EventToyRemoved, nil)))
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close()) // idempotent
	require.NoError(t, bus.Publish(ctx, NewEvent("toys", EventToyRemoved, nil)))

	assert.Equal(t, 1, delivered)
}

func TestNewEvent_AssignsIDAndTimestamp(t *testing.T) {
	a := NewEvent("toys", EventToySaved, map[string]int{"price": 10})
	b := NewEvent("toys", EventToySaved, nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())

	var payload map[string]int
	require.NoError(t, json.Unmarshal(a.Data, &payload))
	assert.Equal(t, 10, payload["price"])
}

func TestNewRedisBus_Validation(t *testing.T) {
	_, err := NewRedisBus(RedisBusConfig{})
	assert.Error(t, err)

	_, err = NewRedisBus(RedisBusConfig{URL: "not a url"})
	assert.Error(t, err)

	bus, err := NewRedisBus(RedisBusConfig{URL: "redis://localhost:6379/0"})
	require.NoError(t, err)
	assert.Equal(t, "realtime:toys", bus.channelKey("toys"))
	require.NoError(t, bus.Close())
}
