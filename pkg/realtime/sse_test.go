package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEHandler_StreamsEvents(t *testing.T) {
	bus := NewInMemoryBus()
	handler := SSEHandler(bus, DefaultSSEConfig("toys"), nil)

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Let the subscription register before publishing.
	require.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.handlers["toys"]) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), NewEvent("toys", EventToySaved, map[string]string{"name": "Dino"})))

	buf := make([]byte, 4096)
	var out strings.Builder
	for !strings.Contains(out.String(), "event: toy.saved") {
		n, err := resp.Body.Read(buf)
		require.NoError(t, err)
		out.Write(buf[:n])
	}

	assert.Contains(t, out.String(), "retry: 3000")
	assert.Contains(t, out.String(), `data: {"name":"Dino"}`)
}
