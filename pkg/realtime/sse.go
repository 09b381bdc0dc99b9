package realtime

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
)

// SSEConfig configures the server-sent-events endpoint.
type SSEConfig struct {
	Channel           string
	ClientBuffer      int
	HeartbeatInterval time.Duration
	RetryMS           int
}

// DefaultSSEConfig returns defaults tuned for browser clients.
func DefaultSSEConfig(channel string) SSEConfig {
	return SSEConfig{
		Channel:           channel,
		ClientBuffer:      64,
		HeartbeatInterval: 20 * time.Second,
		RetryMS:           3000,
	}
}

// SSEHandler streams bus events to a client as server-sent events. Events
// arriving faster than the client drains are dropped; this layer owes no
// delivery guarantee.
func SSEHandler(bus Bus, cfg SSEConfig, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.Noop{}
	}
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = 64
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 20 * time.Second
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		events := make(chan Event, cfg.ClientBuffer)
		sub, err := bus.Subscribe(r.Context(), cfg.Channel, func(event Event) {
			select {
			case events <- event:
			default:
				// Slow client; drop rather than block the publisher.
			}
		})
		if err != nil {
			log.WithContext(r.Context()).Error("cannot subscribe sse client", "channel", cfg.Channel, "error", err)
			http.Error(w, "cannot subscribe", http.StatusBadGateway)
			return
		}
		defer sub.Close()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		if cfg.RetryMS > 0 {
			fmt.Fprintf(w, "retry: %d\n\n", cfg.RetryMS)
		}
		flusher.Flush()

		heartbeat := time.NewTicker(cfg.HeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				flusher.Flush()
			case event := <-events:
				fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, event.Data)
				flusher.Flush()
			}
		}
	})
}
