// Package realtime fans toy save/remove events out to connected clients.
// Publication is fire-and-forget; this layer owes no delivery guarantee.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// Event types emitted by the toy service.
const (
	EventToySaved   = "toy.saved"
	EventToyRemoved = "toy.removed"
)

var eventCounter uint64

// Event is the canonical message used by buses and the SSE handler.
type Event struct {
	ID        string          `json:"id"`
	Channel   string          `json:"channel"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent builds an event with an assigned id and timestamp. The payload is
// JSON-encoded; marshal failures fall back to an empty object so a bad
// payload never blocks publication.
func NewEvent(channel, eventType string, payload interface{}) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	now := time.Now().UTC()
	return Event{
		ID:        nextEventID(now),
		Channel:   channel,
		Type:      eventType,
		Data:      data,
		Timestamp: now,
	}
}

func nextEventID(now time.Time) string {
	seq := atomic.AddUint64(&eventCounter, 1)
	return fmt.Sprintf("%013d-%010d", now.UnixMilli(), seq)
}
