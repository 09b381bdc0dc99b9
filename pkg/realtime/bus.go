package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Bus transports events between publishers and subscribers. The in-memory
// bus serves a single process; the Redis bus fans out across instances.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, channel string, handler func(Event)) (Subscription, error)
	Close() error
}

// Subscription represents a cancelable bus subscription.
type Subscription interface {
	Close() error
}

// InMemoryBus is a local-only pub/sub bus.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]map[uint64]func(Event)
	nextID   uint64
}

// NewInMemoryBus creates a local in-memory bus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]map[uint64]func(Event))}
}

// Publish delivers the event to subscribed handlers in the same process.
func (b *InMemoryBus) Publish(_ context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Channel]
	copied := make([]func(Event), 0, len(handlers))
	for _, h := range handlers {
		copied = append(copied, h)
	}
	b.mu.RUnlock()

	for _, h := range copied {
		h(event)
	}
	return nil
}

// Subscribe registers a channel handler.
func (b *InMemoryBus) Subscribe(_ context.Context, channel string, handler func(Event)) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	if b.handlers[channel] == nil {
		b.handlers[channel] = make(map[uint64]func(Event))
	}
	id := b.nextID
	b.handlers[channel][id] = handler
	return &subscription{closeFn: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[channel], id)
		if len(b.handlers[channel]) == 0 {
			delete(b.handlers, channel)
		}
	}}, nil
}

// Close is a no-op for the in-memory bus.
func (b *InMemoryBus) Close() error { return nil }

type subscription struct {
	once    sync.Once
	closeFn func()
}

func (s *subscription) Close() error {
	s.once.Do(s.closeFn)
	return nil
}

// RedisBusConfig configures the Redis pub/sub bus.
type RedisBusConfig struct {
	URL              string
	Prefix           string
	OperationTimeout time.Duration
}

// RedisBus uses Redis pub/sub for distributed fan-out.
type RedisBus struct {
	client    *redis.Client
	prefix    string
	opTimeout time.Duration
}

// NewRedisBus creates a Redis-backed bus.
func NewRedisBus(cfg RedisBusConfig) (*RedisBus, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "realtime"
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 3 * time.Second
	}

	return &RedisBus{
		client:    redis.NewClient(opts),
		prefix:    prefix,
		opTimeout: cfg.OperationTimeout,
	}, nil
}

// Publish pushes the event to the prefixed Redis channel.
func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	opCtx, cancel := context.WithTimeout(ctx, b.opTimeout)
	defer cancel()
	return b.client.Publish(opCtx, b.channelKey(event.Channel), raw).Err()
}

// Subscribe consumes the prefixed Redis channel until the subscription or
// the context is closed.
func (b *RedisBus) Subscribe(ctx context.Context, channel string, handler func(Event)) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, b.channelKey(channel))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			handler(event)
		}
	}()

	return &subscription{closeFn: func() { _ = pubsub.Close() }}, nil
}

// HealthCheck pings the Redis server.
func (b *RedisBus) HealthCheck(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, b.opTimeout)
	defer cancel()
	return b.client.Ping(opCtx).Err()
}

// Close releases the Redis client.
func (b *RedisBus) Close() error {
	return b.client.Close()
}

func (b *RedisBus) channelKey(channel string) string {
	return b.prefix + ":" + channel
}
