package health

import (
	"context"
	"time"
)

// Checkable is implemented by components that can report their health, such
// as the MongoDB adapter and the Redis event bus.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// AdapterChecker adapts a Checkable component into a named, bounded checker.
type AdapterChecker struct {
	name    string
	adapter Checkable
	timeout time.Duration
}

// NewAdapterChecker wraps adapter under the given name. A zero timeout
// defaults to 5 seconds.
func NewAdapterChecker(name string, adapter Checkable, timeout time.Duration) *AdapterChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AdapterChecker{name: name, adapter: adapter, timeout: timeout}
}

func (c *AdapterChecker) Name() string { return c.name }

func (c *AdapterChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := CheckResult{Name: c.name, Timestamp: time.Now().UTC()}
	if err := c.adapter.HealthCheck(checkCtx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	} else {
		result.Status = StatusHealthy
	}
	result.Duration = time.Since(start)
	return result
}
