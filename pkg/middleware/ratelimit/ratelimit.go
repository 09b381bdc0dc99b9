// Package ratelimit provides per-client request rate limiting.
package ratelimit

import (
	"net"
	"strconv"
	"sync"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	"golang.org/x/time/rate"
)

// Limiter decides whether a request for a key is allowed. Implementations
// must be safe for concurrent use.
type Limiter interface {
	Allow(key string) bool
}

// TokenBucketLimiter keeps one token bucket per key.
type TokenBucketLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewTokenBucketLimiter creates a limiter allowing requestsPerSecond on
// average with the given burst capacity per key.
func NewTokenBucketLimiter(requestsPerSecond, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{rate: rate.Limit(requestsPerSecond), burst: burst}
}

func (l *TokenBucketLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *TokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// Config configures the rate limiting middleware.
type Config struct {
	RequestsPerSecond int
	Burst             int
	// KeyFunc extracts the limiting key. Defaults to the client IP.
	KeyFunc func(router.Context) string
	// RetryAfterSeconds is sent on rejected requests. Defaults to 1.
	RetryAfterSeconds int
}

// ClientIP extracts the client address without the port.
func ClientIP(c router.Context) string {
	host, _, err := net.SplitHostPort(c.Request().RemoteAddr)
	if err != nil {
		return c.Request().RemoteAddr
	}
	return host
}

// RateLimit creates middleware that rejects requests over the limit with
// 429 and a Retry-After header.
func RateLimit(limiter Limiter, cfg Config) router.MiddlewareFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIP
	}
	retryAfter := cfg.RetryAfterSeconds
	if retryAfter <= 0 {
		retryAfter = 1
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !limiter.Allow(keyFunc(c)) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return apperr.NewTooManyRequests("rate limit exceeded")
			}
			return next(c)
		}
	}
}
