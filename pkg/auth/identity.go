// Package auth provides request identity, login tokens, and the
// authorization guard.
package auth

import "context"

// Identity is the authenticated caller bound to one in-flight request's
// entire call chain. It is established once at the request boundary and read,
// never written, by downstream logic.
type Identity struct {
	ID       string `json:"_id"`
	Fullname string `json:"fullname"`
	IsAdmin  bool   `json:"isAdmin"`
}

// identityContextKey is unexported so only this package can write the value.
type identityContextKey struct{}

// WithIdentity stores the identity on the context. Each request gets its own
// context chain, so concurrent requests never observe each other's identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the identity established for this request, or
// nil for an anonymous request. It never fails.
func IdentityFromContext(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	if identity, ok := ctx.Value(identityContextKey{}).(*Identity); ok {
		return identity
	}
	return nil
}
