package auth

import (
	"context"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
)

// Guard decides whether the current identity may mutate a resource owned by
// some user. The rule, in order:
//
//   - no identity            -> unauthenticated
//   - identity.ID == ownerID -> allowed
//   - identity is admin      -> allowed regardless of ownership
//   - otherwise              -> forbidden
type Guard struct{}

// CanMutate returns nil when the identity on ctx may mutate the resource
// owned by ownerID, or a classified error otherwise. Authorization failures
// are terminal for the request; nothing may be mutated after one.
func (Guard) CanMutate(ctx context.Context, ownerID string) error {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return apperr.NewUnauthenticated("login required")
	}
	if identity.ID == ownerID || identity.IsAdmin {
		return nil
	}
	return apperr.NewForbidden("not the owner of this resource")
}

// RequireAdmin returns nil only when the identity on ctx has the admin flag.
func (Guard) RequireAdmin(ctx context.Context) error {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return apperr.NewUnauthenticated("login required")
	}
	if !identity.IsAdmin {
		return apperr.NewForbidden("admin privileges required")
	}
	return nil
}
