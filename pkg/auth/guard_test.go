package auth

import (
	"context"
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

func TestGuard_CanMutate(t *testing.T) {
	guard := Guard{}
	owner := "64a0c2f3e1a1b2c3d4e5f601"

	t.Run("anonymous is unauthenticated", func(t *testing.T) {
		err := guard.CanMutate(context.Background(), owner)
		assert.True(t, apperr.IsUnauthenticated(err))
	})

	t.Run("owner is allowed", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), &Identity{ID: owner})
		assert.NoError(t, guard.CanMutate(ctx, owner))
	})

	t.Run("admin is allowed regardless of ownership", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), &Identity{ID: "someone-else", IsAdmin: true})
		assert.NoError(t, guard.CanMutate(ctx, owner))
	})

	t.Run("other non-admin is forbidden", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), &Identity{ID: "someone-else"})
		err := guard.CanMutate(ctx, owner)
		assert.True(t, apperr.IsForbidden(err))
	})
}

func TestGuard_RequireAdmin(t *testing.T) {
	guard := Guard{}

	err := guard.RequireAdmin(context.Background())
	assert.True(t, apperr.IsUnauthenticated(err))

	ctx := WithIdentity(context.Background(), &Identity{ID: "u1"})
	err = guard.RequireAdmin(ctx)
	assert.True(t, apperr.IsForbidden(err))

	ctx = WithIdentity(context.Background(), &Identity{ID: "u1", IsAdmin: true})
	assert.NoError(t, guard.RequireAdmin(ctx))
}

func TestIdentityContext_Isolation(t *testing.T) {
	base := context.Background()
	a := WithIdentity(base, &Identity{ID: "a"})
	b := WithIdentity(base, &Identity{ID: "b"})

	assert.Equal(t, "a", IdentityFromContext(a).ID)
	assert.Equal(t, "b", IdentityFromContext(b).ID)
	assert.Nil(t, IdentityFromContext(base))
	assert.Nil(t, IdentityFromContext(nil))
}
