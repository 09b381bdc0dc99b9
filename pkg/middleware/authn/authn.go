// Package authn establishes the request identity from a login token.
package authn

import (
	"strings"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/auth"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// LoginTokenCookie is the cookie browsers carry the login token in.
const LoginTokenCookie = "loginToken"

// Authenticate resolves the login token from the Authorization header or the
// loginToken cookie and binds the resulting identity to the request context.
// Requests without a valid token proceed anonymously; routes that need an
// identity enforce it with RequireAuth or RequireAdmin.
func Authenticate(tokens *auth.TokenManager) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			tokenString := bearerToken(c)
			if tokenString == "" {
				if cookie, err := c.Cookie(LoginTokenCookie); err == nil {
					tokenString = cookie.Value
				}
			}
			if tokenString == "" {
				return next(c)
			}

			identity, err := tokens.Validate(tokenString)
			if err != nil {
				// An expired or forged token gets the same treatment as no
				// token at all.
				return next(c)
			}

			ctx := auth.WithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if auth.IdentityFromContext(c.Request().Context()) == nil {
				return apperr.NewUnauthenticated("login required")
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects requests whose identity lacks the admin flag.
func RequireAdmin() router.MiddlewareFunc {
	guard := auth.Guard{}
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if err := guard.RequireAdmin(c.Request().Context()); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func bearerToken(c router.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
