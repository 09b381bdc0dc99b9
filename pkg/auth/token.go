package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and validates the HS256 login tokens that establish
// the identity context at the request boundary.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. The secret must be non-empty.
func NewTokenManager(secret string, ttl time.Duration, issuer string) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue signs a token carrying the identity's id, fullname, and admin flag.
func (m *TokenManager) Issue(identity Identity) (string, error) {
	if identity.ID == "" {
		return "", fmt.Errorf("identity id is required")
	}
	now := m.now()
	claims := jwt.MapClaims{
		"sub":      identity.ID,
		"fullname": identity.Fullname,
		"admin":    identity.IsAdmin,
		"iss":      m.issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, issuer, and expiry, and extracts the identity.
func (m *TokenManager) Validate(tokenString string) (*Identity, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	identity := &Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.ID = sub
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("token is missing subject")
	}
	if fullname, ok := claims["fullname"].(string); ok {
		identity.Fullname = fullname
	}
	if admin, ok := claims["admin"].(bool); ok {
		identity.IsAdmin = admin
	}
	return identity, nil
}
