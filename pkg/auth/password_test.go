package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.NoError(t, VerifyPassword("s3cret-pass", hash))
	assert.ErrorIs(t, VerifyPassword("wrong-pass", hash), ErrPasswordMismatch)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Rejections(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", maxPasswordLength+1))
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
	} {
		err := VerifyPassword("whatever", encoded)
		assert.Error(t, err, "hash %q should be rejected", encoded)
		assert.NotErrorIs(t, err, ErrPasswordMismatch)
	}
}
