package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1 := DeriveKey([]byte("admin123"), salt)
	k2 := DeriveKey([]byte("admin123"), salt)
	k3 := DeriveKey([]byte("staff123"), salt)

	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h := HashPassword("admin123")
	require.True(t, IsHashed(h))
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=1,p=4$"))

	ok, err := VerifyPassword(h, "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(h, "admin124")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltIsRandom(t *testing.T) {
	assert.NotEqual(t, HashPassword("same"), HashPassword("same"))
}

func TestVerifyPassword_LegacyPlaintext(t *testing.T) {
	ok, err := VerifyPassword("staff123", "staff123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("staff123", "Staff123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	tests := []string{
		"$argon2id$v=19$m=65536,t=1,p=4$onlysalt",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			_, err := VerifyPassword(s, "x")
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}
