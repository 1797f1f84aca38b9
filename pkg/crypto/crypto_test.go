package crypto

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	require.True(t, VerifyPassword(hash, "password123"))
	require.False(t, VerifyPassword(hash, "Password123"))
	require.False(t, VerifyPassword(hash, ""))
}

func TestGenerateVerificationCode(t *testing.T) {
	hexCode := regexp.MustCompile(`^[0-9a-f]{6}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 32; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.Regexp(t, hexCode, code)
		seen[code] = struct{}{}
	}
	// 32 draws from a 16.7M space colliding down to one value would mean a
	// broken random source
	require.Greater(t, len(seen), 1)
}

func TestGenerateTokenLength(t *testing.T) {
	token, err := GenerateToken(48)
	require.NoError(t, err)
	require.Len(t, token, 64) // base64 without padding: ceil(48*4/3)
}
