package utils

import (
	"testing"

	"shop_engine/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef"
	config.GlobalConfig.JWT.Expire = 1

	t.Run("Generated token parses back to the same claims", func(t *testing.T) {
		token, expireAt, err := GenerateToken("user-1", RoleAdmin)
		require.NoError(t, err)
		require.NotNil(t, expireAt)

		claims, err := ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, RoleAdmin, claims.Role)
	})

	t.Run("Tampered token is rejected", func(t *testing.T) {
		token, _, err := GenerateToken("user-1", RoleUser)
		require.NoError(t, err)

		_, err = ParseToken(token + "x")
		assert.Error(t, err)
	})
}

func TestGetPageOffset(t *testing.T) {
	p := Pagination{Page: 3, Limit: 500}
	offset, limit := p.GetPageOffset()
	assert.Equal(t, 100, limit)
	assert.Equal(t, 200, offset)

	p = Pagination{}
	offset, limit = p.GetPageOffset()
	assert.Equal(t, 0, offset)
	assert.Equal(t, 10, limit)
}
