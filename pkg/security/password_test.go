package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/storefront-backend/pkg/config"
)

func TestHashAndVerify(t *testing.T) {
	cfg := config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

	encoded, err := HashPassword("hunter2-but-longer", cfg)
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")

	ok, err := VerifyPassword("hunter2-but-longer", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "$bcrypt$not-argon")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	_, err := HashPassword("", config.PasswordConfig{})
	require.Error(t, err)
}
