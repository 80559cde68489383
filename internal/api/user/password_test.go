package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)

	ok, err := h.Compare("s3cretpass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare("wrong-pass", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasherInvalidCost(t *testing.T) {
	for _, cost := range []int{0, -3, 99} {
		assert.Equal(t, defaultBcryptCost, BcryptHasher{Cost: cost}.cost())
	}
	assert.Equal(t, 12, BcryptHasher{Cost: 12}.cost())
}

func TestArgon2idHasher(t *testing.T) {
	h := Argon2idHasher{}

	hash, err := h.Hash("s3cretpass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := h.Compare("s3cretpass", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewPasswordHasher(t *testing.T) {
	assert.IsType(t, Argon2idHasher{}, NewPasswordHasher("argon2id", 0))
	assert.IsType(t, BcryptHasher{}, NewPasswordHasher("bcrypt", 10))
	assert.IsType(t, BcryptHasher{}, NewPasswordHasher("", 10))
}
