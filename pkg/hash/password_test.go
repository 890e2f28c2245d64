package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hashed, err := h.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hashed)

	assert.NoError(t, h.ComparePassword(hashed, "correct horse"))
	assert.ErrorIs(t, h.ComparePassword(hashed, "battery staple"), ErrPasswordMismatch)
	assert.Error(t, h.ComparePassword("not-a-hash", "x"))
}
