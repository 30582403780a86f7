package hashing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswords_HashAndCompare(t *testing.T) {
	p := NewPasswords(bcrypt.MinCost)

	h, err := p.Hash("zaatar-2024")
	require.NoError(t, err)
	assert.NotEqual(t, "zaatar-2024", h)

	assert.True(t, p.Compare(h, "zaatar-2024"))
	assert.False(t, p.Compare(h, "zaatar-2025"))
	assert.False(t, p.Compare("", ""))
}

func TestPasswords_RejectsOverlongInput(t *testing.T) {
	p := NewPasswords(bcrypt.MinCost)

	_, err := p.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = p.Hash(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)
}

func TestNewPasswords_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswords(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswords(1).cost)
	assert.Equal(t, bcrypt.MaxCost, NewPasswords(99).cost)
}
