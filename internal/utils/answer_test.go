package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "fluffy", NormalizeAnswer("  Fluffy "))
	assert.Equal(t, "fluffy", NormalizeAnswer("FLUFFY"))
	assert.Equal(t, "", NormalizeAnswer("   "))
}

func TestHashAndVerifyAnswer(t *testing.T) {
	hash, err := HashAnswer("Fluffy", bcrypt.MinCost)
	require.NoError(t, err)

	// Casing and whitespace differences still verify.
	assert.True(t, VerifyAnswer(hash, "fluffy"))
	assert.True(t, VerifyAnswer(hash, "  FLUFFY  "))
	assert.False(t, VerifyAnswer(hash, "rex"))
	assert.False(t, VerifyAnswer(hash, ""))
}

func TestVerifyAnswerBadHash(t *testing.T) {
	assert.False(t, VerifyAnswer("not-a-bcrypt-hash", "fluffy"))
}
