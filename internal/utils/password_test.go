package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-pass-1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass-1", hash)

	assert.True(t, CheckPasswordHash("secret-pass-1", hash))
	assert.False(t, CheckPasswordHash("secret-pass-2", hash))
}

func TestValidatePassword(t *testing.T) {
	t.Run("accepts letters and numbers", func(t *testing.T) {
		assert.NoError(t, ValidatePassword("password1"))
	})

	t.Run("too short", func(t *testing.T) {
		assert.Error(t, ValidatePassword("pass1"))
	})

	t.Run("letters only", func(t *testing.T) {
		assert.Error(t, ValidatePassword("passwordonly"))
	})

	t.Run("numbers only", func(t *testing.T) {
		assert.Error(t, ValidatePassword("1234567890"))
	})
}

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference("ORD")

	assert.Regexp(t, regexp.MustCompile(`^ORD_\d{8}_[A-Z0-9]{8}$`), ref)
	assert.NotEqual(t, ref, GenerateReference("ORD"))
}
