package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordFormat(t *testing.T) {
	stored, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	salt, hash, ok := strings.Cut(stored, ":")
	require.True(t, ok, "stored hash must be salt:hash")
	assert.Len(t, salt, 32, "16 salt bytes hex encoded")
	assert.Len(t, hash, 128, "64 key bytes hex encoded")
}

func TestVerifyPassword(t *testing.T) {
	stored, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("s3cret-pass", stored))
	assert.False(t, VerifyPassword("s3cret-pasS", stored))
	assert.False(t, VerifyPassword("", stored))
}

func TestVerifyPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash uses a fresh salt")
	assert.True(t, VerifyPassword("same-password", first))
	assert.True(t, VerifyPassword("same-password", second))
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	cases := []string{
		"",
		"no-separator",
		"zz:abcd",
		"abcd:zz",
		":",
	}
	for _, stored := range cases {
		assert.False(t, VerifyPassword("anything", stored), "stored=%q", stored)
	}
}
