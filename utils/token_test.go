package authUtils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, err := tm.Generate("64f1c0ffee", "citizen")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1c0ffee", userID)
	assert.Equal(t, "citizen", role)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Generate("abc", "admin")
	require.NoError(t, err)

	_, _, err = NewTokenManager("secret-b").Parse(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret")
	_, _, err := tm.Parse("not.a.token")
	assert.Error(t, err)
}

func TestGenerateWithoutSecret(t *testing.T) {
	tm := NewTokenManager("")
	_, err := tm.Generate("abc", "citizen")
	assert.Error(t, err)
}
