package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	tok1, err := NewSessionToken(42, "admin")
	require.NoError(t, err)
	tok2, err := NewSessionToken(42, "admin")
	require.NoError(t, err)

	require.NotEqual(t, tok1, tok2, "tokens for the same user must be unlinkable")
	require.Len(t, tok1, 64)
	_, err = hex.DecodeString(tok1)
	require.NoError(t, err)
}

func TestDeriveToken_Deterministic(t *testing.T) {
	a := deriveToken(7, "user", "nonce")
	require.Equal(t, a, deriveToken(7, "user", "nonce"))
	require.NotEqual(t, a, deriveToken(7, "admin", "nonce"))
	require.NotEqual(t, a, deriveToken(8, "user", "nonce"))
}
