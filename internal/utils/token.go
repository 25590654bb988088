package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// NonceLength is the number of random characters mixed into every session token.
const NonceLength = 32

// NewSessionToken derives an opaque bearer token from the user id, the role
// and a fresh random nonce. Two calls for the same user never yield the same
// token and the token reveals nothing about its inputs.
func NewSessionToken(userID uint64, role string) (string, error) {
	nonce, err := RandomString(NonceLength)
	if err != nil {
		return "", err
	}
	return deriveToken(userID, role, nonce), nil
}

func deriveToken(userID uint64, role, nonce string) string {
	sum := sha256.Sum256([]byte(strconv.FormatUint(userID, 10) + "-" + role + "-" + nonce))
	return hex.EncodeToString(sum[:])
}
