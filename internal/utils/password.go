package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// SaltLength is the number of characters in a password salt.
	SaltLength = 16
)

// PasswordParams are the argon2id cost settings used for password digests.
type PasswordParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultPasswordParams follows the OWASP argon2id baseline (19 MiB, t=2, p=1).
var DefaultPasswordParams = PasswordParams{Time: 2, Memory: 19 * 1024, Threads: 1, KeyLen: 32}

// HashPassword returns a fresh salt and the encoded argon2id digest of
// password||salt. The encoding carries the cost settings:
//
//	$argon2id$v=19$m=<KiB>,t=<passes>,p=<threads>$<hex key>
//
// so stored hashes keep verifying after the configured settings change.
func HashPassword(plain string, p PasswordParams) (salt, hash string, err error) {
	salt, err = RandomString(SaltLength)
	if err != nil {
		return "", "", err
	}
	key := argon2.IDKey([]byte(plain+salt), []byte(salt), p.Time, p.Memory, p.Threads, p.KeyLen)
	return salt, encodeHash(p, key), nil
}

// VerifyPassword recomputes the digest with the stored salt and the cost
// settings recorded in hash, and compares in constant time.
func VerifyPassword(plain, salt, hash string) bool {
	p, want, err := decodeHash(hash)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(plain+salt), []byte(salt), p.Time, p.Memory, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// HashParams reports the cost settings recorded in an encoded hash.
func HashParams(hash string) (PasswordParams, error) {
	p, _, err := decodeHash(hash)
	return p, err
}

func encodeHash(p PasswordParams, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version, p.Memory, p.Time, p.Threads, hex.EncodeToString(key))
}

func decodeHash(hash string) (PasswordParams, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", key
	parts := strings.Split(hash, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "argon2id" {
		return PasswordParams{}, nil, fmt.Errorf("password hash: unknown format")
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return PasswordParams{}, nil, fmt.Errorf("password hash: unsupported version %q", parts[2])
	}
	var p PasswordParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return PasswordParams{}, nil, fmt.Errorf("password hash: params: %w", err)
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return PasswordParams{}, nil, fmt.Errorf("password hash: zero cost setting")
	}
	key, err := hex.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return PasswordParams{}, nil, fmt.Errorf("password hash: bad key")
	}
	p.KeyLen = uint32(len(key))
	return p, key, nil
}

// RandomString draws n characters from [A-Za-z0-9] using crypto/rand.
func RandomString(n int) (string, error) {
	max := big.NewInt(int64(len(alphanumeric)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out), nil
}
