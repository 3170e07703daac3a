package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

const (
	KeyBytes  = chacha20poly1305.KeySize
	SaltBytes = 16

	// MinIterations is the floor applied to every PBKDF2 derivation.
	MinIterations = 100_000
	// DefaultIterations is used when the caller does not configure a count.
	DefaultIterations = 210_000
)

// NewSalt returns SaltBytes of fresh randomness.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey stretches secret into a KeyBytes key with PBKDF2-HMAC-SHA256.
// Iteration counts below MinIterations are raised to MinIterations.
func DeriveKey(secret, salt []byte, iterations int) []byte {
	return pbkdf2.Key(secret, salt, ClampIterations(iterations), KeyBytes, sha256.New)
}

// ClampIterations returns n, or DefaultIterations when n is unset, never
// less than MinIterations.
func ClampIterations(n int) int {
	switch {
	case n <= 0:
		return DefaultIterations
	case n < MinIterations:
		return MinIterations
	}
	return n
}
