// Package wallet validates Solana wallet addresses used by Standard identities.
package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ErrInvalidAddress is returned for strings that are not base58 ed25519 public keys.
var ErrInvalidAddress = errors.New("invalid wallet address")

// ParseAddress decodes a base58 Solana public key and returns its canonical
// string form.
func ParseAddress(s string) (solana.PublicKey, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	pk, err := solana.PublicKeyFromBase58(trimmed)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return pk, nil
}

// Normalize returns the canonical base58 form of s.
func Normalize(s string) (string, error) {
	pk, err := ParseAddress(s)
	if err != nil {
		return "", err
	}
	return pk.String(), nil
}
