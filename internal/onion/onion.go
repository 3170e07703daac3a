// Package onion checks Tor onion service addresses. Creating hidden services
// is the Tor controller's job; this package only validates what it reports.
package onion

import (
	stded25519 "crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/cretz/bine/torutil"
	"github.com/cretz/bine/torutil/ed25519"
)

const (
	// Suffix terminates every onion address.
	Suffix = ".onion"

	v3IDLen = 56
)

// ErrInvalidAddress is returned for addresses that fail validation.
var ErrInvalidAddress = errors.New("invalid onion address")

// Normalize lowercases addr, trims whitespace and requires the .onion suffix.
func Normalize(addr string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(addr))
	if !strings.HasSuffix(a, Suffix) || len(a) == len(Suffix) {
		return "", fmt.Errorf("%w: %q must end in %s", ErrInvalidAddress, addr, Suffix)
	}
	return a, nil
}

// VerifyV3 checks that addr is a v3 onion address with a valid checksum and
// returns its normalized form.
func VerifyV3(addr string) (string, error) {
	a, err := Normalize(addr)
	if err != nil {
		return "", err
	}
	id := strings.TrimSuffix(a, Suffix)
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		// Subdomains address the same service.
		id = id[i+1:]
	}
	if len(id) != v3IDLen {
		return "", fmt.Errorf("%w: service id has %d characters, want %d", ErrInvalidAddress, len(id), v3IDLen)
	}
	if _, err := torutil.PublicKeyFromV3OnionServiceID(id); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return a, nil
}

// AddressFromPublicKey returns the v3 onion address for an ed25519 service key.
func AddressFromPublicKey(pub stded25519.PublicKey) string {
	return torutil.OnionServiceIDFromV3PublicKey(ed25519.PublicKey(pub)) + Suffix
}
