package crypto

import (
	"crypto/rand"

	"github.com/mr-tron/base58"
)

const anonIDBytes = 9

// NewAnonymousID returns a random, human-copyable identifier of the form
// "anon_<base58>".
func NewAnonymousID() (string, error) {
	var b [anonIDBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "anon_" + base58.Encode(b[:]), nil
}
