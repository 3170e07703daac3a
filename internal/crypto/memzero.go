package crypto

import (
	"crypto/rand"

	"github.com/awnumar/memguard"
)

// Wipe zeroes the provided buffer.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}

// Scramble overwrites b with random bytes.
func Scramble(b []byte) error {
	_, err := rand.Read(b)
	return err
}
