package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// Envelope layout: magic (7) | version (1) | nonce (24) | ciphertext+tag.
// The header is authenticated along with the caller's associated data, so a
// change to any byte of the blob fails Open.
const (
	envelopeMagic   = "SAILENC"
	envelopeVersion = 1
	headerLen       = len(envelopeMagic) + 1
)

var (
	// ErrAuthFailed is returned when the ciphertext or its associated data was modified.
	ErrAuthFailed = errors.New("envelope authentication failed")
	// ErrInvalidEnvelope is returned when the blob is not a well-formed envelope.
	ErrInvalidEnvelope = errors.New("envelope is invalid")
)

func header() []byte {
	return append([]byte(envelopeMagic), envelopeVersion)
}

// Seal encrypts plaintext under key, binding ad, and returns the encoded envelope.
func Seal(key, plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	hdr := header()
	out := make([]byte, headerLen+aead.NonceSize(), headerLen+aead.NonceSize()+len(plaintext)+aead.Overhead())
	copy(out, hdr)
	nonce := out[headerLen:]
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(out, nonce, plaintext, append(hdr, ad...)), nil
}

// Open decodes an envelope produced by Seal and decrypts it.
func Open(key, data, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	hdr := header()
	if len(data) < headerLen+aead.NonceSize()+aead.Overhead() || !bytes.Equal(data[:headerLen], hdr) {
		return nil, ErrInvalidEnvelope
	}
	nonce := data[headerLen : headerLen+aead.NonceSize()]
	plaintext, err := aead.Open(nil, nonce, data[headerLen+aead.NonceSize():], append(hdr, ad...))
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
