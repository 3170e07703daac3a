package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a 20-char hex tag for data: the first 10 bytes of its
// SHA-256. Log redaction uses it to stand in for wallet and onion addresses.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:10])
}
