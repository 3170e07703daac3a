// Package crypto exposes the minimal primitives used by sail.
//
// Contents
//
//   - PBKDF2-HMAC-SHA256 key derivation with an iteration floor (DeriveKey)
//   - XChaCha20-Poly1305 envelopes with an authenticated versioned header (Seal, Open)
//   - Best-effort memory wiping and random overwrite of buffers (Wipe, Scramble)
//   - Short fingerprints for display/logging (Fingerprint)
//   - Random anonymous identifiers (NewAnonymousID)
//
// # Notes
//
// Callers should treat derived keys as sensitive and rely on Wipe when
// practical to reduce their lifetime in memory.
package crypto
