// Package store provides encrypted, namespace-isolated persistence.
//
// Each namespace lives in its own owner-only directory with its own
// symmetric key:
//
//	<root>/secure/<namespace>/.key          32-byte key, created once, 0600
//	<root>/secure/<namespace>/<record>.enc  sealed JSON record, 0600
//	<root>/secure/<namespace>.lock          advisory lock file
//
// Records are JSON-encoded, sealed with XChaCha20-Poly1305 bound to their
// namespace and name, and written via temp file and rename so a crash never
// leaves a partial record behind. SecureWipe scrubs records with random
// bytes before removing them and keeps the key; Destroy removes the key too.
package store
