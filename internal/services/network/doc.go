// Package network owns the active network mode (Standard or Tor) and the
// identity bound to it.
//
// Each mode keeps its state in its own encrypted store namespace. Switching
// modes securely wipes the old namespace before the new one is activated,
// so at most one mode's identity exists on disk at any time. Identities are
// only attached to the mode they belong to, and the in-memory identity is
// only updated after the snapshot has been persisted.
package network
