// Package domain defines the network modes, the identity variants bound to
// them and the persisted configuration snapshot.
// It contains plain types only; storage and orchestration live elsewhere.
package domain
