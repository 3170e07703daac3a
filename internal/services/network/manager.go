package network

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"sail/internal/domain"
	"sail/internal/logging"
	"sail/internal/metrics"
	"sail/internal/onion"
	"sail/internal/store"
	"sail/internal/wallet"
)

var (
	// ErrIdentityModeMismatch is returned when an identity variant does not belong to the active mode.
	ErrIdentityModeMismatch = errors.New("identity does not match the active network mode")
	// ErrInvalidIdentity is returned when identity fields fail validation.
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrInvalidMode is returned for modes other than Standard and Tor.
	ErrInvalidMode = errors.New("invalid network mode")
)

// SwitchHook is called after a mode switch has been committed.
type SwitchHook func(from, to domain.Mode)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager and its stores.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithMetrics records switch and store counters on mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithIterations sets the PBKDF2 iteration count for newly created namespace keys.
func WithIterations(n int) Option {
	return func(m *Manager) { m.iterations = n }
}

// WithSwitchHook registers fn to run after every committed switch.
func WithSwitchHook(fn SwitchHook) Option {
	return func(m *Manager) {
		if fn != nil {
			m.hooks = append(m.hooks, fn)
		}
	}
}

// Manager is the single owner of the active mode and the identity bound to
// it. Every transition goes through the encrypted store of the mode involved.
type Manager struct {
	root string

	log        *slog.Logger
	metrics    *metrics.Metrics
	iterations int
	hooks      []SwitchHook

	mu       sync.Mutex
	mode     domain.Mode
	identity domain.Identity
	store    *store.Store
}

// New loads the persisted snapshot under root. The Standard namespace is
// consulted first; if it holds no snapshot, the Tor namespace is used when
// it already holds one. Otherwise the manager starts in Standard mode with
// no identity.
func New(root string, opts ...Option) (*Manager, error) {
	m := &Manager{root: root, log: logging.Discard()}
	for _, opt := range opts {
		opt(m)
	}

	mode := domain.ModeStandard
	hasStandard, err := store.HasRecord(root, domain.ModeStandard.Namespace(), domain.ConfigKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInit, err)
	}
	if !hasStandard {
		hasTor, err := store.HasRecord(root, domain.ModeTor.Namespace(), domain.ConfigKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", store.ErrInit, err)
		}
		if hasTor {
			mode = domain.ModeTor
		}
	}

	s, err := m.open(mode)
	if err != nil {
		return nil, err
	}
	var snap domain.Snapshot
	found, err := s.Get(domain.ConfigKey, &snap)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	m.store = s
	m.mode = mode
	if found {
		if snap.Mode != mode {
			_ = s.Close()
			return nil, fmt.Errorf("%w: %s namespace holds a %s snapshot", store.ErrCorrupt, mode, snap.Mode)
		}
		m.identity = snap.Identity
	}
	m.log.Info("network manager loaded", "mode", mode, "identity_set", m.identity != nil)
	return m, nil
}

func (m *Manager) open(mode domain.Mode) (*store.Store, error) {
	return store.Open(m.root, mode.Namespace(),
		store.WithLogger(m.log),
		store.WithMetrics(m.metrics),
		store.WithIterations(m.iterations),
	)
}

// CurrentMode returns the active mode.
func (m *Manager) CurrentMode() domain.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// CurrentIdentity returns the identity bound to the active mode, or nil.
func (m *Manager) CurrentIdentity() domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// Features returns the feature set of the active mode.
func (m *Manager) Features() domain.Features {
	return m.CurrentMode().Features()
}

// Store returns the store of the active namespace.
func (m *Manager) Store() *store.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store
}

// SwitchMode wipes the active namespace and activates target with an empty
// identity. Switching to the active mode is a no-op. If the wipe fails the
// manager is left exactly as it was and the wipe error is returned.
func (m *Manager) SwitchMode(target domain.Mode) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, target)
	}

	m.mu.Lock()
	from := m.mode
	if target == from {
		m.mu.Unlock()
		return nil
	}
	if err := m.store.SecureWipe(); err != nil {
		m.mu.Unlock()
		m.log.Error("mode switch aborted", "from", from, "to", target, "err", err)
		return err
	}
	// The old namespace is gone; memory must not outlive it.
	m.identity = nil

	next, err := m.open(target)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if err := next.Put(domain.ConfigKey, domain.Snapshot{Mode: target}); err != nil {
		_ = next.Close()
		m.mu.Unlock()
		return err
	}
	_ = m.store.Close()
	m.store = next
	m.mode = target
	hooks := m.hooks
	m.mu.Unlock()

	m.metrics.ModeSwitch(from.String(), target.String())
	m.log.Info("network mode switched", "from", from, "to", target)
	for _, fn := range hooks {
		fn(from, target)
	}
	return nil
}

// SetIdentity validates id against the active mode, persists the snapshot
// and only then makes id current.
func (m *Manager) SetIdentity(id domain.Identity) error {
	id = domain.Canonical(id)
	if id == nil {
		return fmt.Errorf("%w: nil identity", ErrInvalidIdentity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if got := domain.ModeOf(id); got != m.mode {
		return fmt.Errorf("%w: %s identity in %s mode", ErrIdentityModeMismatch, got, m.mode)
	}
	id, err := validate(id)
	if err != nil {
		return err
	}
	if err := m.store.Put(domain.ConfigKey, domain.Snapshot{Mode: m.mode, Identity: id}); err != nil {
		return err
	}
	m.identity = id
	m.log.Info("identity set", "mode", m.mode, "identity_id", id.ID())
	return nil
}

// ClearAll wipes the active namespace and forgets the identity. The mode is
// kept and written back as an empty snapshot, so a restart stays in it. If
// the wipe fails the identity stays in memory and the returned
// *store.WipeError names the files that survived.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SecureWipe(); err != nil {
		return err
	}
	m.identity = nil
	if err := m.store.Put(domain.ConfigKey, domain.Snapshot{Mode: m.mode}); err != nil {
		return err
	}
	m.log.Info("network data cleared", "mode", m.mode)
	return nil
}

// Close releases the active store's key material.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}

// validate checks identity fields and returns the normalized identity.
func validate(id domain.Identity) (domain.Identity, error) {
	switch v := id.(type) {
	case domain.StandardIdentity:
		addr, err := wallet.Normalize(v.WalletAddress)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
		}
		v.WalletAddress = addr
		v.Username = strings.TrimSpace(v.Username)
		if v.Username == "" {
			return nil, fmt.Errorf("%w: username is required", ErrInvalidIdentity)
		}
		return v, nil
	case domain.TorIdentity:
		addr, err := onion.Normalize(v.OnionAddress)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
		}
		v.OnionAddress = addr
		v.AnonymousID = strings.TrimSpace(v.AnonymousID)
		if v.AnonymousID == "" {
			return nil, fmt.Errorf("%w: anonymous id is required", ErrInvalidIdentity)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: unsupported identity type %T", ErrInvalidIdentity, id)
}
