package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/awnumar/memguard"
	"github.com/gofrs/flock"

	"sail/internal/crypto"
	"sail/internal/logging"
	"sail/internal/metrics"
)

const (
	secureDir = "secure"
	keyFile   = ".key"
	recordExt = ".enc"
	lockExt   = ".lock"

	dirMode  os.FileMode = 0o700
	fileMode os.FileMode = 0o600

	maxNameLen = 128
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records operation counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithIterations sets the PBKDF2 iteration count used when a namespace key
// is first created. Values below crypto.MinIterations are raised.
func WithIterations(n int) Option {
	return func(s *Store) { s.iterations = crypto.ClampIterations(n) }
}

// Store is an encrypted, namespace-isolated record store rooted at
// <root>/secure/<namespace>. Calls on one Store are serialised; calls from
// different Stores or processes on the same namespace are serialised by an
// advisory lock file next to the namespace directory.
type Store struct {
	namespace string
	dir       string

	log        *slog.Logger
	metrics    *metrics.Metrics
	iterations int

	mu         sync.Mutex
	lock       *flock.Flock
	key        *memguard.LockedBuffer
	keyCreated bool
	closed     bool
}

// Dir returns the directory holding namespace's records under root.
func Dir(root, namespace string) string {
	return filepath.Join(root, secureDir, namespace)
}

// Open prepares the namespace directory and loads its key, creating the key
// on first use. Opening an existing namespace never regenerates its key.
func Open(root, namespace string, opts ...Option) (*Store, error) {
	if err := validateName(namespace); err != nil {
		return nil, fmt.Errorf("%w: namespace: %w", ErrInit, err)
	}
	s := &Store{
		namespace:  namespace,
		dir:        Dir(root, namespace),
		log:        logging.Discard(),
		iterations: crypto.DefaultIterations,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("namespace", namespace)

	err := s.init(root)
	s.metrics.StoreOp(namespace, "open", err)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init(root string) error {
	base := filepath.Join(root, secureDir)
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrInit, s.dir, err)
	}
	// MkdirAll honours umask and leaves existing directories alone.
	for _, dir := range []string{base, s.dir} {
		if err := os.Chmod(dir, dirMode); err != nil {
			return fmt.Errorf("%w: chmod %s: %w", ErrInit, dir, err)
		}
	}
	s.lock = flock.New(filepath.Join(base, s.namespace+lockExt))
	return s.withLock(ErrInit, s.loadOrCreateKey)
}

func (s *Store) loadOrCreateKey() error {
	path := filepath.Join(s.dir, keyFile)
	raw, err := readFile(path)
	if err != nil {
		return fmt.Errorf("%w: read key: %w", ErrInit, err)
	}
	if raw == nil {
		salt, err := crypto.NewSalt()
		if err != nil {
			return fmt.Errorf("%w: salt: %w", ErrInit, err)
		}
		raw = crypto.DeriveKey([]byte(s.namespace), salt, s.iterations)
		if err := writeNewFile(path, raw, fileMode); err != nil {
			crypto.Wipe(raw)
			return fmt.Errorf("%w: write key: %w", ErrInit, err)
		}
		s.keyCreated = true
		s.log.Info("namespace key created", "iterations", s.iterations)
	} else if err := os.Chmod(path, fileMode); err != nil {
		crypto.Wipe(raw)
		return fmt.Errorf("%w: chmod key: %w", ErrInit, err)
	}
	if len(raw) != crypto.KeyBytes {
		crypto.Wipe(raw)
		return fmt.Errorf("%w: key file holds %d bytes, want %d", ErrInit, len(raw), crypto.KeyBytes)
	}
	// NewBufferFromBytes wipes raw.
	s.key = memguard.NewBufferFromBytes(raw)
	return nil
}

// withLock runs fn holding both the in-process mutex and the namespace
// lock file. Lock failures are wrapped in kind when it is non-nil.
func (s *Store) withLock(kind error, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.lock.Lock(); err != nil {
		if kind != nil {
			return fmt.Errorf("%w: lock namespace %q: %w", kind, s.namespace, err)
		}
		return fmt.Errorf("store: lock namespace %q: %w", s.namespace, err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn("namespace unlock failed", "err", err)
		}
	}()
	return fn()
}

// Namespace returns the namespace name.
func (s *Store) Namespace() string { return s.namespace }

// Dir returns the namespace directory.
func (s *Store) Dir() string { return s.dir }

// KeyCreated reports whether Open created the namespace key rather than
// loading an existing one.
func (s *Store) KeyCreated() bool { return s.keyCreated }

// Close releases the in-memory key. The store cannot be used afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
	return nil
}

func (s *Store) release() {
	if s.key != nil {
		s.key.Destroy()
		s.key = nil
	}
	s.closed = true
}

func (s *Store) recordPath(key string) string {
	return filepath.Join(s.dir, key+recordExt)
}

// ad binds a ciphertext to its namespace and record name.
func (s *Store) ad(key string) []byte {
	return []byte(s.namespace + "|" + key)
}

func validateName(name string) error {
	if len(name) == 0 || len(name) > maxNameLen || !nameRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// HasRecord reports whether namespace under root holds a record named key,
// without creating the namespace.
func HasRecord(root, namespace, key string) (bool, error) {
	if err := validateName(namespace); err != nil {
		return false, err
	}
	if err := validateName(key); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(Dir(root, namespace), key+recordExt))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	}
	return false, err
}
