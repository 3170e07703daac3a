package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"sail/internal/crypto"
)

// Put encodes v as JSON, encrypts it and atomically replaces the record
// named key. On failure the previous record, if any, is left intact.
func (s *Store) Put(key string, v any) (err error) {
	defer func() { s.metrics.StoreOp(s.namespace, "put", err) }()

	if err := validateName(key); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	plain, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", ErrWrite, key, err)
	}
	defer crypto.Wipe(plain)

	return s.withLock(ErrWrite, func() error {
		blob, err := crypto.Seal(s.key.Bytes(), plain, s.ad(key))
		if err != nil {
			return fmt.Errorf("%w: seal %q: %w", ErrWrite, key, err)
		}
		if err := writeFile(s.recordPath(key), blob, fileMode); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrWrite, key, err)
		}
		s.log.Debug("record written", "record", key, "bytes", len(blob))
		return nil
	})
}

// Get decrypts the record named key into v. It reports false when no such
// record exists. A record that fails authentication or decoding yields
// ErrCorrupt and is never reported as missing.
func (s *Store) Get(key string, v any) (found bool, err error) {
	defer func() { s.metrics.StoreOp(s.namespace, "get", err) }()

	if err := validateName(key); err != nil {
		return false, err
	}
	err = s.withLock(nil, func() error {
		data, err := readFile(s.recordPath(key))
		if err != nil {
			return fmt.Errorf("store: read %q: %w", key, err)
		}
		if data == nil {
			return nil
		}
		plain, err := crypto.Open(s.key.Bytes(), data, s.ad(key))
		if err != nil {
			return fmt.Errorf("%w: %s/%s: %w", ErrCorrupt, s.namespace, key, err)
		}
		defer crypto.Wipe(plain)

		if err := json.Unmarshal(plain, v); err != nil {
			return fmt.Errorf("%w: %s/%s: %w", ErrCorrupt, s.namespace, key, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Has reports whether a record named key exists.
func (s *Store) Has(key string) (bool, error) {
	if err := validateName(key); err != nil {
		return false, err
	}
	var ok bool
	err := s.withLock(nil, func() error {
		_, err := os.Stat(s.recordPath(key))
		switch {
		case err == nil:
			ok = true
		case errors.Is(err, os.ErrNotExist):
		default:
			return err
		}
		return nil
	})
	return ok, err
}

// Keys lists the record names in the namespace in lexical order.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.withLock(nil, func() error {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			name := e.Name()
			if !e.Type().IsRegular() || !strings.HasSuffix(name, recordExt) {
				continue
			}
			key := strings.TrimSuffix(name, recordExt)
			if validateName(key) == nil {
				keys = append(keys, key)
			}
		}
		return nil
	})
	return keys, err
}
