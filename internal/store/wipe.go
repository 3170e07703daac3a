package store

import (
	"errors"
	"os"
	"path/filepath"

	"sail/internal/crypto"
)

const scrubChunk = 32 * 1024

// SecureWipe overwrites every file in the namespace except the key with
// random bytes of the same length and removes it. The key survives, so the
// namespace stays usable. Files that cannot be scrubbed are reported in a
// *WipeError; the wipe is not retried.
func (s *Store) SecureWipe() (err error) {
	defer func() { s.metrics.StoreOp(s.namespace, "wipe", err) }()
	return s.withLock(ErrWipe, s.wipeRecords)
}

// Destroy wipes the records, then the key, and removes the namespace
// directory. The store is closed afterwards.
func (s *Store) Destroy() (err error) {
	defer func() { s.metrics.StoreOp(s.namespace, "destroy", err) }()
	return s.withLock(ErrWipe, func() error {
		if err := s.wipeRecords(); err != nil {
			return err
		}
		keyPath := filepath.Join(s.dir, keyFile)
		if err := scrubFile(keyPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return s.wipeFailed([]WipeFailure{{Path: keyPath, Err: err}})
		}
		if err := os.Remove(s.dir); err != nil {
			return s.wipeFailed([]WipeFailure{{Path: s.dir, Err: err}})
		}
		s.release()
		s.log.Info("namespace destroyed")
		return nil
	})
}

func (s *Store) wipeRecords() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return s.wipeFailed([]WipeFailure{{Path: s.dir, Err: err}})
	}
	var failures []WipeFailure
	wiped := 0
	for _, e := range entries {
		if e.Name() == keyFile {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		switch {
		case e.Type()&os.ModeSymlink != 0:
			// Never write through a link; drop the link itself.
			err = os.Remove(path)
		case e.IsDir():
			err = errors.New("unexpected directory in namespace")
		default:
			err = scrubFile(path)
		}
		if err != nil {
			failures = append(failures, WipeFailure{Path: path, Err: err})
			continue
		}
		wiped++
	}
	if len(failures) > 0 {
		return s.wipeFailed(failures)
	}
	s.log.Info("namespace wiped", "files", wiped)
	return nil
}

func (s *Store) wipeFailed(failures []WipeFailure) error {
	s.metrics.WipeFailed(s.namespace, len(failures))
	werr := &WipeError{Namespace: s.namespace, Failures: failures}
	s.log.Error("secure wipe incomplete", "files", len(failures), "err", werr)
	return werr
}

// scrubFile overwrites path in place with random bytes, syncs, and removes it.
func scrubFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	buf := make([]byte, scrubChunk)
	for remaining := info.Size(); remaining > 0; {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		if err := crypto.Scramble(buf[:n]); err != nil {
			_ = f.Close()
			return err
		}
		if _, err := f.Write(buf[:n]); err != nil {
			_ = f.Close()
			return err
		}
		remaining -= n
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
