package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInit is returned when a namespace directory or key file cannot be created or read.
	ErrInit = errors.New("store: namespace init failed")
	// ErrWrite is returned when an atomic record write fails. The target is untouched.
	ErrWrite = errors.New("store: write failed")
	// ErrCorrupt is returned when an existing record cannot be decrypted or decoded.
	ErrCorrupt = errors.New("store: record corrupt")
	// ErrWipe is returned when one or more files survive a secure wipe.
	ErrWipe = errors.New("store: secure wipe failed")
	// ErrInvalidName is returned for namespace or record names that are not allowed.
	ErrInvalidName = errors.New("store: invalid name")
	// ErrClosed is returned by operations on a closed or destroyed store.
	ErrClosed = errors.New("store: closed")
)

// WipeFailure records one file that could not be scrubbed or removed.
type WipeFailure struct {
	Path string
	Err  error
}

// WipeError reports every file a secure wipe failed on. It matches ErrWipe.
type WipeError struct {
	Namespace string
	Failures  []WipeFailure
}

func (e *WipeError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Path, f.Err))
	}
	return fmt.Sprintf("%v: namespace %q: %d file(s) left: %s",
		ErrWipe, e.Namespace, len(e.Failures), strings.Join(parts, "; "))
}

// Paths returns the paths that were not wiped.
func (e *WipeError) Paths() []string {
	out := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Path)
	}
	return out
}

func (e *WipeError) Unwrap() []error {
	errs := []error{ErrWipe}
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
