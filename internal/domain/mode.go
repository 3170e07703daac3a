package domain

import (
	"fmt"
	"strings"
)

// Mode is the active network operating context.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeTor      Mode = "tor"
)

// Modes lists every mode in a stable order.
var Modes = []Mode{ModeStandard, ModeTor}

// ParseMode accepts a mode name case-insensitively. "onion" is an alias for Tor.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ModeStandard):
		return ModeStandard, nil
	case string(ModeTor), "onion":
		return ModeTor, nil
	}
	return "", fmt.Errorf("unknown network mode %q", s)
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m == ModeStandard || m == ModeTor
}

// Namespace is the storage namespace that holds this mode's state.
func (m Mode) Namespace() string { return string(m) }

func (m Mode) String() string { return string(m) }
