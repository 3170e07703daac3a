package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ConfigKey is the record key under which the snapshot is stored.
const ConfigKey = "config"

var (
	// ErrUnknownVariant is returned when a stored identity carries an unrecognised tag.
	ErrUnknownVariant = errors.New("unknown identity variant")
	// ErrVariantMismatch is returned when a stored identity does not belong to the stored mode.
	ErrVariantMismatch = errors.New("identity variant does not match mode")
)

// Snapshot is the persisted {mode, identity} pair.
type Snapshot struct {
	Mode     Mode
	Identity Identity
}

type snapshotJSON struct {
	Mode     Mode            `json:"mode"`
	Identity json.RawMessage `json:"identity"`
}

type variantTag struct {
	Variant Mode `json:"variant"`
}

type standardJSON struct {
	Variant Mode `json:"variant"`
	StandardIdentity
}

type torJSON struct {
	Variant Mode `json:"variant"`
	TorIdentity
}

// MarshalJSON encodes the identity as a variant-tagged object, or null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var ident any
	switch v := Canonical(s.Identity).(type) {
	case nil:
		ident = nil
	case StandardIdentity:
		ident = standardJSON{Variant: ModeStandard, StandardIdentity: v}
	case TorIdentity:
		ident = torJSON{Variant: ModeTor, TorIdentity: v}
	}
	raw, err := json.Marshal(ident)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshotJSON{Mode: s.Mode, Identity: raw})
}

// UnmarshalJSON decodes a snapshot, rejecting unknown modes, unknown
// variants and variants that disagree with the mode.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Mode.Valid() {
		return fmt.Errorf("snapshot mode %q: %w", raw.Mode, ErrUnknownVariant)
	}
	out := Snapshot{Mode: raw.Mode}
	if len(raw.Identity) > 0 && string(raw.Identity) != "null" {
		var tag variantTag
		if err := json.Unmarshal(raw.Identity, &tag); err != nil {
			return err
		}
		switch tag.Variant {
		case ModeStandard:
			var v standardJSON
			if err := json.Unmarshal(raw.Identity, &v); err != nil {
				return err
			}
			out.Identity = v.StandardIdentity
		case ModeTor:
			var v torJSON
			if err := json.Unmarshal(raw.Identity, &v); err != nil {
				return err
			}
			out.Identity = v.TorIdentity
		default:
			return fmt.Errorf("identity variant %q: %w", tag.Variant, ErrUnknownVariant)
		}
		if ModeOf(out.Identity) != out.Mode {
			return fmt.Errorf("%s identity in %s snapshot: %w", tag.Variant, out.Mode, ErrVariantMismatch)
		}
	}
	*s = out
	return nil
}
