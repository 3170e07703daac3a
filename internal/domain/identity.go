package domain

// Identity is the identity bound to the active mode. The set of variants is
// closed: StandardIdentity and TorIdentity.
type Identity interface {
	ID() string
	DisplayName() string
	Mode() Mode
	isIdentity()
}

// StandardIdentity is the public wallet-backed identity used in Standard mode.
type StandardIdentity struct {
	WalletAddress string `json:"wallet_address"`
	Username      string `json:"username"`
	NetworkID     string `json:"network_id,omitempty"`
}

func (i StandardIdentity) ID() string          { return i.WalletAddress }
func (i StandardIdentity) DisplayName() string { return i.Username }
func (StandardIdentity) Mode() Mode            { return ModeStandard }
func (StandardIdentity) isIdentity()           {}

// TorIdentity is the anonymous onion-backed identity used in Tor mode.
type TorIdentity struct {
	OnionAddress string `json:"onion_address"`
	AnonymousID  string `json:"anonymous_id"`
	RoutingID    string `json:"routing_id,omitempty"`
}

func (i TorIdentity) ID() string          { return i.OnionAddress }
func (i TorIdentity) DisplayName() string { return i.AnonymousID }
func (TorIdentity) Mode() Mode            { return ModeTor }
func (TorIdentity) isIdentity()           {}

// ModeOf returns the mode an identity variant belongs to. A nil identity
// has no mode and returns "".
func ModeOf(id Identity) Mode {
	switch Canonical(id).(type) {
	case StandardIdentity:
		return ModeStandard
	case TorIdentity:
		return ModeTor
	}
	return ""
}

// Canonical dereferences pointer variants so callers can compare and store
// identities by value. Nil pointers become a nil Identity.
func Canonical(id Identity) Identity {
	switch v := id.(type) {
	case *StandardIdentity:
		if v == nil {
			return nil
		}
		return *v
	case *TorIdentity:
		if v == nil {
			return nil
		}
		return *v
	}
	return id
}
