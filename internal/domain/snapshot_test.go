package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"sail/internal/domain"
)

func TestSnapshot_EncodesVariantTag(t *testing.T) {
	snap := domain.Snapshot{
		Mode:     domain.ModeTor,
		Identity: domain.TorIdentity{OnionAddress: "abc.onion", AnonymousID: "anon_1"},
	}
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"mode":"tor","identity":{"variant":"tor","onion_address":"abc.onion","anonymous_id":"anon_1"}}`,
		string(raw))

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, snap, got)
}

func TestSnapshot_NullIdentity(t *testing.T) {
	raw, err := json.Marshal(domain.Snapshot{Mode: domain.ModeStandard})
	require.NoError(t, err)
	require.JSONEq(t, `{"mode":"standard","identity":null}`, string(raw))

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, domain.ModeStandard, got.Mode)
	require.Nil(t, got.Identity)
}

func TestSnapshot_PointerIdentityEncodesAsValue(t *testing.T) {
	id := &domain.StandardIdentity{WalletAddress: "w", Username: "u"}
	raw, err := json.Marshal(domain.Snapshot{Mode: domain.ModeStandard, Identity: id})
	require.NoError(t, err)

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, *id, got.Identity)
}

func TestSnapshot_RejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown mode":     `{"mode":"bluetooth","identity":null}`,
		"unknown variant":  `{"mode":"tor","identity":{"variant":"i2p"}}`,
		"variant mismatch": `{"mode":"tor","identity":{"variant":"standard","wallet_address":"w","username":"u"}}`,
		"not an object":    `[1,2,3]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			var got domain.Snapshot
			require.Error(t, json.Unmarshal([]byte(in), &got))
		})
	}
}
