package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDiscriminator(t *testing.T) {
	// sha256("account:VaultState")[:8]
	assert.Equal(t, [DiscriminatorSize]byte{228, 196, 82, 165, 98, 210, 235, 152}, StateDiscriminator)
}

func TestStateLayout(t *testing.T) {
	s := &State{Amount: 2_000_000_000, VaultBump: 255, StateBump: 253}
	data, err := s.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, StateSize)

	assert.Equal(t, StateDiscriminator[:], data[:8])
	// 2_000_000_000 little-endian
	assert.Equal(t, []byte{0x00, 0x94, 0x35, 0x77, 0, 0, 0, 0}, data[8:16])
	assert.Equal(t, byte(255), data[16])
	assert.Equal(t, byte(253), data[17])

	var decoded State
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, *s, decoded)
}

func TestStateUnmarshalErrors(t *testing.T) {
	good, err := (&State{Amount: 1}).MarshalBinary()
	require.NoError(t, err)

	foreign := append([]byte(nil), good...)
	foreign[0] ^= 0xff

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrAccountDidNotDeserialize},
		{"truncated header", good[:4], ErrAccountDidNotDeserialize},
		{"truncated body", good[:StateSize-1], ErrAccountDidNotDeserialize},
		{"foreign discriminator", foreign, ErrAccountDiscriminatorMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			assert.ErrorIs(t, s.UnmarshalBinary(tt.data), tt.want)
		})
	}
}
