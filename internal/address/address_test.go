package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var programID = MustParse("Ef4mxmArsCQg5qybkk9zhpcbHujiQMHtX8wDsazp9V4G")

func sequentialOwner() Address {
	var a Address
	for i := range a {
		a[i] = byte(i + 1)
	}
	return a
}

func TestParseRoundTrip(t *testing.T) {
	owner := sequentialOwner()
	assert.Equal(t, "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw", owner.String())

	parsed, err := Parse(owner.String())
	require.NoError(t, err)
	assert.Equal(t, owner, parsed)

	assert.Equal(t, "11111111111111111111111111111111", Zero.String())
}

func TestParseRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not base58", "0OIl"},
		{"too short", "abc"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestTextMarshaling(t *testing.T) {
	owner := sequentialOwner()
	text, err := owner.MarshalText()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, owner, decoded)
}

func TestDeriveKnownVectors(t *testing.T) {
	owner := sequentialOwner()

	state, stateBump, err := Derive(programID, "state", owner)
	require.NoError(t, err)
	assert.Equal(t, "7xf9nociVEv8LH1oPysSis2CXkoctTp9GK3WmnjeDhWU", state.String())
	// 255 and 254 land on the curve for this owner
	assert.Equal(t, uint8(253), stateBump)

	vault, vaultBump, err := Derive(programID, "vault", state)
	require.NoError(t, err)
	assert.Equal(t, "6z25icQHuQghczEe7b5EQGcyAEzbfWtVoVu6WYuNtQFi", vault.String())
	assert.Equal(t, uint8(255), vaultBump)

	_, zeroBump, err := Derive(programID, "state", Zero)
	require.NoError(t, err)
	assert.Equal(t, uint8(251), zeroBump)
}

func TestDeriveIsDeterministic(t *testing.T) {
	owner := sequentialOwner()
	a1, b1, err := Derive(programID, "state", owner)
	require.NoError(t, err)
	a2, b2, err := Derive(programID, "state", owner)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)

	other, _, err := Derive(programID, "vault", owner)
	require.NoError(t, err)
	assert.NotEqual(t, a1, other)

	assert.False(t, IsOnCurve(a1[:]))
}

func TestCreateProgramAddressRejectsOnCurveBumps(t *testing.T) {
	owner := sequentialOwner()
	for _, bump := range []byte{255, 254} {
		_, err := CreateProgramAddress([][]byte{[]byte("state"), owner[:], {bump}}, programID)
		assert.ErrorIs(t, err, ErrInvalidSeeds, "bump %d", bump)
	}
}

func TestSeedLimits(t *testing.T) {
	_, err := CreateProgramAddress([][]byte{make([]byte, MaxSeedLength+1)}, programID)
	assert.ErrorIs(t, err, ErrMaxSeedLength)

	seeds := make([][]byte, MaxSeeds)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, _, err = FindProgramAddress(seeds, programID)
	assert.ErrorIs(t, err, ErrMaxSeedLength)
}

func TestDerivationAuthority(t *testing.T) {
	owner := sequentialOwner()
	state, _, err := Derive(programID, "state", owner)
	require.NoError(t, err)
	vault, bump, err := Derive(programID, "vault", state)
	require.NoError(t, err)

	auth := DerivationAuthority{Tag: "vault", Seed: state, Bump: bump}
	require.NoError(t, auth.Verify(programID, vault))

	assert.ErrorIs(t, auth.Verify(programID, state), ErrSeedsMismatch)

	wrongBump := auth
	wrongBump.Bump--
	assert.ErrorIs(t, wrongBump.Verify(programID, vault), ErrSeedsMismatch)

	assert.ErrorIs(t, auth.Verify(owner, vault), ErrSeedsMismatch)
}
