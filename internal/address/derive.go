package address

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"go.dedis.ch/kyber/v3/group/edwards25519"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLength = errors.New("length of the seed is too long for address generation")
	ErrInvalidSeeds  = errors.New("provided seeds do not result in a valid address")
	ErrNoViableBump  = errors.New("unable to find a viable program address bump seed")
	ErrSeedsMismatch = errors.New("seeds do not derive the expected address")
)

var curve = edwards25519.NewBlakeSHA256Ed25519()

// IsOnCurve reports whether b decodes to a point on the ed25519 curve.
func IsOnCurve(b []byte) bool {
	if len(b) != Size {
		return false
	}
	return curve.Point().UnmarshalBinary(b) == nil
}

// CreateProgramAddress hashes seeds under programID. The last seed is
// usually the bump.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Zero, ErrMaxSeedLength
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Zero, ErrMaxSeedLength
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var a Address
	copy(a[:], h.Sum(nil))

	// Points on the curve have a private key somewhere
	if IsOnCurve(a[:]) {
		return Zero, ErrInvalidSeeds
	}
	return a, nil
}

// FindProgramAddress searches bumps from 255 down and returns the first one
// that yields an off-curve address.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		a, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return a, uint8(bump), nil
		}
		if errors.Is(err, ErrMaxSeedLength) {
			return Zero, 0, err
		}
	}
	return Zero, 0, ErrNoViableBump
}

// Derive computes the address for (tag, seed) under programID, along with its
// bump.
func Derive(programID Address, tag string, seed Address) (Address, uint8, error) {
	return FindProgramAddress([][]byte{[]byte(tag), seed[:]}, programID)
}

// DerivationAuthority proves control of a program-derived address. The
// ledger accepts it in place of a signature when the derived address is the
// source of a transfer.
type DerivationAuthority struct {
	Tag  string
	Seed Address
	Bump uint8
}

// Seeds returns the full seed list including the bump.
func (d DerivationAuthority) Seeds() [][]byte {
	return [][]byte{[]byte(d.Tag), d.Seed[:], {d.Bump}}
}

// Address re-derives the address this authority speaks for.
func (d DerivationAuthority) Address(programID Address) (Address, error) {
	return CreateProgramAddress(d.Seeds(), programID)
}

// Verify checks that the authority derives addr under programID.
func (d DerivationAuthority) Verify(programID, addr Address) error {
	derived, err := d.Address(programID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSeedsMismatch, err)
	}
	if derived != addr {
		return fmt.Errorf("%w: %s derives %s, not %s", ErrSeedsMismatch, d.Tag, derived, addr)
	}
	return nil
}
