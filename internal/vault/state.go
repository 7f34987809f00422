package vault

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

const (
	// DiscriminatorSize is the length of the record type tag.
	DiscriminatorSize = 8
	// StateSize is the full on-ledger size of a State record.
	StateSize = DiscriminatorSize + 8 + 1 + 1
)

// StateDiscriminator tags VaultState records: sha256("account:VaultState")[:8].
var StateDiscriminator = accountDiscriminator("VaultState")

func accountDiscriminator(name string) [DiscriminatorSize]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [DiscriminatorSize]byte
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

// State binds an owner to its vault sub-account.
type State struct {
	// Amount is the target balance that triggers a sweep.
	Amount    uint64
	VaultBump uint8
	StateBump uint8
}

// MarshalBinary encodes the record as discriminator | amount LE | vault bump | state bump.
func (s *State) MarshalBinary() ([]byte, error) {
	b := make([]byte, StateSize)
	copy(b, StateDiscriminator[:])
	binary.LittleEndian.PutUint64(b[DiscriminatorSize:], s.Amount)
	b[DiscriminatorSize+8] = s.VaultBump
	b[DiscriminatorSize+9] = s.StateBump
	return b, nil
}

func (s *State) UnmarshalBinary(b []byte) error {
	if len(b) < DiscriminatorSize {
		return fmt.Errorf("%w: %d bytes", ErrAccountDidNotDeserialize, len(b))
	}
	if [DiscriminatorSize]byte(b[:DiscriminatorSize]) != StateDiscriminator {
		return ErrAccountDiscriminatorMismatch
	}
	if len(b) < StateSize {
		return fmt.Errorf("%w: %d bytes", ErrAccountDidNotDeserialize, len(b))
	}
	s.Amount = binary.LittleEndian.Uint64(b[DiscriminatorSize:])
	s.VaultBump = b[DiscriminatorSize+8]
	s.StateBump = b[DiscriminatorSize+9]
	return nil
}
