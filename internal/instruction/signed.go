package instruction

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/illarion/sweepvault/internal/address"
)

var ErrBadSignature = errors.New("signature verification failed")

// Signed is an instruction authenticated by its signer. Accounts may be empty,
// in which case the processor derives them from the signer.
type Signed struct {
	Signer    address.Address
	Accounts  []address.Address
	Data      []byte
	Signature []byte
}

func message(programID address.Address, accounts []address.Address, data []byte) []byte {
	msg := make([]byte, 0, address.Size*(1+len(accounts))+len(data))
	msg = append(msg, programID[:]...)
	for _, a := range accounts {
		msg = append(msg, a[:]...)
	}
	return append(msg, data...)
}

// Sign builds a Signed instruction. The signer address is the public half of
// key.
func Sign(key ed25519.PrivateKey, programID address.Address, accounts []address.Address, data []byte) (Signed, error) {
	if len(key) != ed25519.PrivateKeySize {
		return Signed{}, fmt.Errorf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(key))
	}
	signer, err := address.FromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return Signed{}, err
	}
	return Signed{
		Signer:    signer,
		Accounts:  append([]address.Address(nil), accounts...),
		Data:      append([]byte(nil), data...),
		Signature: ed25519.Sign(key, message(programID, accounts, data)),
	}, nil
}

// Verify checks the signature for programID.
func (s Signed) Verify(programID address.Address) error {
	if len(s.Signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: signature is %d bytes", ErrBadSignature, len(s.Signature))
	}
	if !ed25519.Verify(s.Signer[:], message(programID, s.Accounts, s.Data), s.Signature) {
		return ErrBadSignature
	}
	return nil
}
