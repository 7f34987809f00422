package instruction

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// DiscriminatorSize is the length of the instruction tag.
const DiscriminatorSize = 8

// Kind names a program entry point.
type Kind string

const (
	Initialize Kind = "initialize"
	Deposit    Kind = "deposit"
	Withdraw   Kind = "withdraw"
)

var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrInvalidData        = errors.New("invalid instruction data")
)

var kinds = []Kind{Initialize, Deposit, Withdraw}

// Discriminator returns the tag for kind.
func (k Kind) Discriminator() [DiscriminatorSize]byte {
	sum := sha256.Sum256([]byte("global:" + string(k)))
	var d [DiscriminatorSize]byte
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

// ParseKind maps a name to a Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInstruction, name)
}

// Instruction is a decoded program call.
type Instruction struct {
	Kind   Kind
	Amount uint64
}

// Encode serializes the instruction.
func (i Instruction) Encode() []byte {
	d := i.Kind.Discriminator()
	data := make([]byte, DiscriminatorSize+8)
	copy(data, d[:])
	binary.LittleEndian.PutUint64(data[DiscriminatorSize:], i.Amount)
	return data
}

// Decode parses instruction data.
func Decode(data []byte) (Instruction, error) {
	if len(data) < DiscriminatorSize {
		return Instruction{}, fmt.Errorf("%w: %d bytes", ErrInvalidData, len(data))
	}

	var d [DiscriminatorSize]byte
	copy(d[:], data)
	for _, k := range kinds {
		if k.Discriminator() != d {
			continue
		}
		if len(data) != DiscriminatorSize+8 {
			return Instruction{}, fmt.Errorf("%w: %s expects 8 bytes of arguments, got %d",
				ErrInvalidData, k, len(data)-DiscriminatorSize)
		}
		return Instruction{
			Kind:   k,
			Amount: binary.LittleEndian.Uint64(data[DiscriminatorSize:]),
		}, nil
	}
	return Instruction{}, fmt.Errorf("%w: discriminator %v", ErrUnknownInstruction, d)
}
