// Package lamports converts between native units (SOL) and lamports.
package lamports

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// PerSOL is the number of lamports in one SOL.
	PerSOL uint64 = 1_000_000_000
	// Decimals is the number of decimal places of one lamport.
	Decimals = 9
)

var (
	ErrNegative  = errors.New("amount must not be negative")
	ErrPrecision = errors.New("amount has more than 9 decimal places")
	ErrTooLarge  = errors.New("amount does not fit in 64 bits of lamports")
)

var maxLamports = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ParseSOL parses a decimal SOL amount such as "1.5" into lamports.
func ParseSOL(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, ErrNegative
	}

	l := d.Shift(Decimals)
	if !l.Equal(l.Truncate(0)) {
		return 0, ErrPrecision
	}
	if l.GreaterThan(maxLamports) {
		return 0, ErrTooLarge
	}
	return l.BigInt().Uint64(), nil
}

// FormatSOL renders lamports as SOL without trailing zeros.
func FormatSOL(l uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(l), -Decimals).String()
}
