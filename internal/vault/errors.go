package vault

import (
	"errors"

	"github.com/illarion/sweepvault/internal/ledger"
)

var (
	ErrDepositExceedsLimit          = errors.New("deposit amount exceeds the 1 SOL limit per transaction")
	ErrWithdrawalExceedsLimit       = errors.New("withdrawal amount exceeds the 3 SOL limit per transaction")
	ErrAddressMismatch              = errors.New("a seeds constraint was violated")
	ErrAlreadyInitialized           = errors.New("vault already initialized: account already in use")
	ErrAccountNotInitialized        = errors.New("the program expected this account to be already initialized")
	ErrAccountDiscriminatorMismatch = errors.New("account discriminator did not match")
	ErrAccountDidNotDeserialize     = errors.New("failed to deserialize the account")
	ErrAccountOwnedByWrongProgram   = errors.New("account owned by a different program")
	ErrUnknownOperation             = errors.New("unknown operation")
)

// Program error codes, numbered the way Anchor numbers them.
const (
	CodeAccountInUse                 = 0
	CodeInsufficientFunds            = 1
	CodeConstraintSeeds              = 2006
	CodeAccountDiscriminatorMismatch = 3002
	CodeAccountDidNotDeserialize     = 3003
	CodeAccountOwnedByWrongProgram   = 3007
	CodeAccountNotInitialized        = 3012
	CodeDepositExceedsLimit          = 6000
	CodeWithdrawalExceedsLimit       = 6001
	CodeUnknown                      = -1
)

var codes = []struct {
	err  error
	code int
}{
	{ErrDepositExceedsLimit, CodeDepositExceedsLimit},
	{ErrWithdrawalExceedsLimit, CodeWithdrawalExceedsLimit},
	{ErrAddressMismatch, CodeConstraintSeeds},
	{ErrAlreadyInitialized, CodeAccountInUse},
	{ErrAccountNotInitialized, CodeAccountNotInitialized},
	{ErrAccountDiscriminatorMismatch, CodeAccountDiscriminatorMismatch},
	{ErrAccountDidNotDeserialize, CodeAccountDidNotDeserialize},
	{ErrAccountOwnedByWrongProgram, CodeAccountOwnedByWrongProgram},
	{ledger.ErrInsufficientBalance, CodeInsufficientFunds},
}

// Code returns the program error code for err, or CodeUnknown.
func Code(err error) int {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}
