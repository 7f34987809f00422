package instruction

import (
	"context"
	"fmt"

	"github.com/illarion/sweepvault/internal/vault"
)

// Processor authenticates signed instructions and dispatches them to the
// program.
type Processor struct {
	program *vault.Program
}

func NewProcessor(program *vault.Program) *Processor {
	return &Processor{program: program}
}

// Process verifies s and runs the instruction it carries.
func (p *Processor) Process(ctx context.Context, s Signed) error {
	if err := s.Verify(p.program.ID()); err != nil {
		return err
	}

	ix, err := Decode(s.Data)
	if err != nil {
		return err
	}

	accts, err := p.accounts(s)
	if err != nil {
		return err
	}

	switch ix.Kind {
	case Initialize:
		return p.program.Initialize(ctx, accts, ix.Amount)
	case Deposit:
		return p.program.Deposit(ctx, accts, ix.Amount)
	case Withdraw:
		return p.program.Withdraw(ctx, accts, ix.Amount)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownInstruction, ix.Kind)
	}
}

// accounts resolves the state and vault accounts: either supplied in order
// [state, vault] or derived from the signer.
func (p *Processor) accounts(s Signed) (vault.Accounts, error) {
	switch len(s.Accounts) {
	case 0:
		return p.program.Accounts(s.Signer)
	case 2:
		return vault.Accounts{
			Owner: s.Signer,
			State: s.Accounts[0],
			Vault: s.Accounts[1],
		}, nil
	default:
		return vault.Accounts{}, fmt.Errorf("%w: expected 0 or 2 accounts, got %d", ErrInvalidData, len(s.Accounts))
	}
}
