package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/sweepvault/internal/address"
	"github.com/illarion/sweepvault/internal/lamports"
	"github.com/illarion/sweepvault/internal/ledger"
)

// Airdrop mints native balance on the local ledger. An empty to credits the
// owner.
func Airdrop(ctx context.Context, e *Env, amount, to string) error {
	lamps, err := lamports.ParseSOL(amount)
	if err != nil {
		return err
	}

	var target address.Address
	if to == "" {
		target, err = e.Owner()
	} else {
		target, err = address.Parse(to)
	}
	if err != nil {
		return err
	}

	l, err := e.OpenLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	var balance uint64
	err = l.Invoke(ctx, address.Zero, nil, func(tx *ledger.Tx) error {
		if err := tx.Mint(target, lamps); err != nil {
			return err
		}
		balance = tx.Balance(target)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(e.Out, "Airdropped %s SOL to %s\n", lamports.FormatSOL(lamps), target)
	fmt.Fprintf(e.Out, "Balance: %s SOL\n", lamports.FormatSOL(balance))
	return nil
}
