package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/sweepvault/internal/lamports"
	"github.com/illarion/sweepvault/internal/vault"
)

// Simulate dry-runs an operation and shows how balances would change
func Simulate(ctx context.Context, e *Env, op, amount string) error {
	lamps, err := lamports.ParseSOL(amount)
	if err != nil {
		return err
	}

	owner, err := e.Owner()
	if err != nil {
		return err
	}

	l, err := e.OpenLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	program := e.Program(l)
	accts, err := program.Accounts(owner)
	if err != nil {
		return err
	}

	sim, err := program.Simulate(ctx, op, accts, lamps)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.Out, "Simulated %s %s SOL:\n", op, lamports.FormatSOL(lamps))
	fmt.Fprint(e.Out, sim.Diff())
	if sim.Err != nil {
		fmt.Fprintf(e.Out, "Result: would fail (code %d): %s\n", vault.Code(sim.Err), sim.Err)
		return nil
	}
	fmt.Fprintln(e.Out, "Result: ok")
	return nil
}
