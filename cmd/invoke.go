package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/sweepvault/internal/instruction"
	"github.com/illarion/sweepvault/internal/lamports"
)

// Init creates the owner's vault with the given target amount
func Init(ctx context.Context, e *Env, target string) error {
	return send(ctx, e, instruction.Initialize, target)
}

// Deposit moves funds from the owner into the vault
func Deposit(ctx context.Context, e *Env, amount string) error {
	return send(ctx, e, instruction.Deposit, amount)
}

// Withdraw moves funds from the vault back to the owner
func Withdraw(ctx context.Context, e *Env, amount string) error {
	return send(ctx, e, instruction.Withdraw, amount)
}

// send signs an instruction with the owner key and processes it.
func send(ctx context.Context, e *Env, kind instruction.Kind, amount string) error {
	lamps, err := lamports.ParseSOL(amount)
	if err != nil {
		return err
	}

	key, err := e.Unlock()
	if err != nil {
		return err
	}
	defer key.Destroy()

	l, err := e.OpenLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	program := e.Program(l)
	data := instruction.Instruction{Kind: kind, Amount: lamps}.Encode()
	signed, err := instruction.Sign(key.PrivateKey(), program.ID(), nil, data)
	if err != nil {
		return err
	}
	if err := instruction.NewProcessor(program).Process(ctx, signed); err != nil {
		return err
	}

	owner := key.Address()
	ownerBalance, vaultBalance, err := program.Balances(owner)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.Out, "%s %s SOL: ok\n", kind, lamports.FormatSOL(lamps))
	fmt.Fprintf(e.Out, "Owner balance: %s SOL\n", lamports.FormatSOL(ownerBalance))
	fmt.Fprintf(e.Out, "Vault balance: %s SOL\n", lamports.FormatSOL(vaultBalance))
	return nil
}
