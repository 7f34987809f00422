package cmd

import (
	"errors"
	"fmt"

	"github.com/illarion/sweepvault/internal/git"
	"github.com/illarion/sweepvault/internal/keyring"
	"github.com/illarion/sweepvault/internal/lamports"
	"github.com/illarion/sweepvault/internal/vault"
)

// Status shows the owner's vault. Does not require a passphrase.
func Status(e *Env) error {
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

	fmt.Fprintf(e.Out, "Program: %s\n", program.ID())
	fmt.Fprintf(e.Out, "Owner:   %s\n", accts.Owner)
	fmt.Fprintf(e.Out, "State:   %s\n", accts.State)
	fmt.Fprintf(e.Out, "Vault:   %s\n", accts.Vault)

	state, err := program.State(owner)
	switch {
	case errors.Is(err, vault.ErrAccountNotInitialized):
		fmt.Fprintln(e.Out, "\nVault: not initialized")
		fmt.Fprintln(e.Out, "Run 'sweepvault init <target SOL>' to create it")
	case err != nil:
		return err
	default:
		fmt.Fprintf(e.Out, "\nTarget:  %s SOL\n", lamports.FormatSOL(state.Amount))
		fmt.Fprintf(e.Out, "Bumps:   state %d, vault %d\n", state.StateBump, state.VaultBump)
	}

	ownerBalance, vaultBalance, err := program.Balances(owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "\nOwner balance: %s SOL\n", lamports.FormatSOL(ownerBalance))
	fmt.Fprintf(e.Out, "Vault balance: %s SOL\n", lamports.FormatSOL(vaultBalance))

	limits := program.Limits()
	fmt.Fprintf(e.Out, "Limits:        deposit %s SOL, withdraw %s SOL\n",
		lamports.FormatSOL(limits.MaxDeposit), lamports.FormatSOL(limits.MaxWithdrawal))

	if keyring.HasPassphrase(owner) {
		fmt.Fprintln(e.Out, "Passphrase:    stored in keyring")
	}

	fmt.Fprint(e.Out, git.Format(git.Check([]string{e.Config.Keyfile, e.Config.Ledger})))
	return nil
}
