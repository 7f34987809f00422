package cmd

import (
	"fmt"

	"github.com/illarion/sweepvault/internal/keyring"
	"github.com/illarion/sweepvault/internal/wallet"
)

// KeyringSave saves the keyfile passphrase to the OS keyring
func KeyringSave(e *Env, prompt func(string) ([]byte, error)) error {
	owner, err := e.Owner()
	if err != nil {
		return err
	}

	passphrase, err := prompt("Enter passphrase: ")
	if err != nil {
		return err
	}
	defer wallet.ClearBytes(passphrase)

	// Verify passphrase is correct
	key, err := wallet.Load(e.Config.Keyfile, passphrase)
	if err != nil {
		return err
	}
	key.Destroy()

	if err := keyring.SavePassphrase(owner, string(passphrase)); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	fmt.Fprintln(e.Out, "Passphrase saved to keyring")
	return nil
}

// KeyringDelete removes the passphrase from the OS keyring
func KeyringDelete(e *Env) error {
	owner, err := e.Owner()
	if err != nil {
		return err
	}
	if err := keyring.DeletePassphrase(owner); err != nil {
		fmt.Fprintln(e.Out, "No passphrase stored in keyring")
		return nil
	}
	fmt.Fprintln(e.Out, "Passphrase removed from keyring")
	return nil
}

// KeyringStatus checks if a passphrase is stored in the keyring
func KeyringStatus(e *Env) error {
	owner, err := e.Owner()
	if err != nil {
		return err
	}
	if keyring.HasPassphrase(owner) {
		fmt.Fprintln(e.Out, "Passphrase: stored in keyring")
	} else {
		fmt.Fprintln(e.Out, "Passphrase: not stored")
	}
	return nil
}
