package cmd

import (
	"fmt"

	"github.com/illarion/sweepvault/internal/wallet"
)

// Keygen creates the owner keyfile
func Keygen(e *Env) error {
	key, err := wallet.Generate()
	if err != nil {
		return err
	}
	defer key.Destroy()

	passphrase, err := e.NewPassphrase()
	if err != nil {
		return err
	}
	defer wallet.ClearBytes(passphrase)

	if err := wallet.Save(e.Config.Keyfile, key, passphrase); err != nil {
		return err
	}

	fmt.Fprintf(e.Out, "Owner:   %s\n", key.Address())
	fmt.Fprintf(e.Out, "Keyfile: %s\n", e.Config.Keyfile)
	return nil
}
