// Package keyring caches keyfile passphrases in the OS keyring, keyed by
// owner address.
package keyring

import (
	"github.com/zalando/go-keyring"

	"github.com/illarion/sweepvault/internal/address"
)

const serviceName = "sweepvault"

// SavePassphrase stores a passphrase in the OS keyring
func SavePassphrase(owner address.Address, passphrase string) error {
	return keyring.Set(serviceName, owner.String(), passphrase)
}

// GetPassphrase retrieves a passphrase from the OS keyring
func GetPassphrase(owner address.Address) (string, error) {
	return keyring.Get(serviceName, owner.String())
}

// DeletePassphrase removes a passphrase from the OS keyring
func DeletePassphrase(owner address.Address) error {
	return keyring.Delete(serviceName, owner.String())
}

// HasPassphrase checks if a passphrase is stored in the keyring
func HasPassphrase(owner address.Address) bool {
	_, err := keyring.Get(serviceName, owner.String())
	return err == nil
}
