package wallet

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/illarion/sweepvault/internal/address"
	"github.com/illarion/sweepvault/internal/keyring"
)

// PassphraseEnv is consulted before the keyring and the terminal prompt.
const PassphraseEnv = "SWEEPVAULT_PASSPHRASE"

var ErrPassphraseMismatch = errors.New("passphrases do not match")

// ReadPassphrase reads a passphrase from the terminal without echoing
func ReadPassphrase(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	passphrase, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, nil
}

// ReadPassphraseConfirm reads a passphrase twice and ensures they match
func ReadPassphraseConfirm() ([]byte, error) {
	p1, err := ReadPassphrase("Enter passphrase: ")
	if err != nil {
		return nil, err
	}
	defer ClearBytes(p1)

	p2, err := ReadPassphrase("Confirm passphrase: ")
	if err != nil {
		return nil, err
	}
	defer ClearBytes(p2)

	if subtle.ConstantTimeCompare(p1, p2) != 1 {
		return nil, ErrPassphraseMismatch
	}

	result := make([]byte, len(p1))
	copy(result, p1)
	return result, nil
}

// PassphraseFromEnv returns a copy of $SWEEPVAULT_PASSPHRASE, or nil.
func PassphraseFromEnv() []byte {
	p := os.Getenv(PassphraseEnv)
	if p == "" {
		return nil
	}
	return []byte(p)
}

// Resolver finds the passphrase for a keyfile. Sources are tried in order:
// environment, OS keyring, terminal prompt.
type Resolver struct {
	Env     func() []byte
	Keyring func(owner address.Address) (string, error)
	Prompt  func(prompt string) ([]byte, error)
}

// DefaultResolver uses the process environment, the OS keyring and the
// controlling terminal.
func DefaultResolver() *Resolver {
	return &Resolver{
		Env:     PassphraseFromEnv,
		Keyring: keyring.GetPassphrase,
		Prompt:  ReadPassphrase,
	}
}

// Unlock loads the keyfile at path. A keyring entry that no longer opens
// the keyfile falls through to the prompt.
func (r *Resolver) Unlock(path string) (*Key, error) {
	owner, err := LoadAddress(path)
	if err != nil {
		return nil, err
	}

	if r.Env != nil {
		if p := r.Env(); p != nil {
			defer ClearBytes(p)
			return Load(path, p)
		}
	}

	if r.Keyring != nil {
		if stored, err := r.Keyring(owner); err == nil {
			p := []byte(stored)
			key, err := Load(path, p)
			ClearBytes(p)
			if err == nil {
				return key, nil
			}
			if !errors.Is(err, ErrWrongPassphrase) {
				return nil, err
			}
		}
	}

	if r.Prompt == nil {
		return nil, ErrWrongPassphrase
	}
	p, err := r.Prompt("Enter passphrase: ")
	if err != nil {
		return nil, err
	}
	defer ClearBytes(p)
	return Load(path, p)
}
