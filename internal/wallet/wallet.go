package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/sweepvault/internal/address"
)

const (
	DirPermSecure  = 0700 // Directory: owner rwx only
	FilePermSecure = 0600 // File: owner rw only
)

var ErrKeyfileExists = errors.New("keyfile already exists")

// Key is the owner's signing key.
type Key struct {
	priv ed25519.PrivateKey
}

// Generate creates a new random key.
func Generate() (*Key, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}
	return &Key{priv: priv}, nil
}

// Address is the owner identity: the ed25519 public key.
func (k *Key) Address() address.Address {
	var a address.Address
	copy(a[:], k.priv[ed25519.SeedSize:])
	return a
}

// PrivateKey exposes the key for signing instructions.
func (k *Key) PrivateKey() ed25519.PrivateKey {
	return k.priv
}

// Destroy clears the private key from memory
func (k *Key) Destroy() {
	ClearBytes(k.priv)
}

// Save seals key under passphrase and writes it to path. It refuses to
// overwrite an existing keyfile.
func Save(path string, key *Key, passphrase []byte) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrKeyfileExists, path)
	}

	sealed, err := Seal(key, passphrase)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), DirPermSecure); err != nil {
		return fmt.Errorf("failed to create keyfile directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePermSecure)
	if err != nil {
		return fmt.Errorf("failed to create keyfile: %w", err)
	}
	if _, err := f.Write(sealed); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write keyfile: %w", err)
	}
	return f.Close()
}

// Load reads and opens the keyfile at path.
func Load(path string, passphrase []byte) (*Key, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyfile: %w", err)
	}
	return Open(sealed, passphrase)
}

// LoadAddress reads the owner address from the keyfile at path without
// decrypting it.
func LoadAddress(path string) (address.Address, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return address.Zero, fmt.Errorf("failed to read keyfile: %w", err)
	}
	return PeekAddress(sealed)
}
