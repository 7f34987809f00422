package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/illarion/sweepvault/internal/address"
)

const (
	SaltSize     = 32     // Salt size in bytes
	KeySize      = 32     // AES-256 key size
	NonceSize    = 12     // GCM nonce size
	TagSize      = 16     // GCM authentication tag size
	DefaultIters = 210000 // Default PBKDF2 iterations (OWASP minimum)

	magic      = "SVK1"
	headerSize = len(magic) + address.Size + SaltSize + 4
	sealedSize = headerSize + NonceSize + ed25519.SeedSize + TagSize
)

var (
	ErrInvalidKeyfile  = errors.New("invalid keyfile")
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// kdf handles key derivation from passphrases
type kdf struct {
	salt       []byte
	iterations int
}

func newKDF() (*kdf, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return &kdf{salt: salt, iterations: DefaultIters}, nil
}

func (k *kdf) deriveKey(passphrase []byte) []byte {
	return pbkdf2.Key(passphrase, k.salt, k.iterations, KeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Seal encrypts key under passphrase.
func Seal(key *Key, passphrase []byte) ([]byte, error) {
	k, err := newKDF()
	if err != nil {
		return nil, err
	}
	return sealWith(key, passphrase, k)
}

func sealWith(key *Key, passphrase []byte, k *kdf) ([]byte, error) {
	aesKey := k.deriveKey(passphrase)
	defer ClearBytes(aesKey)

	gcm, err := newGCM(aesKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	pub := key.Address()
	out := make([]byte, 0, sealedSize)
	out = append(out, magic...)
	out = append(out, pub[:]...)
	out = append(out, k.salt...)
	out = binary.BigEndian.AppendUint32(out, uint32(k.iterations))
	out = append(out, nonce...)
	// The public key is authenticated as associated data
	out = gcm.Seal(out, nonce, key.priv.Seed(), pub[:])
	return out, nil
}

// PeekAddress returns the owner address stored in a sealed keyfile.
func PeekAddress(sealed []byte) (address.Address, error) {
	if len(sealed) != sealedSize || string(sealed[:len(magic)]) != magic {
		return address.Zero, ErrInvalidKeyfile
	}
	return address.FromBytes(sealed[len(magic) : len(magic)+address.Size])
}

// Open decrypts a sealed keyfile.
func Open(sealed []byte, passphrase []byte) (*Key, error) {
	pub, err := PeekAddress(sealed)
	if err != nil {
		return nil, err
	}

	off := len(magic) + address.Size
	k := &kdf{
		salt:       sealed[off : off+SaltSize],
		iterations: int(binary.BigEndian.Uint32(sealed[off+SaltSize : headerSize])),
	}
	if k.iterations <= 0 {
		return nil, ErrInvalidKeyfile
	}

	aesKey := k.deriveKey(passphrase)
	defer ClearBytes(aesKey)

	gcm, err := newGCM(aesKey)
	if err != nil {
		return nil, err
	}

	nonce := sealed[headerSize : headerSize+NonceSize]
	seed, err := gcm.Open(nil, nonce, sealed[headerSize+NonceSize:], pub[:])
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	defer ClearBytes(seed)

	key := &Key{priv: ed25519.NewKeyFromSeed(seed)}
	if key.Address() != pub {
		key.Destroy()
		return nil, ErrInvalidKeyfile
	}
	return key, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
