package wallet

import (
	"crypto/ed25519"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/sweepvault/internal/address"
)

func testKey(t *testing.T) *Key {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return &Key{priv: ed25519.NewKeyFromSeed(seed)}
}

func fastSeal(t *testing.T, key *Key, passphrase []byte) []byte {
	t.Helper()
	sealed, err := sealWith(key, passphrase, &kdf{salt: make([]byte, SaltSize), iterations: 1000})
	require.NoError(t, err)
	return sealed
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := testKey(t)
	sealed := fastSeal(t, key, []byte("correct horse"))
	assert.Len(t, sealed, sealedSize)

	opened, err := Open(sealed, []byte("correct horse"))
	require.NoError(t, err)
	assert.Equal(t, key.Address(), opened.Address())
	assert.Equal(t, key.PrivateKey(), opened.PrivateKey())
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed := fastSeal(t, testKey(t), []byte("correct horse"))

	_, err := Open(sealed, []byte("battery staple"))
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestOpenTamperedPublicKey(t *testing.T) {
	sealed := fastSeal(t, testKey(t), []byte("pw"))
	sealed[len(magic)] ^= 0xff

	_, err := Open(sealed, []byte("pw"))
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestPeekAddress(t *testing.T) {
	key := testKey(t)
	sealed := fastSeal(t, key, []byte("pw"))

	got, err := PeekAddress(sealed)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), got)

	_, err = PeekAddress(sealed[:10])
	assert.ErrorIs(t, err, ErrInvalidKeyfile)

	bad := append([]byte(nil), sealed...)
	copy(bad, "XXXX")
	_, err = PeekAddress(bad)
	assert.ErrorIs(t, err, ErrInvalidKeyfile)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "owner.key")
	key, err := Generate()
	require.NoError(t, err)

	require.NoError(t, Save(path, key, []byte("pw")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePermSecure), info.Mode().Perm())

	owner, err := LoadAddress(path)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), owner)

	loaded, err := Load(path, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, key.Address(), loaded.Address())

	err = Save(path, key, []byte("pw"))
	assert.ErrorIs(t, err, ErrKeyfileExists)
}

func TestDestroy(t *testing.T) {
	key := testKey(t)
	key.Destroy()
	for _, b := range key.PrivateKey() {
		if b != 0 {
			t.Fatal("private key not cleared")
		}
	}
}

func writeKeyfile(t *testing.T, passphrase string) (string, *Key) {
	t.Helper()
	key := testKey(t)
	path := filepath.Join(t.TempDir(), "owner.key")
	require.NoError(t, os.WriteFile(path, fastSeal(t, key, []byte(passphrase)), FilePermSecure))
	return path, key
}

func TestResolverPrefersEnv(t *testing.T) {
	path, key := writeKeyfile(t, "from-env")

	r := &Resolver{
		Env: func() []byte { return []byte("from-env") },
		Keyring: func(address.Address) (string, error) {
			t.Fatal("keyring consulted")
			return "", nil
		},
		Prompt: func(string) ([]byte, error) {
			t.Fatal("prompt consulted")
			return nil, nil
		},
	}
	got, err := r.Unlock(path)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), got.Address())
}

func TestResolverUsesKeyring(t *testing.T) {
	path, key := writeKeyfile(t, "stored")

	var asked address.Address
	r := &Resolver{
		Env: func() []byte { return nil },
		Keyring: func(owner address.Address) (string, error) {
			asked = owner
			return "stored", nil
		},
	}
	got, err := r.Unlock(path)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), got.Address())
	assert.Equal(t, key.Address(), asked)
}

func TestResolverStaleKeyringFallsBackToPrompt(t *testing.T) {
	path, key := writeKeyfile(t, "typed")

	prompted := false
	r := &Resolver{
		Keyring: func(address.Address) (string, error) { return "stale", nil },
		Prompt: func(string) ([]byte, error) {
			prompted = true
			return []byte("typed"), nil
		},
	}
	got, err := r.Unlock(path)
	require.NoError(t, err)
	assert.True(t, prompted)
	assert.Equal(t, key.Address(), got.Address())
}

func TestResolverPromptError(t *testing.T) {
	path, _ := writeKeyfile(t, "pw")
	boom := errors.New("no tty")

	r := &Resolver{
		Keyring: func(address.Address) (string, error) { return "", errors.New("not found") },
		Prompt:  func(string) ([]byte, error) { return nil, boom },
	}
	_, err := r.Unlock(path)
	assert.ErrorIs(t, err, boom)
}
