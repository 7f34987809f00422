package instruction

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/sweepvault/internal/address"
	"github.com/illarion/sweepvault/internal/ledger"
	"github.com/illarion/sweepvault/internal/vault"
)

var programID = address.MustParse("Ef4mxmArsCQg5qybkk9zhpcbHujiQMHtX8wDsazp9V4G")

func TestDiscriminators(t *testing.T) {
	// sha256("global:<name>")[:8]
	assert.Equal(t, [8]byte{175, 175, 109, 31, 13, 152, 155, 237}, Initialize.Discriminator())
	assert.Equal(t, [8]byte{242, 35, 198, 137, 82, 225, 242, 182}, Deposit.Discriminator())
	assert.Equal(t, [8]byte{183, 18, 70, 156, 148, 109, 161, 34}, Withdraw.Discriminator())
}

func TestEncodeDecode(t *testing.T) {
	ix := Instruction{Kind: Deposit, Amount: 500_000_000}
	data := ix.Encode()
	require.Len(t, data, 16)
	assert.Equal(t, []byte{0x00, 0x65, 0xcd, 0x1d, 0, 0, 0, 0}, data[8:])

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ix, decoded)
}

func TestDecodeErrors(t *testing.T) {
	good := Instruction{Kind: Withdraw, Amount: 1}.Encode()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidData},
		{"short discriminator", good[:5], ErrInvalidData},
		{"missing amount", good[:8], ErrInvalidData},
		{"trailing bytes", append(append([]byte(nil), good...), 0), ErrInvalidData},
		{"unknown", make([]byte, 16), ErrUnknownInstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("withdraw")
	require.NoError(t, err)
	assert.Equal(t, Withdraw, k)

	_, err = ParseKind("sweep")
	assert.ErrorIs(t, err, ErrUnknownInstruction)
}

func newKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return key
}

func TestSignVerify(t *testing.T) {
	key := newKey(t)
	data := Instruction{Kind: Deposit, Amount: 1}.Encode()

	s, err := Sign(key, programID, nil, data)
	require.NoError(t, err)
	assert.Equal(t, []byte(key.Public().(ed25519.PublicKey)), s.Signer[:])
	require.NoError(t, s.Verify(programID))

	assert.ErrorIs(t, s.Verify(address.Address{1}), ErrBadSignature)

	tampered := s
	tampered.Data = Instruction{Kind: Deposit, Amount: 2}.Encode()
	assert.ErrorIs(t, tampered.Verify(programID), ErrBadSignature)

	impersonated := s
	impersonated.Signer = address.Address{9}
	assert.ErrorIs(t, impersonated.Verify(programID), ErrBadSignature)

	truncated := s
	truncated.Signature = s.Signature[:10]
	assert.ErrorIs(t, truncated.Verify(programID), ErrBadSignature)

	_, err = Sign(key[:10], programID, nil, data)
	assert.Error(t, err)
}

type processorFixture struct {
	ledger    *ledger.Ledger
	program   *vault.Program
	processor *Processor
	key       ed25519.PrivateKey
	owner     address.Address
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "ix.ledger"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	require.NoError(t, l.Initialize())

	key := newKey(t)
	owner, err := address.FromBytes(key.Public().(ed25519.PublicKey))
	require.NoError(t, err)
	require.NoError(t, l.Invoke(context.Background(), address.Zero, nil, func(tx *ledger.Tx) error {
		return tx.Mint(owner, 10*vault.LamportsPerUnit)
	}))

	program := vault.New(programID, l)
	return &processorFixture{
		ledger:    l,
		program:   program,
		processor: NewProcessor(program),
		key:       key,
		owner:     owner,
	}
}

func (f *processorFixture) send(t *testing.T, kind Kind, amount uint64, accounts ...address.Address) error {
	t.Helper()
	s, err := Sign(f.key, programID, accounts, Instruction{Kind: kind, Amount: amount}.Encode())
	require.NoError(t, err)
	return f.processor.Process(context.Background(), s)
}

func TestProcessorFlow(t *testing.T) {
	f := newProcessorFixture(t)

	require.NoError(t, f.send(t, Initialize, 2*vault.LamportsPerUnit))
	assert.ErrorIs(t, f.send(t, Initialize, 2*vault.LamportsPerUnit), vault.ErrAlreadyInitialized)

	require.NoError(t, f.send(t, Deposit, 500_000_000))
	_, vaultBalance, err := f.program.Balances(f.owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000), vaultBalance)

	assert.ErrorIs(t, f.send(t, Deposit, 1_000_000_001), vault.ErrDepositExceedsLimit)

	require.NoError(t, f.send(t, Withdraw, 200_000_000))
	_, vaultBalance, err = f.program.Balances(f.owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(300_000_000), vaultBalance)

	assert.ErrorIs(t, f.send(t, Withdraw, 3_000_000_001), vault.ErrWithdrawalExceedsLimit)
	assert.ErrorIs(t, f.send(t, Withdraw, 400_000_000), ledger.ErrInsufficientBalance)
}

func TestProcessorExplicitAccounts(t *testing.T) {
	f := newProcessorFixture(t)
	accts, err := f.program.Accounts(f.owner)
	require.NoError(t, err)

	require.NoError(t, f.send(t, Initialize, vault.LamportsPerUnit, accts.State, accts.Vault))
	require.NoError(t, f.send(t, Deposit, 1, accts.State, accts.Vault))

	assert.ErrorIs(t, f.send(t, Deposit, 1, accts.State, accts.State), vault.ErrAddressMismatch)
	assert.ErrorIs(t, f.send(t, Deposit, 1, accts.State), ErrInvalidData)
}

func TestProcessorRejectsForgedSigner(t *testing.T) {
	f := newProcessorFixture(t)
	require.NoError(t, f.send(t, Initialize, 5*vault.LamportsPerUnit))

	// Someone signs a withdrawal but claims to be the owner
	thief := newKey(t)
	s, err := Sign(thief, programID, nil, Instruction{Kind: Withdraw, Amount: 1}.Encode())
	require.NoError(t, err)
	s.Signer = f.owner

	assert.ErrorIs(t, f.processor.Process(context.Background(), s), ErrBadSignature)
}
