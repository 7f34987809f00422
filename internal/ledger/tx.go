package ledger

import (
	"fmt"
	"math"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/illarion/sweepvault/internal/address"
)

// Transfer modes recorded in history
const (
	ModeSigner = "signer"
	ModeSeeds  = "seeds"
	ModeMint   = "mint"
)

// Tx is the view a program gets of the ledger during one invocation.
type Tx struct {
	btx       *bolt.Tx
	programID address.Address
	signers   map[address.Address]bool
	lamports  *bolt.Bucket
	accounts  *bolt.Bucket
	history   *bolt.Bucket
}

func newTx(btx *bolt.Tx, programID address.Address, signers []address.Address) (*Tx, error) {
	tx := &Tx{
		btx:       btx,
		programID: programID,
		signers:   make(map[address.Address]bool, len(signers)),
		lamports:  btx.Bucket(LamportsBucket),
		accounts:  btx.Bucket(AccountsBucket),
		history:   btx.Bucket(HistoryBucket),
	}
	if tx.lamports == nil || tx.accounts == nil || tx.history == nil {
		return nil, ErrNotInitialized
	}
	for _, s := range signers {
		tx.signers[s] = true
	}
	return tx, nil
}

// ProgramID returns the program being invoked.
func (tx *Tx) ProgramID() address.Address {
	return tx.programID
}

// IsSigner reports whether addr authenticated this invocation.
func (tx *Tx) IsSigner(addr address.Address) bool {
	return tx.signers[addr]
}

// Balance returns the native balance of addr. Unknown addresses hold zero.
func (tx *Tx) Balance(addr address.Address) uint64 {
	return decodeU64(tx.lamports.Get(addr[:]))
}

func (tx *Tx) setBalance(addr address.Address, v uint64) error {
	if v == 0 {
		return tx.lamports.Delete(addr[:])
	}
	return tx.lamports.Put(addr[:], encodeU64(v))
}

// Mint credits amount to addr out of thin air. It is the local ledger's
// faucet and is not reachable from program code paths.
func (tx *Tx) Mint(to address.Address, amount uint64) error {
	balance := tx.Balance(to)
	if amount > math.MaxUint64-balance {
		return ErrOverflow
	}
	if err := tx.setBalance(to, balance+amount); err != nil {
		return err
	}
	return tx.record(address.Zero, to, amount, ModeMint)
}

// Transfer moves amount from a signer of the invocation to another account.
func (tx *Tx) Transfer(from, to address.Address, amount uint64) error {
	if !tx.IsSigner(from) {
		return fmt.Errorf("%w: %s", ErrMissingSignature, from)
	}
	return tx.move(from, to, amount, ModeSigner)
}

// TransferWithSeeds moves amount out of a program-derived account. auth must
// derive from under the invoking program.
func (tx *Tx) TransferWithSeeds(from, to address.Address, amount uint64, auth address.DerivationAuthority) error {
	if err := auth.Verify(tx.programID, from); err != nil {
		return err
	}
	return tx.move(from, to, amount, ModeSeeds)
}

func (tx *Tx) move(from, to address.Address, amount uint64, mode string) error {
	fromBalance := tx.Balance(from)
	if fromBalance < amount {
		return fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientBalance, from, fromBalance, amount)
	}

	if from != to {
		toBalance := tx.Balance(to)
		if amount > math.MaxUint64-toBalance {
			return ErrOverflow
		}
		if err := tx.setBalance(from, fromBalance-amount); err != nil {
			return err
		}
		if err := tx.setBalance(to, toBalance+amount); err != nil {
			return err
		}
	}

	return tx.record(from, to, amount, mode)
}

// Account is a data account owned by a program.
type Account struct {
	Owner address.Address
	Data  []byte
}

// Account loads the data account at addr, or returns ErrAccountNotFound.
// The returned data is a copy.
func (tx *Tx) Account(addr address.Address) (*Account, error) {
	raw := tx.accounts.Get(addr[:])
	if raw == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if len(raw) < address.Size {
		return nil, fmt.Errorf("corrupt account record for %s", addr)
	}
	owner, _ := address.FromBytes(raw[:address.Size])
	return &Account{
		Owner: owner,
		Data:  append([]byte(nil), raw[address.Size:]...),
	}, nil
}

// HasAccount reports whether a data account exists at addr.
func (tx *Tx) HasAccount(addr address.Address) bool {
	return tx.accounts.Get(addr[:]) != nil
}

// CreateAccount allocates a data account owned by the invoking program.
func (tx *Tx) CreateAccount(addr address.Address, data []byte) error {
	if !tx.btx.Writable() {
		return bolt.ErrTxNotWritable
	}
	if tx.HasAccount(addr) {
		return fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	raw := make([]byte, 0, address.Size+len(data))
	raw = append(raw, tx.programID[:]...)
	raw = append(raw, data...)
	return tx.accounts.Put(addr[:], raw)
}

// Dump renders the balances of addrs one per line, for diffs.
func (tx *Tx) Dump(labels []string, addrs []address.Address) string {
	var b strings.Builder
	for i, addr := range addrs {
		label := addr.String()
		if i < len(labels) {
			label = labels[i]
		}
		fmt.Fprintf(&b, "%s %s %d\n", label, addr, tx.Balance(addr))
	}
	return b.String()
}
