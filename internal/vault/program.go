package vault

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/illarion/sweepvault/internal/address"
	"github.com/illarion/sweepvault/internal/ledger"
)

const (
	// LamportsPerUnit is the number of minor units in one native unit.
	LamportsPerUnit uint64 = 1_000_000_000
	// OneUnitLimit caps a single deposit.
	OneUnitLimit = 1 * LamportsPerUnit
	// ThreeUnitLimit caps a single withdrawal.
	ThreeUnitLimit = 3 * LamportsPerUnit

	StateSeed = "state"
	VaultSeed = "vault"
)

// Operation names, as used by Simulate and in logs.
const (
	OpInitialize = "initialize"
	OpDeposit    = "deposit"
	OpWithdraw   = "withdraw"
)

// Limits are the per-transaction caps, in lamports.
type Limits struct {
	MaxDeposit    uint64 `yaml:"max_deposit"`
	MaxWithdrawal uint64 `yaml:"max_withdrawal"`
}

// DefaultLimits are the limits the program ships with.
var DefaultLimits = Limits{
	MaxDeposit:    OneUnitLimit,
	MaxWithdrawal: ThreeUnitLimit,
}

// Accounts is the account list of an invocation. Owner must already be
// authenticated by the caller; State and Vault are checked against their
// derivations.
type Accounts struct {
	Owner address.Address
	State address.Address
	Vault address.Address
}

// Program is the vault authority bound to one ledger.
type Program struct {
	id     address.Address
	ledger *ledger.Ledger
	limits Limits
	logger *zap.Logger
}

// Option configures a Program.
type Option func(*Program)

// WithLimits overrides DefaultLimits.
func WithLimits(limits Limits) Option {
	return func(p *Program) {
		p.limits = limits
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Program) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Program with the given ID operating on l.
func New(id address.Address, l *ledger.Ledger, opts ...Option) *Program {
	p := &Program{
		id:     id,
		ledger: l,
		limits: DefaultLimits,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.Stringer("program", id))
	return p
}

func (p *Program) ID() address.Address {
	return p.id
}

func (p *Program) Limits() Limits {
	return p.limits
}

// Accounts derives the canonical account list for owner.
func (p *Program) Accounts(owner address.Address) (Accounts, error) {
	state, _, err := address.Derive(p.id, StateSeed, owner)
	if err != nil {
		return Accounts{}, fmt.Errorf("failed to derive state address: %w", err)
	}
	vault, _, err := address.Derive(p.id, VaultSeed, state)
	if err != nil {
		return Accounts{}, fmt.Errorf("failed to derive vault address: %w", err)
	}
	return Accounts{Owner: owner, State: state, Vault: vault}, nil
}

// Initialize creates the owner's State with the given target amount. The
// vault sub-account starts empty and no funds move.
func (p *Program) Initialize(ctx context.Context, accts Accounts, amount uint64) error {
	err := p.ledger.Invoke(ctx, p.id, []address.Address{accts.Owner}, func(tx *ledger.Tx) error {
		return p.initialize(tx, accts, amount)
	})
	return p.done(OpInitialize, accts, amount, err)
}

// Deposit moves amount from the owner into the vault, then sweeps the vault
// if it has reached its target.
func (p *Program) Deposit(ctx context.Context, accts Accounts, amount uint64) error {
	if err := p.checkLimit(OpDeposit, amount); err != nil {
		return p.done(OpDeposit, accts, amount, err)
	}
	err := p.ledger.Invoke(ctx, p.id, []address.Address{accts.Owner}, func(tx *ledger.Tx) error {
		return p.deposit(tx, accts, amount)
	})
	return p.done(OpDeposit, accts, amount, err)
}

// Withdraw moves amount from the vault back to the owner. It does not sweep.
func (p *Program) Withdraw(ctx context.Context, accts Accounts, amount uint64) error {
	if err := p.checkLimit(OpWithdraw, amount); err != nil {
		return p.done(OpWithdraw, accts, amount, err)
	}
	err := p.ledger.Invoke(ctx, p.id, []address.Address{accts.Owner}, func(tx *ledger.Tx) error {
		return p.withdraw(tx, accts, amount)
	})
	return p.done(OpWithdraw, accts, amount, err)
}

// Simulate runs op and rolls it back. The returned simulation holds the
// owner and vault balances before and after, and the error op would have
// returned.
func (p *Program) Simulate(ctx context.Context, op string, accts Accounts, amount uint64) (*ledger.Simulation, error) {
	var fn func(*ledger.Tx, Accounts, uint64) error
	switch op {
	case OpInitialize:
		fn = p.initialize
	case OpDeposit:
		fn = p.deposit
	case OpWithdraw:
		fn = p.withdraw
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	return p.ledger.Simulate(ctx, p.id, []address.Address{accts.Owner},
		[]string{"owner", "vault"}, []address.Address{accts.Owner, accts.Vault},
		func(tx *ledger.Tx) error {
			if err := p.checkLimit(op, amount); err != nil {
				return err
			}
			return fn(tx, accts, amount)
		})
}

func (p *Program) checkLimit(op string, amount uint64) error {
	switch {
	case op == OpDeposit && amount > p.limits.MaxDeposit:
		return fmt.Errorf("%w: %d lamports, limit %d", ErrDepositExceedsLimit, amount, p.limits.MaxDeposit)
	case op == OpWithdraw && amount > p.limits.MaxWithdrawal:
		return fmt.Errorf("%w: %d lamports, limit %d", ErrWithdrawalExceedsLimit, amount, p.limits.MaxWithdrawal)
	}
	return nil
}

func (p *Program) initialize(tx *ledger.Tx, accts Accounts, amount uint64) error {
	state, stateBump, err := address.Derive(p.id, StateSeed, accts.Owner)
	if err != nil {
		return err
	}
	if state != accts.State {
		return fmt.Errorf("%w: state %s, expected %s", ErrAddressMismatch, accts.State, state)
	}
	if tx.HasAccount(state) {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, state)
	}

	vault, vaultBump, err := address.Derive(p.id, VaultSeed, state)
	if err != nil {
		return err
	}
	if vault != accts.Vault {
		return fmt.Errorf("%w: vault %s, expected %s", ErrAddressMismatch, accts.Vault, vault)
	}

	record := State{
		Amount:    amount,
		VaultBump: vaultBump,
		StateBump: stateBump,
	}
	data, err := record.MarshalBinary()
	if err != nil {
		return err
	}
	return tx.CreateAccount(state, data)
}

func (p *Program) deposit(tx *ledger.Tx, accts Accounts, amount uint64) error {
	state, err := p.load(tx, accts)
	if err != nil {
		return err
	}
	if err := tx.Transfer(accts.Owner, accts.Vault, amount); err != nil {
		return err
	}
	return p.checkBalance(tx, accts, state)
}

func (p *Program) withdraw(tx *ledger.Tx, accts Accounts, amount uint64) error {
	state, err := p.load(tx, accts)
	if err != nil {
		return err
	}
	return tx.TransferWithSeeds(accts.Vault, accts.Owner, amount, vaultAuthority(accts.State, state))
}

// checkBalance returns the whole vault balance to the owner once it has
// reached the target amount.
func (p *Program) checkBalance(tx *ledger.Tx, accts Accounts, state *State) error {
	balance := tx.Balance(accts.Vault)
	if balance < state.Amount {
		return nil
	}

	p.logger.Info("sweeping vault",
		zap.Stringer("vault", accts.Vault),
		zap.Uint64("swept", balance),
		zap.Uint64("target", state.Amount))
	return tx.TransferWithSeeds(accts.Vault, accts.Owner, balance, vaultAuthority(accts.State, state))
}

// State loads and validates the owner's State record.
func (p *Program) State(owner address.Address) (*State, error) {
	accts, err := p.Accounts(owner)
	if err != nil {
		return nil, err
	}
	var state *State
	err = p.ledger.View(func(tx *ledger.Tx) error {
		state, err = p.load(tx, accts)
		return err
	})
	return state, err
}

// Balances returns the owner and vault balances.
func (p *Program) Balances(owner address.Address) (ownerBalance, vaultBalance uint64, err error) {
	accts, err := p.Accounts(owner)
	if err != nil {
		return 0, 0, err
	}
	err = p.ledger.View(func(tx *ledger.Tx) error {
		ownerBalance = tx.Balance(accts.Owner)
		vaultBalance = tx.Balance(accts.Vault)
		return nil
	})
	return ownerBalance, vaultBalance, err
}

// load reads the State record and re-derives both addresses from the stored
// bumps.
func (p *Program) load(tx *ledger.Tx, accts Accounts) (*State, error) {
	acct, err := tx.Account(accts.State)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: state %s", ErrAccountNotInitialized, accts.State)
	}
	if err != nil {
		return nil, err
	}
	if acct.Owner != p.id {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrAccountOwnedByWrongProgram, accts.State, acct.Owner)
	}

	state := &State{}
	if err := state.UnmarshalBinary(acct.Data); err != nil {
		return nil, err
	}

	derived, err := address.CreateProgramAddress(
		[][]byte{[]byte(StateSeed), accts.Owner[:], {state.StateBump}}, p.id)
	if err != nil || derived != accts.State {
		return nil, fmt.Errorf("%w: state %s", ErrAddressMismatch, accts.State)
	}

	derived, err = vaultAuthority(accts.State, state).Address(p.id)
	if err != nil || derived != accts.Vault {
		return nil, fmt.Errorf("%w: vault %s", ErrAddressMismatch, accts.Vault)
	}

	return state, nil
}

func vaultAuthority(stateAddr address.Address, state *State) address.DerivationAuthority {
	return address.DerivationAuthority{
		Tag:  VaultSeed,
		Seed: stateAddr,
		Bump: state.VaultBump,
	}
}

func (p *Program) done(op string, accts Accounts, amount uint64, err error) error {
	fields := []zap.Field{
		zap.Stringer("owner", accts.Owner),
		zap.Uint64("amount", amount),
	}
	if err != nil {
		p.logger.Warn(op+" failed", append(fields, zap.Error(err))...)
		return err
	}
	p.logger.Debug(op, fields...)
	return nil
}
