package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/illarion/sweepvault/internal/address"
	"github.com/illarion/sweepvault/internal/config"
	"github.com/illarion/sweepvault/internal/ledger"
	"github.com/illarion/sweepvault/internal/logging"
	"github.com/illarion/sweepvault/internal/vault"
	"github.com/illarion/sweepvault/internal/wallet"
)

var ErrNoKeyfile = errors.New("no keyfile")

// Env is what every command runs against.
type Env struct {
	Config   *config.Config
	Logger   *zap.Logger
	Out      io.Writer
	Resolver *wallet.Resolver
	// NewPassphrase supplies the passphrase for a fresh keyfile.
	NewPassphrase func() ([]byte, error)
}

// Setup loads configuration and builds the logger. configPath may be empty
// to use the default location, in which case a missing file is fine.
func Setup(configPath string) (*Env, error) {
	required := configPath != ""
	if !required {
		configPath = config.DefaultFile
	}

	cfg, err := config.Load(configPath, required)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &Env{
		Config:        cfg,
		Logger:        logger,
		Out:           os.Stdout,
		Resolver:      wallet.DefaultResolver(),
		NewPassphrase: newPassphrase,
	}, nil
}

// newPassphrase checks the environment first, then prompts with confirmation
func newPassphrase() ([]byte, error) {
	if p := wallet.PassphraseFromEnv(); p != nil {
		return p, nil
	}
	return wallet.ReadPassphraseConfirm()
}

// OpenLedger opens the local ledger, creating it on first use.
func (e *Env) OpenLedger() (*ledger.Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(e.Config.Ledger), wallet.DirPermSecure); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	l, err := ledger.Open(e.Config.Ledger)
	if err != nil {
		return nil, err
	}
	if err := l.Initialize(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (e *Env) Program(l *ledger.Ledger) *vault.Program {
	return vault.New(e.Config.ProgramID, l,
		vault.WithLimits(e.Config.Limits),
		vault.WithLogger(e.Logger))
}

// Owner reads the owner address from the keyfile. No passphrase needed.
func (e *Env) Owner() (address.Address, error) {
	owner, err := wallet.LoadAddress(e.Config.Keyfile)
	if errors.Is(err, fs.ErrNotExist) {
		return address.Zero, fmt.Errorf("%w: %s", ErrNoKeyfile, e.Config.Keyfile)
	}
	return owner, err
}

// Unlock opens the keyfile, resolving the passphrase from the environment,
// the OS keyring or the terminal.
func (e *Env) Unlock() (*wallet.Key, error) {
	if _, err := e.Owner(); err != nil {
		return nil, err
	}
	return e.Resolver.Unlock(e.Config.Keyfile)
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, ErrNoKeyfile):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Run 'sweepvault keygen' first\n")
	case errors.Is(err, wallet.ErrKeyfileExists):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'sweepvault status' to see the current owner\n")
	case errors.Is(err, wallet.ErrWrongPassphrase):
		fmt.Fprintf(os.Stderr, "Error: wrong passphrase\n")
	case errors.Is(err, vault.ErrAccountNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'sweepvault init <target SOL>' first\n")
	case errors.Is(err, vault.ErrAlreadyInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault already initialized\n")
		fmt.Fprintf(os.Stderr, "Use 'sweepvault status' to see its target\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	if code := vault.Code(err); code != vault.CodeUnknown {
		fmt.Fprintf(os.Stderr, "Program error code: %d\n", code)
	}
	os.Exit(1)
}
