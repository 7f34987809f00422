package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/illarion/sweepvault/internal/address"
)

// Bucket names
var (
	ConfigBucket   = []byte("config")
	LamportsBucket = []byte("lamports")
	AccountsBucket = []byte("accounts")
	HistoryBucket  = []byte("history")
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
)

var (
	ErrNotInitialized      = errors.New("ledger not initialized")
	ErrInsufficientBalance = errors.New("insufficient lamports")
	ErrOverflow            = errors.New("balance overflow")
	ErrMissingSignature    = errors.New("missing required signature")
	ErrAccountExists       = errors.New("account already in use")
	ErrAccountNotFound     = errors.New("account not found")

	errSimulated = errors.New("simulated invocation rolled back")
)

// Ledger provides BBolt-based storage of balances and accounts
type Ledger struct {
	db *bolt.DB
}

// Open opens or creates a ledger database
func Open(path string) (*Ledger, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path
func (l *Ledger) Path() string {
	return l.db.Path()
}

// Initialize creates the bucket structure for a new ledger. Calling it on an
// initialized ledger is harmless.
func (l *Ledger) Initialize() error {
	return l.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, LamportsBucket, AccountsBucket, HistoryBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (l *Ledger) IsInitialized() (bool, error) {
	var initialized bool
	err := l.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// GetModified retrieves the time of the last committed invocation
func (l *Ledger) GetModified() (time.Time, error) {
	var modified time.Time
	err := l.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return ErrNotInitialized
		}
		data := config.Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// Invoke runs fn as a single atomic invocation of programID. signers are the
// addresses that authenticated the invocation. If fn returns an error,
// nothing it did is persisted.
func (l *Ledger) Invoke(ctx context.Context, programID address.Address, signers []address.Address, fn func(*Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.db.Update(func(btx *bolt.Tx) error {
		tx, err := newTx(btx, programID, signers)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
		modified, _ := time.Now().MarshalBinary()
		return btx.Bucket(ConfigBucket).Put(ConfigModified, modified)
	})
}

// View gives read-only access to the ledger. Mutating methods on the Tx fail.
func (l *Ledger) View(fn func(*Tx) error) error {
	return l.db.View(func(btx *bolt.Tx) error {
		tx, err := newTx(btx, address.Zero, nil)
		if err != nil {
			return err
		}
		return fn(tx)
	})
}

// Balance is a convenience wrapper around View for a single balance.
func (l *Ledger) Balance(addr address.Address) (uint64, error) {
	var balance uint64
	err := l.View(func(tx *Tx) error {
		balance = tx.Balance(addr)
		return nil
	})
	return balance, err
}

// Compact creates a compacted copy of the database, removing unused space.
func (l *Ledger) Compact() error {
	srcPath := l.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	if err := bolt.Compact(dst, l.db, 0); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := l.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	l.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("failed to reopen ledger: %w", err)
	}

	return nil
}

func encodeU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func decodeU64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
