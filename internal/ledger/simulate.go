package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	bolt "go.etcd.io/bbolt"

	"github.com/illarion/sweepvault/internal/address"
)

// Simulation captures what an invocation would have done.
type Simulation struct {
	Before string
	After  string
	// Err is the error the invocation itself returned, if any.
	Err error
}

// Simulate runs fn exactly like Invoke but always rolls back. watch lists the
// accounts whose balances are captured before and after.
func (l *Ledger) Simulate(ctx context.Context, programID address.Address, signers []address.Address, labels []string, watch []address.Address, fn func(*Tx) error) (*Simulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sim := &Simulation{}
	err := l.db.Update(func(btx *bolt.Tx) error {
		tx, err := newTx(btx, programID, signers)
		if err != nil {
			return err
		}
		sim.Before = tx.Dump(labels, watch)
		sim.Err = fn(tx)
		if sim.Err != nil {
			// A failed invocation has no effects
			sim.After = sim.Before
		} else {
			sim.After = tx.Dump(labels, watch)
		}
		return errSimulated
	})
	if !errors.Is(err, errSimulated) {
		return nil, err
	}
	return sim, nil
}

// Diff renders Before against After line by line: unchanged lines are
// indented, removed lines start with "- " and added lines with "+ ".
func (s *Simulation) Diff() string {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(s.Before, s.After)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String()
}
