package cmd

import (
	"fmt"
	"time"

	"github.com/illarion/sweepvault/internal/lamports"
	"github.com/illarion/sweepvault/internal/ledger"
)

// History lists the most recent transfers on the ledger
func History(e *Env, limit int) error {
	l, err := e.OpenLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	var records []ledger.TransferRecord
	err = l.View(func(tx *ledger.Tx) error {
		records, err = tx.History(limit)
		return err
	})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(e.Out, "No transfers")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(e.Out, "#%d %s %-6s %s SOL %s -> %s\n",
			r.Seq, r.Time().Format(time.RFC3339), r.Mode,
			lamports.FormatSOL(r.Amount), r.From, r.To)
	}
	return nil
}
