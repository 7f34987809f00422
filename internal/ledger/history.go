package ledger

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/illarion/sweepvault/internal/address"
)

// TransferRecord is one committed balance movement.
type TransferRecord struct {
	Seq      uint64          `cbor:"1,keyasint"`
	From     address.Address `cbor:"2,keyasint"`
	To       address.Address `cbor:"3,keyasint"`
	Amount   uint64          `cbor:"4,keyasint"`
	Mode     string          `cbor:"5,keyasint"`
	Program  address.Address `cbor:"6,keyasint"`
	UnixNano int64           `cbor:"7,keyasint"`
}

// Time returns when the transfer was recorded.
func (r TransferRecord) Time() time.Time {
	return time.Unix(0, r.UnixNano)
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Addresses serialize as their base58 text
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("ledger: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("ledger: CBOR decoder initialization failed: " + err.Error())
	}
}

func (tx *Tx) record(from, to address.Address, amount uint64, mode string) error {
	seq, err := tx.history.NextSequence()
	if err != nil {
		return fmt.Errorf("failed to allocate history sequence: %w", err)
	}
	data, err := encMode.Marshal(TransferRecord{
		Seq:      seq,
		From:     from,
		To:       to,
		Amount:   amount,
		Mode:     mode,
		Program:  tx.programID,
		UnixNano: time.Now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode transfer record: %w", err)
	}
	return tx.history.Put(encodeU64(seq), data)
}

// History returns up to limit most recent transfers, newest first. A
// non-positive limit returns everything.
func (tx *Tx) History(limit int) ([]TransferRecord, error) {
	var records []TransferRecord
	c := tx.history.Cursor()
	for k, v := c.Last(); k != nil; k, v = c.Prev() {
		if limit > 0 && len(records) >= limit {
			break
		}
		var r TransferRecord
		if err := decMode.Unmarshal(v, &r); err != nil {
			return nil, fmt.Errorf("failed to decode transfer record %d: %w", decodeU64(k), err)
		}
		records = append(records, r)
	}
	return records, nil
}
