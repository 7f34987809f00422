// Package ledger is the host side of sweepvault: a BBolt-backed store of
// native balances and program-owned data accounts, plus the transfer
// primitive programs call into.
//
// Database structure uses four buckets:
//   - config: version and timestamps
//   - lamports: address -> u64 balance (absent means zero)
//   - accounts: address -> owning program ID + account data
//   - history: sequence -> CBOR transfer record
//
// Each Invoke runs in a single BBolt read-write transaction, so a program
// call either commits all of its balance and account changes or none of
// them. BBolt's single-writer lock serializes invocations.
//
// Transfers support two kinds of authority: an ordinary signer of the
// invocation, or an address.DerivationAuthority proving that the source is
// derived from the invoking program.
package ledger
