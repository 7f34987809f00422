// Package address provides 32-byte account addresses and program-derived
// addresses for sweepvault.
//
// A program-derived address is the SHA-256 of its seeds, a bump byte, the
// program ID and the marker "ProgramDerivedAddress". Hashes that decode to a
// valid ed25519 point are rejected, so no private key can ever sign for a
// derived address. Spending from one requires presenting the seeds and bump
// (a DerivationAuthority) to the ledger instead of a signature.
package address
