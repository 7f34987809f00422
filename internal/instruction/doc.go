// Package instruction is the wire-level entry point to the vault program.
//
// An instruction is an 8-byte discriminator, sha256("global:<name>")[:8],
// followed by the little-endian u64 amount. A Signed instruction carries the
// owner's ed25519 signature over the program ID, the account list and the
// data. The Processor verifies it before dispatching, which is how the
// program learns the authenticated owner identity.
package instruction
