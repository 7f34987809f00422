// Package wallet manages the owner's ed25519 keypair.
//
// The private seed is sealed at rest with AES-256-GCM under a key derived
// from a passphrase:
//   - 32-byte key derived via PBKDF2-HMAC-SHA256
//   - 32-byte random salt, 210,000 iterations (OWASP minimum)
//   - 12-byte random nonce
//
// The public key is stored in the clear so the owner address is readable
// without the passphrase (status, keyring lookups).
//
// Memory safety:
//   - Use ClearBytes() to zero passphrases after use
//   - Call Key.Destroy() when done signing
package wallet
