// Package vault implements the sweepvault program.
//
// Each owner has one State record, stored at the address derived from
// ("state", owner), and one vault sub-account derived from ("vault", state).
// Nobody holds a key for the vault sub-account. Funds leave it only through a
// transfer authorized by its derivation seeds.
//
// Operations:
//   - Initialize: create the State with a target amount and both bumps
//   - Deposit: move up to MaxDeposit from the owner into the vault, then sweep
//   - Withdraw: move up to MaxWithdrawal from the vault back to the owner
//
// After every deposit the vault balance is compared with the target. Once it
// reaches the target, the whole balance is swept back to the owner.
// Withdrawals never sweep.
package vault
