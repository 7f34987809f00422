// Package git reports whether sweepvault's local files (the sealed owner
// keyfile and the ledger) are exposed to a git repository. It shells out to
// the git binary and treats any failure as "not a repository".
package git
