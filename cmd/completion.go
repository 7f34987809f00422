package cmd

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnknownShell is returned for shells without a completion script.
var ErrUnknownShell = errors.New("unknown shell (supported: bash, zsh, fish)")

// Completion outputs shell completion scripts
func Completion(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletion)
	case "zsh":
		fmt.Fprint(w, zshCompletion)
	case "fish":
		fmt.Fprint(w, fishCompletion)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownShell, shell)
	}
	return nil
}

const bashCompletion = `_sweepvault() {
    local cur prev words cword
    _init_completion || return

    local commands="keygen airdrop init deposit withdraw simulate status history compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    if [[ "$cur" == -* ]]; then
        local flags="-c --config"
        [[ "${words[1]}" == history ]] && flags="$flags -n --limit"
        COMPREPLY=($(compgen -W "$flags" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        simulate)
            [[ $cword -eq 2 ]] && COMPREPLY=($(compgen -W "initialize deposit withdraw" -- "$cur"))
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _sweepvault sweepvault
`

const zshCompletion = `#compdef sweepvault

_sweepvault() {
    local -a commands
    commands=(
        'keygen:Create the owner keyfile'
        'airdrop:Mint SOL on the local ledger'
        'init:Create the vault with a target amount'
        'deposit:Deposit SOL into the vault'
        'withdraw:Withdraw SOL from the vault'
        'simulate:Dry-run an operation and show balance changes'
        'status:Show vault status'
        'history:Show recent transfers'
        'compact:Compact the ledger to reclaim disk space'
        'keyring:Manage passphrase in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'sweepvault commands' commands
            ;;
        args)
            case "${words[2]}" in
                simulate)
                    _values 'operation' initialize deposit withdraw
                    ;;
                history)
                    _arguments '(-n --limit)'{-n,--limit}'[Number of transfers]:count'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'sweepvault commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_sweepvault "$@"
`

const fishCompletion = `# sweepvault fish completions

set -l commands keygen airdrop init deposit withdraw simulate status history compact keyring help completion

complete -c sweepvault -f

# Commands
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a keygen -d 'Create the owner keyfile'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a airdrop -d 'Mint SOL on the local ledger'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create the vault'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a deposit -d 'Deposit SOL'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a withdraw -d 'Withdraw SOL'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a simulate -d 'Dry-run an operation'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault status'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a history -d 'Show recent transfers'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact the ledger'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage passphrase in OS keyring'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c sweepvault -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# global flags
complete -c sweepvault -s c -l config -r -F -d 'Config file'

# simulate operations
complete -c sweepvault -n "__fish_seen_subcommand_from simulate" -a "initialize deposit withdraw"

# history flags
complete -c sweepvault -n "__fish_seen_subcommand_from history" -s n -l limit -r -d 'Number of transfers'

# keyring subcommands
complete -c sweepvault -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c sweepvault -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c sweepvault -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
