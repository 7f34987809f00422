package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/illarion/sweepvault/cmd"
	"github.com/illarion/sweepvault/internal/config"
	"github.com/illarion/sweepvault/internal/wallet"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "keygen":
		runKeygen(ctx, os.Args[2:])
	case "airdrop":
		runAirdrop(ctx, os.Args[2:])
	case "init":
		runInit(ctx, os.Args[2:])
	case "deposit":
		runDeposit(ctx, os.Args[2:])
	case "withdraw":
		runWithdraw(ctx, os.Args[2:])
	case "simulate":
		runSimulate(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "history":
		runHistory(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// command is a subcommand's flag set plus the flags every command shares.
type command struct {
	fs         *pflag.FlagSet
	configPath *string
}

func newCommand(name string) *command {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "Path to config file (default "+config.DefaultFile+")")
	return &command{fs: fs, configPath: configPath}
}

// parse expects exactly nargs positional arguments (-1 for any) and
// returns the command's environment.
func (c *command) parse(args []string, nargs int, usage string) *cmd.Env {
	if err := c.fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if nargs >= 0 && c.fs.NArg() != nargs {
		fmt.Fprintf(os.Stderr, "Usage: sweepvault %s\n", usage)
		os.Exit(1)
	}

	env, err := cmd.Setup(*c.configPath)
	if err != nil {
		cmd.HandleError(err)
	}
	return env
}

func (c *command) arg(i int) string {
	return c.fs.Arg(i)
}

func check(err error) {
	if err != nil {
		cmd.HandleError(err)
	}
}

func runKeygen(_ context.Context, args []string) {
	c := newCommand("keygen")
	env := c.parse(args, 0, "keygen")
	defer env.Logger.Sync()

	check(cmd.Keygen(env))
}

func runAirdrop(ctx context.Context, args []string) {
	c := newCommand("airdrop")
	env := c.parse(args, -1, "airdrop <SOL> [address]")
	defer env.Logger.Sync()

	if n := c.fs.NArg(); n < 1 || n > 2 {
		fmt.Fprintln(os.Stderr, "Usage: sweepvault airdrop <SOL> [address]")
		os.Exit(1)
	}
	check(cmd.Airdrop(ctx, env, c.arg(0), c.arg(1)))
}

func runInit(ctx context.Context, args []string) {
	c := newCommand("init")
	env := c.parse(args, 1, "init <target SOL>")
	defer env.Logger.Sync()

	check(cmd.Init(ctx, env, c.arg(0)))
}

func runDeposit(ctx context.Context, args []string) {
	c := newCommand("deposit")
	env := c.parse(args, 1, "deposit <SOL>")
	defer env.Logger.Sync()

	check(cmd.Deposit(ctx, env, c.arg(0)))
}

func runWithdraw(ctx context.Context, args []string) {
	c := newCommand("withdraw")
	env := c.parse(args, 1, "withdraw <SOL>")
	defer env.Logger.Sync()

	check(cmd.Withdraw(ctx, env, c.arg(0)))
}

func runSimulate(ctx context.Context, args []string) {
	c := newCommand("simulate")
	env := c.parse(args, 2, "simulate <initialize|deposit|withdraw> <SOL>")
	defer env.Logger.Sync()

	check(cmd.Simulate(ctx, env, c.arg(0), c.arg(1)))
}

func runStatus(_ context.Context, args []string) {
	c := newCommand("status")
	env := c.parse(args, 0, "status")
	defer env.Logger.Sync()

	check(cmd.Status(env))
}

func runHistory(_ context.Context, args []string) {
	c := newCommand("history")
	limit := c.fs.IntP("limit", "n", 20, "Number of transfers to show (0 for all)")
	env := c.parse(args, 0, "history [-n N]")
	defer env.Logger.Sync()

	check(cmd.History(env, *limit))
}

func runCompact(_ context.Context, args []string) {
	c := newCommand("compact")
	env := c.parse(args, 0, "compact")
	defer env.Logger.Sync()

	check(cmd.Compact(env))
}

func runKeyring(_ context.Context, args []string) {
	c := newCommand("keyring")
	env := c.parse(args, 1, "keyring <save|delete|status>")
	defer env.Logger.Sync()

	switch c.arg(0) {
	case "save":
		check(cmd.KeyringSave(env, wallet.ReadPassphrase))
	case "delete":
		check(cmd.KeyringDelete(env))
	case "status":
		check(cmd.KeyringStatus(env))
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", c.arg(0))
		fmt.Fprintln(os.Stderr, "Usage: sweepvault keyring <save|delete|status>")
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sweepvault completion <bash|zsh|fish>")
		os.Exit(1)
	}
	if err := cmd.Completion(os.Stdout, args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("sweepvault - Custodial SOL vault that sweeps itself back at a target")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sweepvault <command> [-c config.yaml] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  keygen      Create the owner keyfile")
	fmt.Println("  airdrop     Mint SOL on the local ledger")
	fmt.Println("  init        Create the vault with a target amount")
	fmt.Println("  deposit     Deposit SOL into the vault")
	fmt.Println("  withdraw    Withdraw SOL from the vault")
	fmt.Println("  simulate    Dry-run an operation and show balance changes")
	fmt.Println("  status      Show vault status")
	fmt.Println("  history     Show recent transfers")
	fmt.Println("  compact     Compact the ledger to reclaim disk space")
	fmt.Println("  keyring     Manage passphrase in OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  sweepvault keygen                # Create owner key")
	fmt.Println("  sweepvault airdrop 10            # Fund the owner")
	fmt.Println("  sweepvault init 2                # Sweep back once the vault holds 2 SOL")
	fmt.Println("  sweepvault deposit 0.5           # Deposit half a SOL")
	fmt.Println("  sweepvault status                # Check vault status")
	fmt.Println()
	fmt.Println("Use 'sweepvault help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "keygen":
		fmt.Println("sweepvault keygen")
		fmt.Println()
		fmt.Println("Generates a new ed25519 owner key and seals it with a passphrase.")
		fmt.Println("The passphrase is read from $" + wallet.PassphraseEnv + " or prompted for twice.")
		fmt.Println("Refuses to overwrite an existing keyfile.")
	case "airdrop":
		fmt.Println("sweepvault airdrop <SOL> [address]")
		fmt.Println()
		fmt.Println("Mints SOL on the local ledger. Credits the owner unless an address is given.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  sweepvault airdrop 10")
		fmt.Println("  sweepvault airdrop 1.5 4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw")
	case "init":
		fmt.Println("sweepvault init <target SOL>")
		fmt.Println()
		fmt.Println("Creates the owner's vault. Once a deposit brings the vault balance")
		fmt.Println("to the target, the whole balance is returned to the owner.")
		fmt.Println("A vault can only be initialized once.")
	case "deposit":
		fmt.Println("sweepvault deposit <SOL>")
		fmt.Println()
		fmt.Println("Moves SOL from the owner into the vault (at most 1 SOL by default),")
		fmt.Println("then sweeps the vault if it has reached its target.")
	case "withdraw":
		fmt.Println("sweepvault withdraw <SOL>")
		fmt.Println()
		fmt.Println("Moves SOL from the vault back to the owner (at most 3 SOL by default).")
		fmt.Println("Withdrawals never trigger a sweep.")
	case "simulate":
		fmt.Println("sweepvault simulate <initialize|deposit|withdraw> <SOL>")
		fmt.Println()
		fmt.Println("Runs the operation against the ledger and rolls it back, printing a")
		fmt.Println("diff of the owner and vault balances and the result it would have.")
		fmt.Println("Does not require a passphrase.")
	case "status":
		fmt.Println("sweepvault status")
		fmt.Println()
		fmt.Println("Shows the owner, state and vault addresses, the target amount,")
		fmt.Println("both balances and the configured limits.")
		fmt.Println()
		fmt.Println("Does not require a passphrase.")
	case "history":
		fmt.Println("sweepvault history [-n N]")
		fmt.Println()
		fmt.Println("Lists recent transfers on the ledger, newest first.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -n, --limit N   Number of transfers to show (default 20, 0 for all)")
	case "compact":
		fmt.Println("sweepvault compact")
		fmt.Println()
		fmt.Println("Compacts the ledger database to reclaim unused disk space.")
	case "keyring":
		fmt.Println("sweepvault keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Stores the keyfile passphrase in the OS keyring so commands")
		fmt.Println("do not prompt for it.")
	case "completion":
		fmt.Println("sweepvault completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(sweepvault completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(sweepvault completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  sweepvault completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
