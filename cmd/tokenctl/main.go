// Command tokenctl manages a signing key, deploys the account and token
// contracts and issues mint, transfer and balance operations against them.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to the JSON configuration record",
		Value:   "config.json",
		EnvVars: []string{"TOKENCTL_CONFIG"},
	}
	rpcFlag = &cli.StringFlag{
		Name:    "rpc",
		Usage:   "RPC endpoint of the network (defaults to rpcUrl from the config)",
		EnvVars: []string{"TOKENCTL_RPC"},
	}
	artifactsFlag = &cli.StringFlag{
		Name:    "artifacts",
		Usage:   "Directory holding Account.json and ERC20.json (ABI-only bindings if unset)",
		EnvVars: []string{"TOKENCTL_ARTIFACTS"},
	}
	gasLimitFlag = &cli.Uint64Flag{
		Name:  "gas-limit",
		Usage: "Fixed gas limit per transaction (0 = estimate)",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Failed to load .env file", "err", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Error("Command failed", "err", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tokenctl",
		Usage: "Deploy and operate an account-owned capped token",
		Flags: []cli.Flag{
			configFlag,
			rpcFlag,
			artifactsFlag,
			gasLimitFlag,
			verbosityFlag,
		},
		Before: func(ctx *cli.Context) error {
			setupLogging(ctx.Int(verbosityFlag.Name))
			return nil
		},
		Commands: []*cli.Command{
			pubkeyCommand,
			deployAccountCommand,
			deployTokenCommand,
			mintCommand,
			transferCommand,
			balanceCommand,
			tokenInfoCommand,
			shortStringCommand,
			splitCommand,
		},
	}
}

func setupLogging(verbosity int) {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), useColor)
	log.SetDefault(log.NewLogger(handler))
}
