package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	tokenctl "github.com/branched-services/go-tokenctl"
	"github.com/urfave/cli/v2"
)

var (
	toFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "Recipient address (defaults to playerAddress from the config)",
	}
	amountFlag = &cli.StringFlag{
		Name:     "amount",
		Usage:    "Amount in base units, as a decimal integer",
		Required: true,
	}
)

var pubkeyCommand = &cli.Command{
	Name:  "pubkey",
	Usage: "Print the public key, generating and storing a key on first use",
	Action: func(ctx *cli.Context) error {
		s, err := newSession(ctx, false)
		if err != nil {
			return err
		}
		defer s.close()

		pub, cfg, err := s.orch.PublicKey(s.loaded)
		if err != nil {
			return err
		}
		if err := s.persist(cfg); err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, pub)
		return nil
	},
}

var deployAccountCommand = &cli.Command{
	Name:  "deploy-account",
	Usage: "Deploy the account contract for the configured key",
	Action: func(ctx *cli.Context) error {
		s, err := newSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.close()

		cfg, dep, err := s.orch.DeployAccount(ctx.Context, s.loaded)
		if saveErr := s.persist(cfg); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, dep.ContractAddress.Hex())
		return nil
	},
}

var deployTokenCommand = &cli.Command{
	Name:  "deploy-token",
	Usage: "Deploy the token contract owned by the configured account",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Token name (short string)", Value: tokenctl.DefaultTokenParams().Name},
		&cli.StringFlag{Name: "symbol", Usage: "Token symbol (short string)", Value: tokenctl.DefaultTokenParams().Symbol},
		&cli.UintFlag{Name: "decimals", Usage: "Token decimals", Value: uint(tokenctl.DefaultTokenParams().Decimals)},
		&cli.StringFlag{Name: "cap", Usage: "Supply cap in base units", Value: tokenctl.DefaultTokenParams().Cap},
	},
	Action: func(ctx *cli.Context) error {
		decimals := ctx.Uint("decimals")
		if decimals > 255 {
			return fmt.Errorf("decimals %d out of range", decimals)
		}
		params := tokenctl.TokenParams{
			Name:     ctx.String("name"),
			Symbol:   ctx.String("symbol"),
			Decimals: uint8(decimals),
			Cap:      ctx.String("cap"),
		}

		s, err := newSession(ctx, true, tokenctl.WithTokenParams(params))
		if err != nil {
			return err
		}
		defer s.close()

		cfg, dep, err := s.orch.DeployToken(ctx.Context, s.loaded)
		if saveErr := s.persist(cfg); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, dep.ContractAddress.Hex())
		return nil
	},
}

var mintCommand = &cli.Command{
	Name:   "mint",
	Usage:  "Mint tokens from the account contract",
	Flags:  []cli.Flag{toFlag, amountFlag},
	Action: tokenCall("mint"),
}

var transferCommand = &cli.Command{
	Name:   "transfer",
	Usage:  "Transfer tokens held by the account contract",
	Flags:  []cli.Flag{toFlag, amountFlag},
	Action: tokenCall("transfer"),
}

func tokenCall(method string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		s, err := newSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.close()

		to := ctx.String(toFlag.Name)
		if to == "" {
			to = s.loaded.PlayerAddress
		}
		op := s.orch.Mint
		if method == "transfer" {
			op = s.orch.Transfer
		}

		cfg, hash, err := op(ctx.Context, s.loaded, to, ctx.String(amountFlag.Name))
		if saveErr := s.persist(cfg); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, hash.Hex())
		return nil
	}
}

var balanceCommand = &cli.Command{
	Name:  "balance",
	Usage: "Print the token balance of an address",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "address", Usage: "Address to query (defaults to playerAddress, then accountAddress)"},
	},
	Action: func(ctx *cli.Context) error {
		s, err := newSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.close()

		address := ctx.String("address")
		if address == "" {
			address = s.loaded.PlayerAddress
		}
		if address == "" {
			address = s.loaded.AccountAddress
		}

		balance, err := s.orch.CheckBalance(ctx.Context, s.loaded, address)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, balance)
		return nil
	},
}

var tokenInfoCommand = &cli.Command{
	Name:  "token-info",
	Usage: "Print name, symbol and decimals of the configured token",
	Action: func(ctx *cli.Context) error {
		s, err := newSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.close()

		meta, err := s.orch.TokenInfo(ctx.Context, s.loaded)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "address:  %s\nname:     %s\nsymbol:   %s\ndecimals: %d\n", meta.Address.Hex(), meta.Name, meta.Symbol, meta.Decimals)
		return nil
	},
}

var shortStringCommand = &cli.Command{
	Name:      "shortstring",
	Usage:     "Encode text as a short string felt, or decode one",
	ArgsUsage: "<text | felt>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "decode", Usage: "Decode a decimal or 0x-hex felt into text"},
	},
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return fmt.Errorf("expected exactly one argument, got %d", ctx.NArg())
		}
		arg := ctx.Args().First()

		if !ctx.Bool("decode") {
			v, err := tokenctl.EncodeShortString(arg)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "%s (0x%x)\n", v, v)
			return nil
		}

		v, ok := parseFelt(arg)
		if !ok {
			return fmt.Errorf("not a number: %q", arg)
		}
		text, err := tokenctl.DecodeShortString(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, text)
		return nil
	},
}

var splitCommand = &cli.Command{
	Name:      "split",
	Usage:     "Split a decimal amount into (low, high) 128-bit limbs",
	ArgsUsage: "<amount>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return fmt.Errorf("expected exactly one argument, got %d", ctx.NArg())
		}
		felts, err := tokenctl.SplitUint256(ctx.Args().First())
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "low:  %s\nhigh: %s\n", felts.Low, felts.High)
		return nil
	},
}

func parseFelt(s string) (*big.Int, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return new(big.Int).SetString(s[2:], 16)
	}
	return new(big.Int).SetString(s, 10)
}
