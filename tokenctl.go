// Package tokenctl is a client for a minimal account + capped token contract
// pair on an EVM network.
//
// It covers the parts of such a client that are easy to get wrong:
//
//   - Key custody: a signing key is generated once, stored in the
//     configuration record and reused on every later run.
//   - Value encoding: human readable strings become single-word "short
//     strings" and decimal amounts become (low, high) 128-bit limb pairs,
//     which is how the target contracts model 256-bit values.
//
// Everything else is delegated to a Provider. EthProvider implements it with
// go-ethereum's ethclient and bind packages.
//
// # Basic Usage
//
//	cfg, err := tokenctl.LoadConfig("config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	provider, err := tokenctl.DialEthProvider(ctx, "http://localhost:8545")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	artifacts, err := tokenctl.LoadArtifacts("./artifacts")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	orch := tokenctl.NewOrchestrator(provider, artifacts)
//	cfg, _, err = orch.DeployAccount(ctx, cfg)
//	if saveErr := tokenctl.SaveConfig("config.json", cfg); saveErr != nil {
//	    log.Fatal(saveErr)
//	}
//
// # Configuration
//
// Config is a value. Operations that change it (key generation, deployments)
// return the updated record and never touch the caller's copy; persisting it
// with SaveConfig is an explicit step. A stored private key is never replaced.
//
// # Contracts
//
// The account contract is constructed with the public key (the X coordinate
// of the secp256k1 public key) and deployed at a CREATE2 address salted with
// the same value. Token calls are routed through the account's execute
// method, so the account contract is the token owner and the sender of every
// mint and transfer.
//
// The token constructor takes [name, symbol, decimals, owner, capLow, capHigh]
// in exactly that order.
package tokenctl
