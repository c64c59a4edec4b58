package main

import (
	"errors"
	"fmt"

	tokenctl "github.com/branched-services/go-tokenctl"
	"github.com/urfave/cli/v2"
)

var errNoRPC = errors.New("no RPC endpoint: pass --rpc, set TOKENCTL_RPC or rpcUrl in the config")

// session is the state of one command invocation: the loaded record and the
// orchestrator built from the global flags.
type session struct {
	path   string
	loaded tokenctl.Config
	orch   *tokenctl.Orchestrator
	close  func()
}

// newSession loads the configuration record and artifacts. A network
// connection is only opened when online is set.
func newSession(ctx *cli.Context, online bool, opts ...tokenctl.OrchestratorOption) (*session, error) {
	path := ctx.String(configFlag.Name)
	cfg, err := tokenctl.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	artifacts := tokenctl.DefaultArtifacts()
	if dir := ctx.String(artifactsFlag.Name); dir != "" {
		if artifacts, err = tokenctl.LoadArtifacts(dir); err != nil {
			return nil, err
		}
	}

	s := &session{path: path, loaded: cfg, close: func() {}}

	var provider tokenctl.Provider
	if online {
		rpcURL := ctx.String(rpcFlag.Name)
		if rpcURL == "" {
			rpcURL = cfg.RPCURL
		}
		if rpcURL == "" {
			return nil, errNoRPC
		}
		var providerOpts []tokenctl.ProviderOption
		if limit := ctx.Uint64(gasLimitFlag.Name); limit > 0 {
			providerOpts = append(providerOpts, tokenctl.WithGasLimit(limit))
		}
		eth, err := tokenctl.DialEthProvider(ctx.Context, rpcURL, providerOpts...)
		if err != nil {
			return nil, err
		}
		provider = eth
		s.close = eth.Close
	}

	s.orch = tokenctl.NewOrchestrator(provider, artifacts, opts...)
	return s, nil
}

// persist writes cfg back if it differs from what was loaded. It runs after
// every mutating operation, including failed ones that already changed the
// record.
func (s *session) persist(cfg tokenctl.Config) error {
	if cfg == s.loaded {
		return nil
	}
	if err := tokenctl.SaveConfig(s.path, cfg); err != nil {
		return fmt.Errorf("persist %s: %w", s.path, err)
	}
	s.loaded = cfg
	return nil
}
