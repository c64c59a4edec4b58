package tokenctl

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// TokenParams are the constructor parameters of the token contract.
type TokenParams struct {
	Name     string
	Symbol   string
	Decimals uint8
	Cap      string
}

// DefaultTokenParams returns the parameters DeployToken uses unless
// overridden with WithTokenParams.
func DefaultTokenParams() TokenParams {
	return TokenParams{
		Name:     "ING$",
		Symbol:   "ING$",
		Decimals: 18,
		Cap:      "1000000",
	}
}

// TokenMetadata is what TokenInfo reads back from a deployed token.
type TokenMetadata struct {
	Address  common.Address
	Name     string
	Symbol   string
	Decimals uint8
}

// Orchestrator sequences the account and token operations against a Provider.
// It keeps no state between operations: every call takes the current Config
// and, where it changes it, returns the updated one for the caller to persist.
//
// Operations are meant to run one at a time.
type Orchestrator struct {
	provider  Provider
	artifacts Artifacts
	token     TokenParams
	keyOpts   []KeyOption
	logger    log.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(provider Provider, artifacts Artifacts, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		provider:  provider,
		artifacts: artifacts,
		token:     DefaultTokenParams(),
		logger:    log.Root(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PublicKey returns the public key for cfg, generating a key if needed.
func (o *Orchestrator) PublicKey(cfg Config) (string, Config, error) {
	pair, cfg, err := ObtainKeyPair(cfg, o.keyOpts...)
	if err != nil {
		return "", cfg, err
	}
	return pair.PublicKey(), cfg, nil
}

// DeployAccount deploys the account contract with the public key as both
// constructor argument and address salt.
//
// The returned Config carries the new account address even when waiting for
// confirmation fails.
func (o *Orchestrator) DeployAccount(ctx context.Context, cfg Config) (Config, *Deployment, error) {
	if o.artifacts.Account == nil {
		return cfg, nil, ErrArtifactMissing
	}

	pair, cfg, err := ObtainKeyPair(cfg, o.keyOpts...)
	if err != nil {
		return cfg, nil, err
	}
	o.logger.Info("Deploying account contract", "publickey", pair.PublicKey(), "signer", pair.Address())

	salt := pair.Salt()
	dep, err := o.deploy(ctx, pair, DeployRequest{
		Artifact:        o.artifacts.Account,
		ConstructorArgs: []any{pair.PublicKeyInt()},
		Salt:            &salt,
	})
	if err != nil {
		return cfg, nil, err
	}
	cfg = cfg.WithAccountAddress(dep.ContractAddress)

	return cfg, dep, o.await(ctx, "account", dep)
}

// DeployToken deploys the token contract owned by the configured account.
// Constructor arguments are [name, symbol, decimals, owner, capLow, capHigh].
func (o *Orchestrator) DeployToken(ctx context.Context, cfg Config) (Config, *Deployment, error) {
	if o.artifacts.Token == nil {
		return cfg, nil, ErrArtifactMissing
	}
	owner, err := cfg.Account()
	if err != nil {
		return cfg, nil, err
	}
	args, err := o.tokenConstructorArgs(owner)
	if err != nil {
		return cfg, nil, err
	}

	pair, cfg, err := ObtainKeyPair(cfg, o.keyOpts...)
	if err != nil {
		return cfg, nil, err
	}
	o.logger.Info("Deploying token contract", "name", o.token.Name, "symbol", o.token.Symbol, "cap", o.token.Cap, "owner", owner)

	dep, err := o.deploy(ctx, pair, DeployRequest{
		Artifact:        o.artifacts.Token,
		ConstructorArgs: args,
	})
	if err != nil {
		return cfg, nil, err
	}
	cfg = cfg.WithERC20Address(dep.ContractAddress)

	return cfg, dep, o.await(ctx, "token", dep)
}

func (o *Orchestrator) tokenConstructorArgs(owner common.Address) ([]any, error) {
	name, err := EncodeShortString(o.token.Name)
	if err != nil {
		return nil, err
	}
	symbol, err := EncodeShortString(o.token.Symbol)
	if err != nil {
		return nil, err
	}
	supplyCap, err := parseOnChainAmount(o.token.Cap)
	if err != nil {
		return nil, err
	}
	args := []any{name, symbol, o.token.Decimals, owner}
	return append(args, supplyCap.Calldata()...), nil
}

// deploy checks the constructor arguments locally before anything is sent.
func (o *Orchestrator) deploy(ctx context.Context, pair *KeyPair, req DeployRequest) (*Deployment, error) {
	if _, err := PackConstructor(req.Artifact.ABI, req.ConstructorArgs...); err != nil {
		return nil, err
	}
	return o.provider.DeployContract(ctx, pair.ECDSA(), req)
}

func (o *Orchestrator) await(ctx context.Context, what string, dep *Deployment) error {
	o.logger.Info("Waiting for deployment", "contract", what, "address", dep.ContractAddress, "tx", dep.TransactionHash)
	if err := o.provider.WaitForTransaction(ctx, dep.TransactionHash); err != nil {
		return err
	}
	o.logger.Info("Contract deployed", "contract", what, "address", dep.ContractAddress)
	return nil
}

// Mint mints amount tokens to the recipient through the account contract.
func (o *Orchestrator) Mint(ctx context.Context, cfg Config, to, amount string) (Config, common.Hash, error) {
	return o.execute(ctx, cfg, "mint", to, amount)
}

// Transfer moves amount tokens from the account contract to the recipient.
func (o *Orchestrator) Transfer(ctx context.Context, cfg Config, to, amount string) (Config, common.Hash, error) {
	return o.execute(ctx, cfg, "transfer", to, amount)
}

// execute calls a token method from the account contract: the key's account
// sends account.execute(token, calldata).
func (o *Orchestrator) execute(ctx context.Context, cfg Config, method, to, amount string) (Config, common.Hash, error) {
	if o.artifacts.Account == nil || o.artifacts.Token == nil {
		return cfg, common.Hash{}, ErrArtifactMissing
	}
	recipient, err := ParseAddress("recipient", to)
	if err != nil {
		return cfg, common.Hash{}, err
	}
	felts, err := parseOnChainAmount(amount)
	if err != nil {
		return cfg, common.Hash{}, err
	}
	accountAddr, err := cfg.Account()
	if err != nil {
		return cfg, common.Hash{}, err
	}
	tokenAddr, err := cfg.Token()
	if err != nil {
		return cfg, common.Hash{}, err
	}

	token := NewContract(tokenAddr, o.artifacts.Token.ABI)
	inner, err := token.Pack(method, append([]any{recipient}, felts.Calldata()...)...)
	if err != nil {
		return cfg, common.Hash{}, err
	}
	account := NewContract(accountAddr, o.artifacts.Account.ABI)
	data, err := account.Pack("execute", tokenAddr, inner)
	if err != nil {
		return cfg, common.Hash{}, err
	}

	pair, cfg, err := ObtainKeyPair(cfg, o.keyOpts...)
	if err != nil {
		return cfg, common.Hash{}, err
	}
	logger := o.logger.New("method", method, "token", tokenAddr, "to", recipient, "amount", felts)
	logger.Info("Submitting token call", "account", accountAddr)

	hash, err := o.provider.Invoke(ctx, pair.ECDSA(), accountAddr, data)
	if err != nil {
		return cfg, common.Hash{}, err
	}
	logger.Info("Waiting for transaction", "tx", hash)
	if err := o.provider.WaitForTransaction(ctx, hash); err != nil {
		return cfg, hash, err
	}
	logger.Info("Token call confirmed", "tx", hash)
	return cfg, hash, nil
}

// CheckBalance returns the token balance of address as a decimal string.
// It is read-only and needs no key.
func (o *Orchestrator) CheckBalance(ctx context.Context, cfg Config, address string) (string, error) {
	who, err := ParseAddress("address", address)
	if err != nil {
		return "", err
	}
	token, err := o.tokenContract(cfg)
	if err != nil {
		return "", err
	}

	o.logger.Debug("Querying balance", "token", token.Address(), "address", who)
	out, err := o.callToken(ctx, token, "balanceOf", who)
	if err != nil {
		return "", err
	}
	if len(out) != 2 {
		return "", &ProviderError{Op: "decode balanceOf", Err: fmt.Errorf("unexpected result %v", out)}
	}
	low, lowOK := out[0].(*big.Int)
	high, highOK := out[1].(*big.Int)
	if !lowOK || !highOK {
		return "", &ProviderError{Op: "decode balanceOf", Err: fmt.Errorf("unexpected result %v", out)}
	}
	balance := Recombine(low, high).String()
	o.logger.Info("Token balance", "address", who, "balance", balance)
	return balance, nil
}

// TokenInfo reads the name, symbol and decimals of the configured token.
func (o *Orchestrator) TokenInfo(ctx context.Context, cfg Config) (TokenMetadata, error) {
	token, err := o.tokenContract(cfg)
	if err != nil {
		return TokenMetadata{}, err
	}
	meta := TokenMetadata{Address: token.Address()}

	for _, field := range []struct {
		method string
		dst    *string
	}{
		{"name", &meta.Name},
		{"symbol", &meta.Symbol},
	} {
		out, err := o.callToken(ctx, token, field.method)
		if err != nil {
			return TokenMetadata{}, err
		}
		felt, ok := out[0].(*big.Int)
		if !ok {
			return TokenMetadata{}, &ProviderError{Op: "decode " + field.method, Err: fmt.Errorf("unexpected result %v", out)}
		}
		if *field.dst, err = DecodeShortString(felt); err != nil {
			return TokenMetadata{}, err
		}
	}

	out, err := o.callToken(ctx, token, "decimals")
	if err != nil {
		return TokenMetadata{}, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return TokenMetadata{}, &ProviderError{Op: "decode decimals", Err: fmt.Errorf("unexpected result %v", out)}
	}
	meta.Decimals = decimals
	return meta, nil
}

func (o *Orchestrator) tokenContract(cfg Config) (*Contract, error) {
	if o.artifacts.Token == nil {
		return nil, ErrArtifactMissing
	}
	addr, err := cfg.Token()
	if err != nil {
		return nil, err
	}
	return NewContract(addr, o.artifacts.Token.ABI), nil
}

// callToken performs a read-only call and decodes a non-empty result.
func (o *Orchestrator) callToken(ctx context.Context, token *Contract, method string, args ...any) ([]any, error) {
	data, err := token.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	raw, err := o.provider.Call(ctx, token.Address(), data)
	if err != nil {
		return nil, err
	}
	out, err := token.Unpack(method, raw)
	if err != nil {
		return nil, &ProviderError{Op: "decode " + method, Err: err}
	}
	if len(out) == 0 {
		return nil, &ProviderError{Op: "decode " + method, Err: fmt.Errorf("empty result")}
	}
	return out, nil
}
