package tokenctl

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthBackend is the subset of an RPC client the provider uses.
// *ethclient.Client satisfies it.
type EthBackend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// EthProvider implements Provider on top of a go-ethereum RPC client.
type EthProvider struct {
	backend EthBackend
	chainID *big.Int
	config  *providerConfig
	closer  func()

	mu       sync.Mutex
	deployed map[common.Hash]common.Address // pending deployment tx -> contract
}

var _ Provider = (*EthProvider)(nil)

// NewEthProvider wraps an existing backend for the given chain.
func NewEthProvider(backend EthBackend, chainID *big.Int, opts ...ProviderOption) *EthProvider {
	cfg := defaultProviderConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &EthProvider{
		backend:  backend,
		chainID:  new(big.Int).Set(chainID),
		config:   cfg,
		deployed: make(map[common.Hash]common.Address),
	}
}

// DialEthProvider connects to rpcURL and reads the chain ID from the node.
func DialEthProvider(ctx context.Context, rpcURL string, opts ...ProviderOption) (*EthProvider, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, &ProviderError{Op: "dial", Err: err}
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, &ProviderError{Op: "chain id", Err: err}
	}
	p := NewEthProvider(client, chainID, opts...)
	p.closer = client.Close
	p.config.logger.Debug("Connected to network", "url", rpcURL, "chainid", chainID)
	return p, nil
}

// Close releases the underlying connection if the provider opened it.
func (p *EthProvider) Close() {
	if p.closer != nil {
		p.closer()
	}
}

// ChainID returns the chain the provider signs for.
func (p *EthProvider) ChainID() *big.Int {
	return new(big.Int).Set(p.chainID)
}

func (p *EthProvider) transactOpts(ctx context.Context, key *ecdsa.PrivateKey) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key, p.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	if p.config.gasLimit > 0 {
		opts.GasLimit = p.config.gasLimit
	}
	return opts, nil
}

// DeployContract deploys req.Artifact. Without a salt the contract is created
// by a plain deployment transaction; with a salt it goes through the CREATE2
// deployment proxy so the address depends only on the salt and init code.
func (p *EthProvider) DeployContract(ctx context.Context, key *ecdsa.PrivateKey, req DeployRequest) (*Deployment, error) {
	if req.Artifact == nil {
		return nil, ErrArtifactMissing
	}
	if err := req.Artifact.Deployable(); err != nil {
		return nil, err
	}
	opts, err := p.transactOpts(ctx, key)
	if err != nil {
		return nil, &ProviderError{Op: "deploy", Err: err}
	}

	if req.Salt == nil {
		addr, tx, _, err := bind.DeployContract(opts, req.Artifact.ABI, req.Artifact.Bytecode, p.backend, req.ConstructorArgs...)
		if err != nil {
			return nil, &ProviderError{Op: "deploy " + req.Artifact.Name, Err: err}
		}
		p.config.logger.Debug("Submitted deployment", "contract", req.Artifact.Name, "address", addr, "tx", tx.Hash())
		p.trackDeployment(tx.Hash(), addr)
		return &Deployment{ContractAddress: addr, TransactionHash: tx.Hash()}, nil
	}

	initCode, err := req.Artifact.InitCode(req.ConstructorArgs...)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, common.HashLength+len(initCode))
	data = append(data, req.Salt.Bytes()...)
	data = append(data, initCode...)

	proxy := bind.NewBoundContract(p.config.deployerProxy, abi.ABI{}, p.backend, p.backend, p.backend)
	tx, err := proxy.RawTransact(opts, data)
	if err != nil {
		return nil, &ProviderError{Op: "deploy " + req.Artifact.Name, Err: err}
	}
	addr := crypto.CreateAddress2(p.config.deployerProxy, *req.Salt, crypto.Keccak256(initCode))
	p.config.logger.Debug("Submitted salted deployment", "contract", req.Artifact.Name, "address", addr, "salt", *req.Salt, "tx", tx.Hash())
	p.trackDeployment(tx.Hash(), addr)
	return &Deployment{ContractAddress: addr, TransactionHash: tx.Hash()}, nil
}

func (p *EthProvider) trackDeployment(hash common.Hash, addr common.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deployed[hash] = addr
}

func (p *EthProvider) takeDeployment(hash common.Hash) (common.Address, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	addr, ok := p.deployed[hash]
	delete(p.deployed, hash)
	return addr, ok
}

// WaitForTransaction polls for the receipt of hash until it is mined or ctx is
// done. A mined transaction with failed status is an error. For deployments
// submitted through this provider, a successful receipt is only accepted once
// the contract address holds code: a call to a missing deployment proxy
// succeeds without creating anything.
func (p *EthProvider) WaitForTransaction(ctx context.Context, hash common.Hash) error {
	ticker := time.NewTicker(p.config.pollInterval)
	defer ticker.Stop()

	logger := p.config.logger.New("hash", hash)
	for {
		receipt, err := p.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return &ProviderError{Op: "wait", Err: fmt.Errorf("%w: %s", ErrTransactionReverted, hash.Hex())}
			}
			logger.Debug("Transaction mined", "block", receipt.BlockNumber, "gas", receipt.GasUsed)
			return p.checkDeployed(ctx, hash)
		case errors.Is(err, ethereum.NotFound):
			logger.Trace("Transaction not yet mined")
		default:
			return &ProviderError{Op: "wait", Err: err}
		}

		select {
		case <-ctx.Done():
			return &ProviderError{Op: "wait", Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}

func (p *EthProvider) checkDeployed(ctx context.Context, hash common.Hash) error {
	addr, ok := p.takeDeployment(hash)
	if !ok {
		return nil
	}
	code, err := p.backend.CodeAt(ctx, addr, nil)
	if err != nil {
		return &ProviderError{Op: "wait", Err: err}
	}
	if len(code) == 0 {
		return &ProviderError{Op: "wait", Err: fmt.Errorf("%w: %s", ErrNoContractCode, addr.Hex())}
	}
	return nil
}

// Invoke sends data to the contract at to.
func (p *EthProvider) Invoke(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, data []byte) (common.Hash, error) {
	opts, err := p.transactOpts(ctx, key)
	if err != nil {
		return common.Hash{}, &ProviderError{Op: "invoke", Err: err}
	}
	bound := bind.NewBoundContract(to, abi.ABI{}, p.backend, p.backend, p.backend)
	tx, err := bound.RawTransact(opts, data)
	if err != nil {
		return common.Hash{}, &ProviderError{Op: "invoke", Err: err}
	}
	p.config.logger.Debug("Submitted transaction", "to", to, "tx", tx.Hash())
	return tx.Hash(), nil
}

// Call runs a read-only call against the latest block.
func (p *EthProvider) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := p.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, &ProviderError{Op: "call", Err: err}
	}
	return out, nil
}
