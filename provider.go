package tokenctl

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// Provider is the narrow view of the ledger network the orchestrator needs.
// Implementations return *ProviderError for network failures.
type Provider interface {
	// DeployContract submits a deployment signed by key. It returns as soon as
	// the transaction is accepted by the node, not when it is mined.
	DeployContract(ctx context.Context, key *ecdsa.PrivateKey, req DeployRequest) (*Deployment, error)

	// WaitForTransaction blocks until the transaction is final or has failed.
	WaitForTransaction(ctx context.Context, hash common.Hash) error

	// Invoke sends a state-changing call signed by key.
	Invoke(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, data []byte) (common.Hash, error)

	// Call performs a read-only call against the latest state.
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// DeployRequest describes a contract deployment.
type DeployRequest struct {
	Artifact        *Artifact
	ConstructorArgs []any

	// Salt selects deterministic (CREATE2) deployment when set.
	Salt *common.Hash
}

// Deployment is the result of a submitted deployment.
type Deployment struct {
	ContractAddress common.Address
	TransactionHash common.Hash
}
