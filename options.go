package tokenctl

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// DefaultDeployerProxy is the deterministic deployment proxy present on most
// EVM networks. It deploys calldata `salt ‖ initCode` with CREATE2.
var DefaultDeployerProxy = common.HexToAddress("0x4e59b44847b379578588920ca78fbf26c0b4956c")

// DefaultPollInterval is how often receipts are polled while waiting.
const DefaultPollInterval = time.Second

// ProviderOption configures an EthProvider.
type ProviderOption func(*providerConfig)

type providerConfig struct {
	pollInterval  time.Duration
	gasLimit      uint64
	deployerProxy common.Address
	logger        log.Logger
}

func defaultProviderConfig() *providerConfig {
	return &providerConfig{
		pollInterval:  DefaultPollInterval,
		deployerProxy: DefaultDeployerProxy,
		logger:        log.Root(),
	}
}

// WithPollInterval sets the receipt polling interval.
// Non-positive values are ignored.
func WithPollInterval(d time.Duration) ProviderOption {
	return func(c *providerConfig) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithGasLimit fixes the gas limit of every transaction.
// Zero (the default) lets the node estimate it.
func WithGasLimit(limit uint64) ProviderOption {
	return func(c *providerConfig) {
		c.gasLimit = limit
	}
}

// WithDeployerProxy overrides the CREATE2 deployment proxy address.
func WithDeployerProxy(addr common.Address) ProviderOption {
	return func(c *providerConfig) {
		c.deployerProxy = addr
	}
}

// WithProviderLogger sets the provider's logger.
func WithProviderLogger(l log.Logger) ProviderOption {
	return func(c *providerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithTokenParams sets the parameters used by DeployToken.
func WithTokenParams(p TokenParams) OrchestratorOption {
	return func(o *Orchestrator) {
		o.token = p
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(l log.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithKeyOptions passes options through to ObtainKeyPair.
func WithKeyOptions(opts ...KeyOption) OrchestratorOption {
	return func(o *Orchestrator) {
		o.keyOpts = append(o.keyOpts, opts...)
	}
}
