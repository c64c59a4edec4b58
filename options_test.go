package tokenctl

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

func TestDefaultProviderConfig(t *testing.T) {
	config := defaultProviderConfig()

	t.Run("poll interval is one second by default", func(t *testing.T) {
		if config.pollInterval != time.Second {
			t.Errorf("Expected pollInterval to be 1s, got %v", config.pollInterval)
		}
	})

	t.Run("gas limit is estimated by default", func(t *testing.T) {
		if config.gasLimit != 0 {
			t.Errorf("Expected gasLimit to be 0, got %d", config.gasLimit)
		}
	})

	t.Run("deployer proxy is the deterministic proxy", func(t *testing.T) {
		if config.deployerProxy != DefaultDeployerProxy {
			t.Errorf("Expected %s, got %s", DefaultDeployerProxy.Hex(), config.deployerProxy.Hex())
		}
	})
}

func TestProviderOptions(t *testing.T) {
	t.Run("WithPollInterval", func(t *testing.T) {
		config := defaultProviderConfig()
		WithPollInterval(50 * time.Millisecond)(config)
		if config.pollInterval != 50*time.Millisecond {
			t.Errorf("Expected 50ms, got %v", config.pollInterval)
		}

		WithPollInterval(0)(config)
		if config.pollInterval != 50*time.Millisecond {
			t.Errorf("Expected non-positive interval to be ignored, got %v", config.pollInterval)
		}
	})

	t.Run("WithGasLimit", func(t *testing.T) {
		config := defaultProviderConfig()
		WithGasLimit(3000000)(config)
		if config.gasLimit != 3000000 {
			t.Errorf("Expected 3000000, got %d", config.gasLimit)
		}
	})

	t.Run("WithDeployerProxy", func(t *testing.T) {
		config := defaultProviderConfig()
		addr := common.HexToAddress("0x1234")
		WithDeployerProxy(addr)(config)
		if config.deployerProxy != addr {
			t.Errorf("Expected %s, got %s", addr.Hex(), config.deployerProxy.Hex())
		}
	})

	t.Run("WithProviderLogger ignores nil", func(t *testing.T) {
		config := defaultProviderConfig()
		WithProviderLogger(nil)(config)
		if config.logger == nil {
			t.Error("Expected logger to stay set")
		}
	})
}

func TestOrchestratorOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		o := NewOrchestrator(nil, Artifacts{})
		if o.token != DefaultTokenParams() {
			t.Errorf("Expected default token params, got %+v", o.token)
		}
		if o.logger == nil {
			t.Error("Expected default logger")
		}
	})

	t.Run("WithTokenParams", func(t *testing.T) {
		params := TokenParams{Name: "Gold", Symbol: "GLD", Decimals: 6, Cap: "21000000"}
		o := NewOrchestrator(nil, Artifacts{}, WithTokenParams(params))
		if o.token != params {
			t.Errorf("Expected %+v, got %+v", params, o.token)
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		l := log.New("component", "test")
		o := NewOrchestrator(nil, Artifacts{}, WithLogger(l))
		if o.logger != l {
			t.Error("Expected custom logger")
		}
	})

	t.Run("WithKeyOptions", func(t *testing.T) {
		o := NewOrchestrator(nil, Artifacts{}, WithKeyOptions(WithSigner(Secp256k1Signer{})))
		if len(o.keyOpts) != 1 {
			t.Errorf("Expected 1 key option, got %d", len(o.keyOpts))
		}
	})
}
