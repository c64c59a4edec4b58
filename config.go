package tokenctl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
)

// Config is the persisted configuration record. It is a plain value: every
// mutation returns an updated copy and the caller decides when to persist it.
type Config struct {
	PrivateKey     string `json:"privateKey,omitempty"`
	AccountAddress string `json:"accountAddress,omitempty"`
	ERC20Address   string `json:"erc20Address,omitempty"`
	PlayerAddress  string `json:"playerAddress,omitempty"`
	RPCURL         string `json:"rpcUrl,omitempty"`
}

// LoadConfig reads the record at path. A missing file yields an empty record.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the record to path atomically. The file holds a private
// key, so it is created with owner-only permissions.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.json")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// WithPrivateKey returns a copy holding the given key. Replacing a different,
// already stored key is refused.
func (c Config) WithPrivateKey(hexKey string) (Config, error) {
	if c.PrivateKey != "" && c.PrivateKey != hexKey {
		return c, ErrPrivateKeyConflict
	}
	c.PrivateKey = hexKey
	return c, nil
}

// WithAccountAddress returns a copy pointing at a deployed account contract.
func (c Config) WithAccountAddress(addr common.Address) Config {
	c.AccountAddress = addr.Hex()
	return c
}

// WithERC20Address returns a copy pointing at a deployed token contract.
func (c Config) WithERC20Address(addr common.Address) Config {
	c.ERC20Address = addr.Hex()
	return c
}

// Account returns the configured account contract address.
func (c Config) Account() (common.Address, error) {
	return requireAddress("accountAddress", c.AccountAddress)
}

// Token returns the configured token contract address.
func (c Config) Token() (common.Address, error) {
	return requireAddress("erc20Address", c.ERC20Address)
}

func requireAddress(field, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, invalid(field, value, ErrMissingAddress)
	}
	return ParseAddress(field, value)
}

// ParseAddress parses a 0x-prefixed hex address.
func ParseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, invalid(field, value, ErrInvalidAddress)
	}
	return common.HexToAddress(value), nil
}
