package tokenctl

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract binds an ABI to a deployed address and packs calldata for it.
type Contract struct {
	address common.Address
	abi     abi.ABI
}

// NewContract creates a Contract wrapper.
func NewContract(address common.Address, contractABI abi.ABI) *Contract {
	return &Contract{
		address: address,
		abi:     contractABI,
	}
}

// Address returns the contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// ABI returns the contract ABI.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// HasMethod returns true if the contract has a method with the given name.
func (c *Contract) HasMethod(methodName string) bool {
	_, ok := c.abi.Methods[methodName]
	return ok
}

// MethodNames returns all method names in the contract ABI, sorted.
func (c *Contract) MethodNames() []string {
	names := make([]string, 0, len(c.abi.Methods))
	for name := range c.abi.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Contract) methodNotFound(methodName string) error {
	return &MethodNotFoundError{Contract: c.address, Method: methodName, Available: c.MethodNames()}
}

// Pack encodes a call to the named method.
func (c *Contract) Pack(methodName string, args ...any) ([]byte, error) {
	if !c.HasMethod(methodName) {
		return nil, c.methodNotFound(methodName)
	}
	data, err := c.abi.Pack(methodName, args...)
	if err != nil {
		return nil, &ArgumentError{Method: methodName, Err: err}
	}
	return data, nil
}

// Unpack decodes the return data of the named method.
func (c *Contract) Unpack(methodName string, data []byte) ([]any, error) {
	if !c.HasMethod(methodName) {
		return nil, c.methodNotFound(methodName)
	}
	return c.abi.Unpack(methodName, data)
}

// PackConstructor encodes constructor arguments for contractABI.
func PackConstructor(contractABI abi.ABI, args ...any) ([]byte, error) {
	data, err := contractABI.Pack("", args...)
	if err != nil {
		return nil, &ArgumentError{Err: err}
	}
	return data, nil
}

// ParseABI parses a JSON ABI string into an abi.ABI.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}
