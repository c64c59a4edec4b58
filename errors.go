package tokenctl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for common failure conditions.
var (
	// ErrEmptyShortString indicates an empty string was given to the short string encoder.
	ErrEmptyShortString = errors.New("tokenctl: short string must not be empty")

	// ErrShortStringTooLong indicates the string does not fit a single felt (max 31 characters).
	ErrShortStringTooLong = errors.New("tokenctl: short string exceeds 31 characters")

	// ErrInvalidAmount indicates an amount is not a non-negative decimal integer.
	ErrInvalidAmount = errors.New("tokenctl: amount must be a non-negative decimal integer")

	// ErrAmountOverflow indicates an amount does not fit in 256 bits.
	ErrAmountOverflow = errors.New("tokenctl: amount exceeds 256 bits")

	// ErrInvalidAddress indicates a malformed hex address.
	ErrInvalidAddress = errors.New("tokenctl: invalid address")

	// ErrMissingAddress indicates a required contract address is not configured.
	ErrMissingAddress = errors.New("tokenctl: address not configured")

	// ErrPrivateKeyConflict indicates an attempt to replace an already stored private key.
	ErrPrivateKeyConflict = errors.New("tokenctl: a different private key is already configured")

	// ErrArtifactMissing indicates a contract artifact was not loaded.
	ErrArtifactMissing = errors.New("tokenctl: contract artifact not loaded")

	// ErrNoBytecode indicates an artifact without bytecode was used for deployment.
	ErrNoBytecode = errors.New("tokenctl: artifact has no bytecode")

	// ErrNoContractCode indicates a deployment was mined but left no code at the contract address.
	ErrNoContractCode = errors.New("tokenctl: no contract code at deployed address")

	// ErrTransactionReverted indicates a mined transaction with a failed status.
	ErrTransactionReverted = errors.New("tokenctl: transaction reverted")
)

// ValidationError reports bad user input. It is always raised before any
// network call is made.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tokenctl: invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NonASCIIError lists every distinct character outside the 7-bit ASCII range,
// in order of first appearance.
type NonASCIIError struct {
	Chars []rune
}

func (e *NonASCIIError) Error() string {
	parts := make([]string, len(e.Chars))
	for i, c := range e.Chars {
		parts[i] = string(c)
	}
	suffix := "s"
	if len(e.Chars) == 1 {
		suffix = ""
	}
	return fmt.Sprintf("non-standard-ASCII character%s: %s", suffix, strings.Join(parts, ", "))
}

// KeyDerivationError wraps the signing library's error for a malformed stored
// private key. The wrapped error is passed through unchanged.
type KeyDerivationError struct {
	Err error
}

func (e *KeyDerivationError) Error() string {
	return fmt.Sprintf("tokenctl: derive key pair: %v", e.Err)
}

func (e *KeyDerivationError) Unwrap() error {
	return e.Err
}

// ProviderError wraps failures from the network provider. None of them are
// retried.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("tokenctl: provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// MethodNotFoundError indicates the contract doesn't have the requested method.
// Available lists the methods the ABI does have, sorted.
type MethodNotFoundError struct {
	Contract  common.Address
	Method    string
	Available []string
}

func (e *MethodNotFoundError) Error() string {
	msg := fmt.Sprintf("tokenctl: method %q not found in contract %s", e.Method, e.Contract.Hex())
	if len(e.Available) > 0 {
		msg += " (available: " + strings.Join(e.Available, ", ") + ")"
	}
	return msg
}

// ArgumentError indicates an issue with the arguments of a method call.
type ArgumentError struct {
	Method string
	Err    error
}

func (e *ArgumentError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("tokenctl: constructor arguments: %v", e.Err)
	}
	return fmt.Sprintf("tokenctl: arguments for method %q: %v", e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// invalid builds a ValidationError.
func invalid(field, value string, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}
