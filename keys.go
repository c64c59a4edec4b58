package tokenctl

import (
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer is the signing library the key custodian delegates to.
type Signer interface {
	// Generate returns a new random private key.
	Generate() (*ecdsa.PrivateKey, error)

	// FromHex derives the private key from its hex-encoded scalar.
	FromHex(hexKey string) (*ecdsa.PrivateKey, error)
}

// Secp256k1Signer is the default Signer, backed by go-ethereum's crypto package.
type Secp256k1Signer struct{}

// Generate returns a new random secp256k1 key.
func (Secp256k1Signer) Generate() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// FromHex parses a 32-byte hex scalar, with or without a 0x prefix.
func (Secp256k1Signer) FromHex(hexKey string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
}

// KeyPair is a signing key together with its derived public data.
type KeyPair struct {
	key *ecdsa.PrivateKey
}

// NewKeyPair wraps an existing private key.
func NewKeyPair(key *ecdsa.PrivateKey) *KeyPair {
	return &KeyPair{key: key}
}

// ECDSA returns the underlying private key.
func (k *KeyPair) ECDSA() *ecdsa.PrivateKey {
	return k.key
}

// PrivateKeyHex returns the private scalar as 64 hex characters without prefix.
func (k *KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(crypto.FromECDSA(k.key))
}

// PublicKey returns the X coordinate of the public key as a 0x-prefixed
// 32-byte hex string. It is safe to log.
func (k *KeyPair) PublicKey() string {
	return k.Salt().Hex()
}

// PublicKeyInt returns the X coordinate of the public key.
func (k *KeyPair) PublicKeyInt() *big.Int {
	return new(big.Int).Set(k.key.PublicKey.X)
}

// Salt returns the public key as a 32-byte deployment salt.
func (k *KeyPair) Salt() common.Hash {
	return common.BigToHash(k.key.PublicKey.X)
}

// Address returns the externally owned account controlled by this key.
func (k *KeyPair) Address() common.Address {
	return crypto.PubkeyToAddress(k.key.PublicKey)
}

// KeyOption configures ObtainKeyPair.
type KeyOption func(*keyConfig)

type keyConfig struct {
	signer Signer
}

// WithSigner replaces the default secp256k1 signer.
func WithSigner(s Signer) KeyOption {
	return func(c *keyConfig) {
		c.signer = s
	}
}

// ObtainKeyPair returns the key pair for cfg. A stored private key is always
// reused. Otherwise a new key is generated and the returned Config carries its
// private scalar; persisting that Config is the caller's job. cfg itself is
// never modified.
func ObtainKeyPair(cfg Config, opts ...KeyOption) (*KeyPair, Config, error) {
	kc := &keyConfig{signer: Secp256k1Signer{}}
	for _, opt := range opts {
		opt(kc)
	}

	if cfg.PrivateKey != "" {
		key, err := kc.signer.FromHex(cfg.PrivateKey)
		if err != nil {
			return nil, cfg, &KeyDerivationError{Err: err}
		}
		return NewKeyPair(key), cfg, nil
	}

	key, err := kc.signer.Generate()
	if err != nil {
		return nil, cfg, &KeyDerivationError{Err: err}
	}
	pair := NewKeyPair(key)
	updated, err := cfg.WithPrivateKey(pair.PrivateKeyHex())
	if err != nil {
		return nil, cfg, err
	}
	return pair, updated, nil
}
