package tokenctl

import (
	"math/big"

	"github.com/holiman/uint256"
)

// limbBits is the width of each half of a two-limb 256-bit value.
const limbBits = 128

var limbMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), limbBits), big.NewInt(1))

// Uint256Felts is a 256-bit value split into two 128-bit limbs, low limb first.
// Value = Low + High * 2^128.
type Uint256Felts struct {
	Low  *big.Int
	High *big.Int
}

// SplitUint256 parses a non-negative decimal quantity and splits it into
// (low, high) limbs. Inputs wider than 256 bits are accepted here; use
// Uint256 to range check before sending a value on-chain.
func SplitUint256(amount string) (Uint256Felts, error) {
	if amount == "" {
		return Uint256Felts{}, invalid("amount", amount, ErrInvalidAmount)
	}
	for _, c := range amount {
		if c < '0' || c > '9' {
			return Uint256Felts{}, invalid("amount", amount, ErrInvalidAmount)
		}
	}
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return Uint256Felts{}, invalid("amount", amount, ErrInvalidAmount)
	}
	return SplitBig(v), nil
}

// SplitBig splits a non-negative integer into limbs.
func SplitBig(v *big.Int) Uint256Felts {
	return Uint256Felts{
		Low:  new(big.Int).And(v, limbMask),
		High: new(big.Int).Rsh(v, limbBits),
	}
}

// Recombine joins two limbs back into a single integer.
func Recombine(low, high *big.Int) *big.Int {
	v := new(big.Int).Lsh(high, limbBits)
	return v.Add(v, low)
}

// Value returns Low + High * 2^128.
func (f Uint256Felts) Value() *big.Int {
	return Recombine(f.Low, f.High)
}

// String returns the decimal form of the recombined value.
func (f Uint256Felts) String() string {
	return f.Value().String()
}

// Uint256 returns the value as a fixed 256-bit integer, failing if it does
// not fit.
func (f Uint256Felts) Uint256() (*uint256.Int, error) {
	v := f.Value()
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, invalid("amount", v.String(), ErrAmountOverflow)
	}
	return u, nil
}

// Calldata flattens the limbs into call arguments, low limb first.
func (f Uint256Felts) Calldata() []any {
	return []any{f.Low, f.High}
}

// parseOnChainAmount splits an amount and checks it fits the contract's
// uint128 pair.
func parseOnChainAmount(amount string) (Uint256Felts, error) {
	felts, err := SplitUint256(amount)
	if err != nil {
		return Uint256Felts{}, err
	}
	if _, err := felts.Uint256(); err != nil {
		return Uint256Felts{}, err
	}
	return felts, nil
}
