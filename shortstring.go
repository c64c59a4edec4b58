package tokenctl

import (
	"errors"
	"math/big"
	"unicode/utf8"
)

// MaxShortStringLength is the number of ASCII characters that fit in one felt.
const MaxShortStringLength = 31

// EncodeShortString packs an ASCII string into a single felt-sized integer.
// Each character becomes one big-endian byte, so "AB" encodes to 0x4142.
//
// Every character outside the 7-bit ASCII range is reported, not only the
// first one.
func EncodeShortString(text string) (*big.Int, error) {
	if text == "" {
		return nil, invalid("short string", text, ErrEmptyShortString)
	}
	// Length is in code points, so astral characters count once.
	if utf8.RuneCountInString(text) > MaxShortStringLength {
		return nil, invalid("short string", text, ErrShortStringTooLong)
	}

	var (
		packed = make([]byte, 0, len(text))
		bad    []rune
		seen   = make(map[rune]bool)
	)
	for _, c := range text {
		if c > 127 {
			if !seen[c] {
				seen[c] = true
				bad = append(bad, c)
			}
			continue
		}
		packed = append(packed, byte(c))
	}
	if len(bad) > 0 {
		return nil, invalid("short string", text, &NonASCIIError{Chars: bad})
	}

	return new(big.Int).SetBytes(packed), nil
}

// DecodeShortString is the inverse of EncodeShortString.
func DecodeShortString(v *big.Int) (string, error) {
	if v == nil || v.Sign() < 0 {
		return "", invalid("short string felt", v.String(), errors.New("must be non-negative"))
	}
	raw := v.Bytes()
	if len(raw) > MaxShortStringLength {
		return "", invalid("short string felt", v.String(), ErrShortStringTooLong)
	}
	for _, b := range raw {
		if b > 127 {
			return "", invalid("short string felt", v.String(), &NonASCIIError{Chars: []rune{rune(b)}})
		}
	}
	return string(raw), nil
}
