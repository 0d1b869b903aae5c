// Package decimal converts floating-point prices/sizes into the
// scaled decimal128 byte encoding stored alongside the float columns.
package decimal

import (
	"math"
	"math/big"

	shopspringdecimal "github.com/shopspring/decimal"
)

// Scale exponents for the two families of monetary quantity.
const (
	PriceScale = 6 // price_decimal, open/high/low/close_decimal
	SizeScale  = 3 // size_decimal, filled_decimal, volume_decimal
)

// pow10 is a precomputed power-of-ten table so the append hot path
// never calls math.Pow.
var pow10 = [...]int64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000,
	1000000000, 10000000000, 100000000000, 1000000000000,
}

// ToDecimal128 scales value by 10^scale and packs the rounded result
// into a 16-byte big-endian two's complement buffer. Non-finite values
// encode as decimal zero.
func ToDecimal128(value float64, scale int) [16]byte {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return [16]byte{}
	}

	scaled := shopspringdecimal.NewFromFloat(value).
		Mul(shopspringdecimal.NewFromInt(pow10[scale])).
		Round(0)

	return encodeBigInt(scaled.BigInt())
}

// FromDecimal128 reverses ToDecimal128, returning the unscaled float64.
func FromDecimal128(buf [16]byte, scale int) float64 {
	i := decodeBigInt(buf)
	d := shopspringdecimal.NewFromBigInt(i, 0).
		Div(shopspringdecimal.NewFromInt(pow10[scale]))
	f, _ := d.Float64()
	return f
}

func encodeBigInt(v *big.Int) [16]byte {
	var out [16]byte
	if v.Sign() >= 0 {
		v.FillBytes(out[:])
		return out
	}
	// Two's complement: (1<<128) + v, v negative.
	mod := new(big.Int).Lsh(big.NewInt(1), 128)
	mod.Add(mod, v)
	mod.FillBytes(out[:])
	return out
}

func decodeBigInt(buf [16]byte) *big.Int {
	v := new(big.Int).SetBytes(buf[:])
	if buf[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), 128)
		v.Sub(v, mod)
	}
	return v
}
