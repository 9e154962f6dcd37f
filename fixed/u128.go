// Package fixed implements an unsigned 128-bit fixed-point number with
// saturating arithmetic. All operations are total: overflow saturates at the
// maximum representable value instead of panicking or returning an error,
// so fee math can run inside mandatory block-execution code.
package fixed

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Decimals is the number of decimal places carried by a U128.
const Decimals = 18

var (
	// scale = 10^18, the fixed-point denominator
	scale = uint256.NewInt(1_000_000_000_000_000_000)

	// maxRaw = 2^128 - 1, the largest representable raw value
	maxRaw = func() *uint256.Int {
		m := new(uint256.Int)
		m.SetAllOne()
		return m.Rsh(m, 128)
	}()
)

// U128 is an unsigned fixed-point number with 18 decimal places and a
// 128-bit raw range. The zero value is 0.0.
type U128 struct {
	raw uint256.Int // value * 10^18, always <= maxRaw
}

// Zero returns 0.0.
func Zero() U128 {
	return U128{}
}

// One returns 1.0.
func One() U128 {
	return FromUint(1)
}

// FromUint returns n as a fixed-point value.
func FromUint(n uint64) U128 {
	var f U128
	f.raw.Mul(uint256.NewInt(n), scale)
	return f.clamped()
}

// FromRational returns num/den as a fixed-point value, rounded down.
// A zero denominator saturates at the maximum value.
func FromRational(num, den uint64) U128 {
	if den == 0 {
		return Max()
	}
	var f U128
	f.raw.Mul(uint256.NewInt(num), scale)
	f.raw.Div(&f.raw, uint256.NewInt(den))
	return f.clamped()
}

// Max returns the largest representable value.
func Max() U128 {
	var f U128
	f.raw.Set(maxRaw)
	return f
}

// clamped saturates the raw value at 2^128-1.
func (f U128) clamped() U128 {
	if f.raw.Gt(maxRaw) {
		f.raw.Set(maxRaw)
	}
	return f
}

// SaturatingMul returns f*g, saturating at the maximum value.
func (f U128) SaturatingMul(g U128) U128 {
	// both raws fit in 128 bits, so the product fits in 256 bits
	var r U128
	r.raw.Mul(&f.raw, &g.raw)
	r.raw.Div(&r.raw, scale)
	return r.clamped()
}

// SaturatingAdd returns f+g, saturating at the maximum value.
func (f U128) SaturatingAdd(g U128) U128 {
	var r U128
	r.raw.Add(&f.raw, &g.raw)
	return r.clamped()
}

// Div returns f/g, rounded down. A zero divisor saturates at the
// maximum value.
func (f U128) Div(g U128) U128 {
	if g.raw.IsZero() {
		return Max()
	}
	var r U128
	r.raw.Mul(&f.raw, scale)
	r.raw.Div(&r.raw, &g.raw)
	return r.clamped()
}

// SaturatingMulBig returns floor(f * n) as an integer amount, saturating at
// 2^128-1. Negative n is treated as zero.
func (f U128) SaturatingMulBig(n *big.Int) *big.Int {
	if n == nil || n.Sign() <= 0 {
		return big.NewInt(0)
	}
	m, overflow := uint256.FromBig(n)
	if overflow || m.Gt(maxRaw) {
		m = new(uint256.Int).Set(maxRaw)
	}
	var r uint256.Int
	r.Mul(&f.raw, m)
	r.Div(&r, scale)
	if r.Gt(maxRaw) {
		r.Set(maxRaw)
	}
	return r.ToBig()
}

// Cmp compares f and g, returning -1, 0 or +1.
func (f U128) Cmp(g U128) int {
	return f.raw.Cmp(&g.raw)
}

// MaxOf returns the larger of f and g.
func MaxOf(f, g U128) U128 {
	if f.Cmp(g) >= 0 {
		return f
	}
	return g
}

// String renders the value in decimal, e.g. "1.05".
func (f U128) String() string {
	var intPart, fracPart uint256.Int
	intPart.Div(&f.raw, scale)
	fracPart.Mod(&f.raw, scale)
	if fracPart.IsZero() {
		return intPart.Dec()
	}
	frac := fracPart.Dec()
	for len(frac) < Decimals {
		frac = "0" + frac
	}
	// trim trailing zeros from the fractional part
	end := len(frac)
	for end > 1 && frac[end-1] == '0' {
		end--
	}
	return intPart.Dec() + "." + frac[:end]
}

// GobEncode implements gob.GobEncoder using the raw big-endian bytes.
func (f U128) GobEncode() ([]byte, error) {
	return f.raw.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (f *U128) GobDecode(data []byte) error {
	f.raw.SetBytes(data)
	if f.raw.Gt(maxRaw) {
		f.raw.Set(maxRaw)
	}
	return nil
}
