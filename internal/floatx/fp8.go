package floatx

import "math"

// Float8E4M3FN is the OCP fp8 e4m3fn format: 1 sign bit, 4 exponent
// bits (bias 7), 3 mantissa bits. Finite-only: the format has no
// infinities, NaN is 0x7F/0xFF, and the largest magnitude is 448.
type Float8E4M3FN uint8

// Float8E4M3FNUZ is the unsigned-zero fp8 e4m3 variant used by some
// accelerators: bias 8, no infinities, no negative zero. 0x80 is the
// single NaN code and the largest magnitude is 240.
type Float8E4M3FNUZ uint8

// packFP8 encodes a non-negative finite magnitude into an unsigned
// e4m3 code with round-to-nearest-even, saturating at maxCode.
func packFP8(ax float64, bias int, maxCode uint8) uint8 {
	minNormal := math.Ldexp(1, 1-bias)
	if ax < minNormal {
		// Subnormal grid: mant/8 * 2^(1-bias).
		q := math.RoundToEven(ax * math.Ldexp(1, bias+2))
		return uint8(q) // q == 8 is exactly the minimum normal code
	}
	e := math.Ilogb(ax)
	m := int(math.RoundToEven(math.Ldexp(ax, 3-e))) - 8
	if m == 8 {
		e++
		m = 0
	}
	if e+bias > 15 {
		return maxCode
	}
	code := uint8((e+bias)<<3) | uint8(m)
	if code > maxCode {
		return maxCode
	}
	return code
}

func unpackFP8(code uint8, bias int) float32 {
	exp := int(code>>3) & 0xF
	mant := float64(code & 7)
	if exp == 0 {
		return float32(math.Ldexp(mant/8, 1-bias))
	}
	return float32(math.Ldexp(1+mant/8, exp-bias))
}

// Float8E4M3FNFromFloat32 encodes f with round-to-nearest-even. Out of
// range magnitudes (including infinities, which the format cannot
// represent) saturate to ±448; NaN maps to the NaN code.
func Float8E4M3FNFromFloat32(f float32) Float8E4M3FN {
	v := float64(f)
	if math.IsNaN(v) {
		return 0x7F
	}
	var sign uint8
	if math.Signbit(v) {
		sign = 0x80
		v = -v
	}
	if math.IsInf(v, 0) {
		return Float8E4M3FN(sign | 0x7E)
	}
	return Float8E4M3FN(sign | packFP8(v, 7, 0x7E))
}

// Float8E4M3FNFromFloat64 encodes f via an intermediate float32.
func Float8E4M3FNFromFloat64(f float64) Float8E4M3FN {
	return Float8E4M3FNFromFloat32(float32(f))
}

// Float32 decodes x. The fn format keeps a signed zero.
func (x Float8E4M3FN) Float32() float32 {
	if x&0x7F == 0x7F {
		return float32(math.NaN())
	}
	v := unpackFP8(uint8(x)&0x7F, 7)
	if x&0x80 != 0 {
		v = -v
	}
	return v
}

func (x Float8E4M3FN) Bits() uint8 { return uint8(x) }

func Float8E4M3FNFromBits(bits uint8) Float8E4M3FN { return Float8E4M3FN(bits) }

func (x Float8E4M3FN) IsNaN() bool { return x&0x7F == 0x7F }

func (x Float8E4M3FN) Add(o Float8E4M3FN) Float8E4M3FN {
	return Float8E4M3FNFromFloat32(x.Float32() + o.Float32())
}

func (x Float8E4M3FN) Sub(o Float8E4M3FN) Float8E4M3FN {
	return Float8E4M3FNFromFloat32(x.Float32() - o.Float32())
}

func (x Float8E4M3FN) Mul(o Float8E4M3FN) Float8E4M3FN {
	return Float8E4M3FNFromFloat32(x.Float32() * o.Float32())
}

func (x Float8E4M3FN) Div(o Float8E4M3FN) Float8E4M3FN {
	return Float8E4M3FNFromFloat32(x.Float32() / o.Float32())
}

func (x Float8E4M3FN) Equal(o Float8E4M3FN) bool        { return x.Float32() == o.Float32() }
func (x Float8E4M3FN) Less(o Float8E4M3FN) bool         { return x.Float32() < o.Float32() }
func (x Float8E4M3FN) LessEqual(o Float8E4M3FN) bool    { return x.Float32() <= o.Float32() }
func (x Float8E4M3FN) Greater(o Float8E4M3FN) bool      { return x.Float32() > o.Float32() }
func (x Float8E4M3FN) GreaterEqual(o Float8E4M3FN) bool { return x.Float32() >= o.Float32() }

func (x Float8E4M3FN) Round() Float8E4M3FN {
	return Float8E4M3FNFromFloat64(math.Round(float64(x.Float32())))
}

func (x Float8E4M3FN) Ceil() Float8E4M3FN {
	return Float8E4M3FNFromFloat64(math.Ceil(float64(x.Float32())))
}

func (x Float8E4M3FN) Floor() Float8E4M3FN {
	return Float8E4M3FNFromFloat64(math.Floor(float64(x.Float32())))
}

func (x Float8E4M3FN) Trunc() Float8E4M3FN {
	return Float8E4M3FNFromFloat64(math.Trunc(float64(x.Float32())))
}

// Float8E4M3FNUZFromFloat32 encodes f with round-to-nearest-even.
// Negative zero flushes to +0, out of range magnitudes saturate to ±240
// and NaN maps to 0x80.
func Float8E4M3FNUZFromFloat32(f float32) Float8E4M3FNUZ {
	v := float64(f)
	if math.IsNaN(v) {
		return 0x80
	}
	var sign uint8
	if math.Signbit(v) {
		sign = 0x80
		v = -v
	}
	if math.IsInf(v, 0) {
		return Float8E4M3FNUZ(sign | 0x7F)
	}
	code := packFP8(v, 8, 0x7F)
	if code == 0 {
		return 0
	}
	return Float8E4M3FNUZ(sign | code)
}

// Float8E4M3FNUZFromFloat64 encodes f via an intermediate float32.
func Float8E4M3FNUZFromFloat64(f float64) Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat32(float32(f))
}

func (x Float8E4M3FNUZ) Float32() float32 {
	if x == 0x80 {
		return float32(math.NaN())
	}
	v := unpackFP8(uint8(x)&0x7F, 8)
	if x&0x80 != 0 {
		v = -v
	}
	return v
}

func (x Float8E4M3FNUZ) Bits() uint8 { return uint8(x) }

func Float8E4M3FNUZFromBits(bits uint8) Float8E4M3FNUZ { return Float8E4M3FNUZ(bits) }

func (x Float8E4M3FNUZ) IsNaN() bool { return x == 0x80 }

func (x Float8E4M3FNUZ) Add(o Float8E4M3FNUZ) Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat32(x.Float32() + o.Float32())
}

func (x Float8E4M3FNUZ) Sub(o Float8E4M3FNUZ) Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat32(x.Float32() - o.Float32())
}

func (x Float8E4M3FNUZ) Mul(o Float8E4M3FNUZ) Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat32(x.Float32() * o.Float32())
}

func (x Float8E4M3FNUZ) Div(o Float8E4M3FNUZ) Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat32(x.Float32() / o.Float32())
}

func (x Float8E4M3FNUZ) Equal(o Float8E4M3FNUZ) bool        { return x.Float32() == o.Float32() }
func (x Float8E4M3FNUZ) Less(o Float8E4M3FNUZ) bool         { return x.Float32() < o.Float32() }
func (x Float8E4M3FNUZ) LessEqual(o Float8E4M3FNUZ) bool    { return x.Float32() <= o.Float32() }
func (x Float8E4M3FNUZ) Greater(o Float8E4M3FNUZ) bool      { return x.Float32() > o.Float32() }
func (x Float8E4M3FNUZ) GreaterEqual(o Float8E4M3FNUZ) bool { return x.Float32() >= o.Float32() }

func (x Float8E4M3FNUZ) Round() Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat64(math.Round(float64(x.Float32())))
}

func (x Float8E4M3FNUZ) Ceil() Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat64(math.Ceil(float64(x.Float32())))
}

func (x Float8E4M3FNUZ) Floor() Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat64(math.Floor(float64(x.Float32())))
}

func (x Float8E4M3FNUZ) Trunc() Float8E4M3FNUZ {
	return Float8E4M3FNUZFromFloat64(math.Trunc(float64(x.Float32())))
}
