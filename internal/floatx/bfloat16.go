// Package floatx implements the emulated narrow floating point formats
// used as array element types: bfloat16 and the two fp8 e4m3 variants.
//
// None of these formats have native arithmetic. Every operation decodes
// to float32, computes in float32, and re-encodes the result. Values are
// stored as raw bits so slices of them can be cast directly over array
// storage.
package floatx

import "math"

// BFloat16 is the brain float 16 format: the upper 16 bits of an IEEE
// 754 float32. Same exponent range as float32, 7 mantissa bits.
//
// Narrowing truncates the low mantissa bits (no rounding); widening
// zero-extends. Any float32 with zero low mantissa bits round-trips
// exactly.
type BFloat16 uint16

// BFloat16FromFloat32 encodes f by truncation.
func BFloat16FromFloat32(f float32) BFloat16 {
	return BFloat16(math.Float32bits(f) >> 16)
}

// BFloat16FromFloat64 encodes f via an intermediate float32.
func BFloat16FromFloat64(f float64) BFloat16 {
	return BFloat16FromFloat32(float32(f))
}

// Float32 widens b by zero-extending the low mantissa bits.
func (b BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Bits returns the raw storage value.
func (b BFloat16) Bits() uint16 { return uint16(b) }

// BFloat16FromBits reinterprets raw bits as a BFloat16.
func BFloat16FromBits(bits uint16) BFloat16 { return BFloat16(bits) }

// IsNaN reports whether b encodes a NaN.
func (b BFloat16) IsNaN() bool {
	return b&0x7F80 == 0x7F80 && b&0x7F != 0
}

func (b BFloat16) Add(o BFloat16) BFloat16 {
	return BFloat16FromFloat32(b.Float32() + o.Float32())
}

func (b BFloat16) Sub(o BFloat16) BFloat16 {
	return BFloat16FromFloat32(b.Float32() - o.Float32())
}

func (b BFloat16) Mul(o BFloat16) BFloat16 {
	return BFloat16FromFloat32(b.Float32() * o.Float32())
}

func (b BFloat16) Div(o BFloat16) BFloat16 {
	return BFloat16FromFloat32(b.Float32() / o.Float32())
}

func (b BFloat16) Equal(o BFloat16) bool        { return b.Float32() == o.Float32() }
func (b BFloat16) Less(o BFloat16) bool         { return b.Float32() < o.Float32() }
func (b BFloat16) LessEqual(o BFloat16) bool    { return b.Float32() <= o.Float32() }
func (b BFloat16) Greater(o BFloat16) bool      { return b.Float32() > o.Float32() }
func (b BFloat16) GreaterEqual(o BFloat16) bool { return b.Float32() >= o.Float32() }

// Round returns the nearest integer, halfway cases away from zero.
func (b BFloat16) Round() BFloat16 {
	return BFloat16FromFloat64(math.Round(float64(b.Float32())))
}

func (b BFloat16) Ceil() BFloat16 {
	return BFloat16FromFloat64(math.Ceil(float64(b.Float32())))
}

func (b BFloat16) Floor() BFloat16 {
	return BFloat16FromFloat64(math.Floor(float64(b.Float32())))
}

func (b BFloat16) Trunc() BFloat16 {
	return BFloat16FromFloat64(math.Trunc(float64(b.Float32())))
}
