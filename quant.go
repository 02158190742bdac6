// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import "github.com/chewxy/math32"

// colorScale is the quantization scale for DC color components.
// Converting spherical harmonics DC terms to RGB would use 0.282, but a
// smaller value leaves headroom for base colors that are pushed back
// into range by the higher bands.
const colorScale = 0.15

// Fixed-point position range: 24-bit signed.
const (
	fixedMin = -1 << 23
	fixedMax = 1<<23 - 1
)

// Spherical harmonics quantization uses 5 bits of precision for the
// degree 1 band and 4 bits for degrees 2 and 3. This is invisible to
// readers, which always see one byte per coefficient.
const (
	sh1Bits    = 5
	shRestBits = 4
)

// SHBandsForDegree returns the number of directional spherical harmonics
// bands per color channel for the given degree: 0, 3, 8, or 15.
// Degrees above 3 return 0.
func SHBandsForDegree(degree uint8) int {
	switch degree {
	case 1:
		return 3
	case 2:
		return 8
	case 3:
		return 15
	}
	return 0
}

// CoeffsForDegree returns the total number of spherical harmonics
// coefficients stored per point for the given degree, across all three
// color channels: 0, 9, 24, or 45.
func CoeffsForDegree(degree uint8) int {
	return 3 * SHBandsForDegree(degree)
}

// DegreeForBands returns the largest complete spherical harmonics
// degree representable with the given number of directional bands per
// channel. It is the inverse bucketing of [SHBandsForDegree].
func DegreeForBands(bands int) uint8 {
	switch {
	case bands < 3:
		return 0
	case bands < 8:
		return 1
	case bands < 15:
		return 2
	}
	return 3
}

// DecodePosition decodes one 24-bit fixed-point position component from
// 3 little-endian bytes, with the given number of fractional bits.
func DecodePosition(b []byte, fractionalBits uint8) float32 {
	fixed := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if fixed&0x800000 != 0 { // sign extend
		fixed |= -1 << 24
	}
	return float32(fixed) / float32(int32(1)<<fractionalBits)
}

// EncodePosition encodes one position component as a 24-bit fixed-point
// integer with the given number of fractional bits, saturating at the
// limits of the 24-bit range, and appends the 3 little-endian bytes to b.
func EncodePosition(b []byte, v float32, fractionalBits uint8) []byte {
	f := math32.Round(v * float32(int32(1)<<fractionalBits))
	fixed := int32(fixedMin)
	switch {
	case f >= fixedMax:
		fixed = fixedMax
	case f > fixedMin:
		fixed = int32(f)
	}
	return append(b, byte(fixed), byte(fixed>>8), byte(fixed>>16))
}

// DecodeScale decodes one log-domain scale component from its byte form.
func DecodeScale(b uint8) float32 {
	return float32(b)/16 - 10
}

// EncodeScale encodes one log-domain scale component to a byte.
func EncodeScale(s float32) uint8 {
	return toUint8((s + 10) * 16)
}

// LogScale returns the natural log of the given linear scale, the form
// stored in [Splat.Scales]. It returns a [DomainError] for non-positive
// input.
func LogScale(linear float32) (float32, error) {
	if linear <= 0 {
		return 0, &DomainError{What: "linear scale", Value: linear}
	}
	return math32.Log(linear), nil
}

// Sigmoid is the logistic function, mapping the stored opacity domain
// to linear opacity in (0, 1).
func Sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// InvSigmoid is the logit function, the inverse of [Sigmoid]. Its input
// is clamped to [1e-6, 1-1e-6] so that linear opacities of exactly 0 or
// 1 encode to large finite values rather than infinities.
func InvSigmoid(x float32) float32 {
	x = min(max(x, 1e-6), 1-1e-6)
	return math32.Log(x / (1 - x))
}

// DecodeAlpha decodes one opacity byte to the sigmoid-domain value
// stored in [Splat.Alphas].
func DecodeAlpha(b uint8) float32 {
	return InvSigmoid(float32(b) / 255)
}

// EncodeAlpha encodes one sigmoid-domain opacity value to a byte.
func EncodeAlpha(a float32) uint8 {
	return toUint8(Sigmoid(a) * 255)
}

// DecodeColor decodes one DC color component byte to its float form.
func DecodeColor(b uint8) float32 {
	return (float32(b)/255 - 0.5) / colorScale
}

// EncodeColor encodes one DC color component to a byte.
func EncodeColor(c float32) uint8 {
	return toUint8(c*(colorScale*255) + 0.5*255)
}

// UnquantizeSH decodes one spherical harmonics coefficient byte.
func UnquantizeSH(b uint8) float32 {
	return (float32(b) - 128) / 128
}

// QuantizeSH encodes one spherical harmonics coefficient, quantized to
// the given step (a power of two bucket size within the byte range).
func QuantizeSH(c float32, step int32) uint8 {
	q := int32(math32.Round(c*128+128)) / step * step
	return uint8(min(max(q, 0), 255))
}

// shStepForBand returns the quantization step for the directional band
// with the given index within a point's coefficients.
func shStepForBand(band int) int32 {
	if band < 3 {
		return 1 << (8 - sh1Bits)
	}
	return 1 << (8 - shRestBits)
}

// toUint8 rounds and clamps to the byte range.
func toUint8(x float32) uint8 {
	return uint8(min(max(math32.Round(x), 0), 255))
}

// normalizeQuat returns q scaled to unit length, or the identity
// quaternion if q is effectively zero.
func normalizeQuat(q [4]float32) [4]float32 {
	n := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if n < 1e-12 {
		return [4]float32{0, 0, 0, 1}
	}
	inv := 1 / math32.Sqrt(n)
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// Smallest-three quaternion packing (V3): 2 bits of largest-component
// index in the top of a 32-bit word, then for each remaining component
// in increasing index order a sign bit and a 9-bit magnitude scaled by
// (1/sqrt(2))/511.
const quatMagMask = 1<<9 - 1

// unpackQuatSmallestThree decodes a 4-byte smallest-three rotation into
// rot as (x, y, z, w). The largest component is reconstructed as
// sqrt(max(0, 1-sum)) so slightly denormalized input still yields a
// unit quaternion.
func unpackQuatSmallestThree(rot []float32, r []byte) {
	comp := uint32(r[0]) | uint32(r[1])<<8 | uint32(r[2])<<16 | uint32(r[3])<<24
	largest := int(comp >> 30)
	sum := float32(0)
	for i := 3; i >= 0; i-- {
		if i == largest {
			continue
		}
		mag := comp & quatMagMask
		neg := comp>>9&1 == 1
		comp >>= 10
		v := math32.Sqrt2 / 2 * float32(mag) / quatMagMask
		if neg {
			v = -v
		}
		rot[i] = v
		sum += v * v
	}
	rot[largest] = math32.Sqrt(max(1-sum, 0))
}

// packQuatSmallestThree encodes a rotation with the smallest-three
// layout, applying the given axis flips to the normalized x, y, and z
// components first. The input need not be exactly unit length; it is
// normalized here because quantization would destroy upstream exactness
// anyway.
func packQuatSmallestThree(q [4]float32, flip [3]float32) [4]byte {
	n := normalizeQuat(q)
	n[0] *= flip[0]
	n[1] *= flip[1]
	n[2] *= flip[2]
	largest := 0
	for i := 1; i < 4; i++ {
		if math32.Abs(n[i]) > math32.Abs(n[largest]) {
			largest = i
		}
	}
	negate := n[largest] < 0
	comp := uint32(largest)
	for i := 0; i < 4; i++ {
		if i == largest {
			continue
		}
		neg := uint32(0)
		if (n[i] < 0) != negate {
			neg = 1
		}
		mag := uint32(math32.Floor(quatMagMask*(math32.Abs(n[i])/(math32.Sqrt2/2)) + 0.5))
		mag = min(mag, quatMagMask)
		comp = comp<<10 | neg<<9 | mag
	}
	return [4]byte{byte(comp), byte(comp >> 8), byte(comp >> 16), byte(comp >> 24)}
}

// unpackQuatFirstThree decodes a 3-byte first-three rotation (V2) into
// rot as (x, y, z, w), reconstructing w as sqrt(max(0, 1-x²-y²-z²)).
func unpackQuatFirstThree(rot []float32, r []byte) {
	const scale = 1 / 127.5
	x := float32(r[0])*scale - 1
	y := float32(r[1])*scale - 1
	z := float32(r[2])*scale - 1
	rot[0] = x
	rot[1] = y
	rot[2] = z
	rot[3] = math32.Sqrt(max(1-(x*x+y*y+z*z), 0))
}

// packQuatFirstThree encodes a rotation with the first-three layout
// (V2), applying the given axis flips. The quaternion is normalized and
// negated if needed so that w is non-negative, since the layout cannot
// represent the sign of w.
func packQuatFirstThree(q [4]float32, flip [3]float32) [3]byte {
	n := normalizeQuat(q)
	n[0] *= flip[0]
	n[1] *= flip[1]
	n[2] *= flip[2]
	if n[3] < 0 {
		n[0], n[1], n[2] = -n[0], -n[1], -n[2]
	}
	return [3]byte{
		toUint8((n[0] + 1) * 127.5),
		toUint8((n[1] + 1) * 127.5),
		toUint8((n[2] + 1) * 127.5),
	}
}
