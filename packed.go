// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import (
	"bytes"
	"fmt"
	"io"
)

// Packed holds the quantized, attribute-major buffers of an SPZ payload
// together with the header metadata that describes them. It is the
// intermediate form between the binary stream and a [Splat]; most
// callers never touch it directly.
type Packed struct {
	// NumPoints is the number of Gaussians.
	NumPoints int32

	// SHDegree is the spherical harmonics degree (0-3).
	SHDegree uint8

	// FractionalBits is the fixed-point fraction width for positions.
	FractionalBits uint8

	// Antialiased indicates mip-splatting antialiasing.
	Antialiased bool

	// Version selects the payload layout. V2 and V3 differ in the
	// rotation stream; see [payloadLayout].
	Version Version

	// Positions holds 9 bytes per point: three 24-bit fixed-point
	// little-endian components.
	Positions []byte

	// Scales holds 3 bytes per point of log-encoded scale.
	Scales []byte

	// Rotations holds 3 (V2) or 4 (V3) bytes per point.
	Rotations []byte

	// Alphas holds 1 byte per point of sigmoid-encoded opacity.
	Alphas []byte

	// Colors holds 3 bytes per point of DC color.
	Colors []byte

	// SphericalHarmonics holds CoeffsForDegree(SHDegree) bytes per point.
	SphericalHarmonics []byte
}

// payloadLayout is the version-dependent part of the payload format.
// It is sealed: the only implementations are layoutV2 and layoutV3, and
// one is selected exclusively from a validated header version, so V2
// and V3 rotation streams can never be mixed.
type payloadLayout interface {
	// rotationBytes is the rotation stream width per point.
	rotationBytes() int

	// unpackRotation decodes one packed rotation into rot as (x, y, z, w).
	unpackRotation(rot []float32, r []byte)

	// packRotation encodes one rotation with the given axis flips,
	// appending to b.
	packRotation(b []byte, q [4]float32, flip [3]float32) []byte
}

// layoutV2 packs rotations as the first three quaternion components in
// 3 bytes, reconstructing a non-negative w.
type layoutV2 struct{}

func (layoutV2) rotationBytes() int { return 3 }

func (layoutV2) unpackRotation(rot []float32, r []byte) {
	unpackQuatFirstThree(rot, r)
}

func (layoutV2) packRotation(b []byte, q [4]float32, flip [3]float32) []byte {
	r := packQuatFirstThree(q, flip)
	return append(b, r[:]...)
}

// layoutV3 packs rotations with the smallest-three encoding in 4 bytes.
type layoutV3 struct{}

func (layoutV3) rotationBytes() int { return 4 }

func (layoutV3) unpackRotation(rot []float32, r []byte) {
	unpackQuatSmallestThree(rot, r)
}

func (layoutV3) packRotation(b []byte, q [4]float32, flip [3]float32) []byte {
	r := packQuatSmallestThree(q, flip)
	return append(b, r[:]...)
}

// layoutFor returns the payload layout for a supported version.
func layoutFor(v Version) payloadLayout {
	if v == V2 {
		return layoutV2{}
	}
	return layoutV3{}
}

// header derives the SPZ header describing this packed data.
func (p *Packed) header() Header {
	h := Header{
		Version:        p.Version,
		NumPoints:      p.NumPoints,
		SHDegree:       p.SHDegree,
		FractionalBits: p.FractionalBits,
	}
	if p.Antialiased {
		h.Flags |= FlagAntialiased
	}
	return h
}

// checkSizes reports whether every buffer has exactly the length implied
// by NumPoints, SHDegree, and the version's rotation width.
func (p *Packed) checkSizes() bool {
	np := int(p.NumPoints)
	if np < 0 {
		return false
	}
	return len(p.Positions) == np*9 &&
		len(p.Scales) == np*3 &&
		len(p.Rotations) == np*layoutFor(p.Version).rotationBytes() &&
		len(p.Alphas) == np &&
		len(p.Colors) == np*3 &&
		len(p.SphericalHarmonics) == np*CoeffsForDegree(p.SHDegree)
}

// newPacked returns a Packed with buffers allocated to the exact sizes
// the given header implies.
func newPacked(h Header) *Packed {
	np := int(h.NumPoints)
	return &Packed{
		NumPoints:          h.NumPoints,
		SHDegree:           h.SHDegree,
		FractionalBits:     h.FractionalBits,
		Antialiased:        h.Flags.Antialiased(),
		Version:            h.Version,
		Positions:          make([]byte, np*9),
		Scales:             make([]byte, np*3),
		Rotations:          make([]byte, np*layoutFor(h.Version).rotationBytes()),
		Alphas:             make([]byte, np),
		Colors:             make([]byte, np*3),
		SphericalHarmonics: make([]byte, np*CoeffsForDegree(h.SHDegree)),
	}
}

// parsePacked parses an uncompressed SPZ stream (header plus payload)
// into a [Packed]. The attribute streams appear in the fixed format
// order: positions, alphas, colors, scales, rotations, spherical
// harmonics. It returns a [TruncatedDataError] if the stream ends
// before the declared number of points has been read for any attribute.
func parsePacked(b []byte) (*Packed, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: data is empty", ErrFormat)
	}
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	p := newPacked(h)
	r := bytes.NewReader(b[HeaderSize:])
	for _, st := range []struct {
		name string
		buf  []byte
	}{
		{"position", p.Positions},
		{"alpha", p.Alphas},
		{"color", p.Colors},
		{"scale", p.Scales},
		{"rotation", p.Rotations},
		{"spherical harmonics", p.SphericalHarmonics},
	} {
		if _, err := io.ReadFull(r, st.buf); err != nil {
			return nil, &TruncatedDataError{Attr: st.name, Err: err}
		}
	}
	return p, nil
}

// appendTo appends the uncompressed binary form of this packed data,
// header first, to b. It returns [ErrSizeMismatch] if the buffers do
// not agree with NumPoints.
func (p *Packed) appendTo(b []byte) ([]byte, error) {
	if !p.checkSizes() {
		return nil, ErrSizeMismatch
	}
	b, err := p.header().AppendBinary(b)
	if err != nil {
		return nil, err
	}
	b = append(b, p.Positions...)
	b = append(b, p.Alphas...)
	b = append(b, p.Colors...)
	b = append(b, p.Scales...)
	b = append(b, p.Rotations...)
	b = append(b, p.SphericalHarmonics...)
	return b, nil
}

// size returns the total uncompressed byte size of this packed data.
func (p *Packed) size() int {
	return HeaderSize + len(p.Positions) + len(p.Alphas) + len(p.Colors) +
		len(p.Scales) + len(p.Rotations) + len(p.SphericalHarmonics)
}
