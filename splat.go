// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/math32"
)

// Splat is a set of Gaussian splats representing a 3D scene, in the
// expanded, render-ready form. It owns parallel attribute slices, one
// entry group per point; no slices are shared between Splat values.
//
// A Splat is safe for concurrent reads, and distinct Splats are fully
// independent, but a single Splat must not be mutated (for example by
// [Splat.ConvertCoordinates]) concurrently with any other use.
type Splat struct {
	// NumPoints is the number of Gaussians.
	NumPoints int32

	// SHDegree is the spherical harmonics degree, between 0 and 3.
	SHDegree int32

	// Antialiased indicates the splat was trained with antialiasing.
	Antialiased bool

	// Positions holds 3 floats per point: x, y, z in world units.
	Positions []float32

	// Scales holds 3 floats per point: the natural log of the linear
	// scale along each local axis.
	Scales []float32

	// Rotations holds 4 floats per point: a unit quaternion in
	// (x, y, z, w) order.
	Rotations []float32

	// Alphas holds 1 float per point: sigmoid-encoded opacity.
	// Apply [Sigmoid] to recover linear opacity in [0, 1].
	Alphas []float32

	// Colors holds 3 floats per point: the DC (0th order) color term.
	Colors []float32

	// SphericalHarmonics holds CoeffsForDegree(SHDegree) floats per
	// point, with the color channel as the faster-varying axis within
	// each directional band.
	SphericalHarmonics []float32
}

// LoadOptions are the options for loading a [Splat].
type LoadOptions struct {
	// CoordinateSystem is the convention to convert the loaded data to,
	// from the Right-Up-Back system SPZ files are stored in.
	// [Unspecified] loads the data as stored, without conversion.
	CoordinateSystem CoordinateSystem
}

// SaveOptions are the options for saving a [Splat].
type SaveOptions struct {
	// CoordinateSystem is the convention the in-memory data uses; it is
	// converted to Right-Up-Back during packing. [Unspecified] saves
	// the data as-is, without conversion.
	CoordinateSystem CoordinateSystem

	// Version is the format version to write, [V2] or [V3].
	// The zero value writes [V3].
	Version Version
}

// NewSplat returns a Splat with all attribute slices allocated for the
// given number of points and spherical harmonics degree.
func NewSplat(numPoints int32, shDegree uint8) *Splat {
	np := int(numPoints)
	return &Splat{
		NumPoints:          numPoints,
		SHDegree:           int32(shDegree),
		Positions:          make([]float32, np*3),
		Scales:             make([]float32, np*3),
		Rotations:          make([]float32, np*4),
		Alphas:             make([]float32, np),
		Colors:             make([]float32, np*3),
		SphericalHarmonics: make([]float32, np*CoeffsForDegree(shDegree)),
	}
}

// Open loads a Splat from the SPZ file at the given path.
// A nil opts loads without coordinate conversion.
func Open(filename string, opts *LoadOptions) (*Splat, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return FromBytes(b, opts)
}

// Read loads a Splat from an SPZ stream.
// A nil opts loads without coordinate conversion.
func Read(r io.Reader, opts *LoadOptions) (*Splat, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromBytes(b, opts)
}

// FromBytes loads a Splat from gzip-compressed SPZ bytes.
// A nil opts loads without coordinate conversion.
func FromBytes(b []byte, opts *LoadOptions) (*Splat, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: data is empty", ErrFormat)
	}
	raw, err := gzipDecompress(b)
	if err != nil {
		return nil, err
	}
	p, err := parsePacked(raw)
	if err != nil {
		return nil, err
	}
	return newFromPacked(p, opts)
}

// Save writes this Splat to the given path in SPZ format, creating any
// missing parent directories. A nil opts saves as V3 without coordinate
// conversion. Either a complete file is produced or none: the bytes are
// assembled in memory first.
func (s *Splat) Save(filename string, opts *SaveOptions) error {
	b, err := s.Bytes(opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filename, b, 0o644)
}

// Write writes this Splat to the given writer in SPZ format.
// A nil opts saves as V3 without coordinate conversion.
func (s *Splat) Write(w io.Writer, opts *SaveOptions) error {
	b, err := s.Bytes(opts)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Bytes returns this Splat serialized as gzip-compressed SPZ bytes.
// A nil opts saves as V3 without coordinate conversion. The Splat
// itself is never reoriented: the coordinate conversion from
// opts.CoordinateSystem to Right-Up-Back is applied on the fly while
// quantizing into the packed buffers.
func (s *Splat) Bytes(opts *SaveOptions) ([]byte, error) {
	p, err := s.pack(opts)
	if err != nil {
		return nil, err
	}
	raw, err := p.appendTo(make([]byte, 0, p.size()))
	if err != nil {
		return nil, err
	}
	return gzipCompress(raw)
}

// newFromPacked expands packed data into a Splat, dequantizing every
// attribute and then converting coordinates from Right-Up-Back to the
// system requested in opts.
func newFromPacked(p *Packed, opts *LoadOptions) (*Splat, error) {
	if !p.checkSizes() {
		return nil, ErrSizeMismatch
	}
	// positions are 24-bit fixed point: more than 24 fractional bits
	// leaves no integer part
	if p.FractionalBits == 0 || p.FractionalBits > 24 {
		return nil, &DomainError{What: "fractional bits", Value: float32(p.FractionalBits)}
	}
	np := int(p.NumPoints)
	s := NewSplat(p.NumPoints, p.SHDegree)
	s.Antialiased = p.Antialiased

	for i := 0; i < np*3; i++ {
		s.Positions[i] = DecodePosition(p.Positions[i*3:i*3+3], p.FractionalBits)
	}
	for i := 0; i < np*3; i++ {
		s.Scales[i] = DecodeScale(p.Scales[i])
	}
	layout := layoutFor(p.Version)
	rb := layout.rotationBytes()
	for i := 0; i < np; i++ {
		layout.unpackRotation(s.Rotations[4*i:4*i+4], p.Rotations[rb*i:rb*i+rb])
	}
	for i := 0; i < np; i++ {
		s.Alphas[i] = DecodeAlpha(p.Alphas[i])
	}
	for i := 0; i < np*3; i++ {
		s.Colors[i] = DecodeColor(p.Colors[i])
	}
	for i, b := range p.SphericalHarmonics {
		s.SphericalHarmonics[i] = UnquantizeSH(b)
	}
	if opts != nil {
		s.ConvertCoordinates(RightUpBack, opts.CoordinateSystem)
	}
	return s, nil
}

// pack quantizes this Splat into packed buffers, converting coordinates
// from opts.CoordinateSystem to Right-Up-Back during the pass. It
// returns [ErrSizeMismatch] if [Splat.CheckSizes] fails.
func (s *Splat) pack(opts *SaveOptions) (*Packed, error) {
	if !s.CheckSizes() {
		return nil, ErrSizeMismatch
	}
	version := V3
	from := Unspecified
	if opts != nil {
		from = opts.CoordinateSystem
		if opts.Version != 0 {
			version = opts.Version
		}
	}
	if !version.Supported() {
		return nil, &UnsupportedVersionError{Version: version}
	}
	flips := from.FlipsTo(RightUpBack)
	np := int(s.NumPoints)

	h := Header{
		Version:        version,
		NumPoints:      s.NumPoints,
		SHDegree:       uint8(s.SHDegree),
		FractionalBits: FractionalBits,
	}
	if s.Antialiased {
		h.Flags |= FlagAntialiased
	}
	p := newPacked(h)

	pos := p.Positions[:0]
	for i := 0; i < np*3; i++ {
		pos = EncodePosition(pos, flips.Position[i%3]*s.Positions[i], FractionalBits)
	}
	for i := 0; i < np*3; i++ {
		p.Scales[i] = EncodeScale(s.Scales[i])
	}
	layout := layoutFor(version)
	rot := p.Rotations[:0]
	for i := 0; i < np; i++ {
		q := [4]float32(s.Rotations[4*i : 4*i+4])
		rot = layout.packRotation(rot, q, flips.Rotation)
	}
	for i := 0; i < np; i++ {
		p.Alphas[i] = EncodeAlpha(s.Alphas[i])
	}
	for i := 0; i < np*3; i++ {
		p.Colors[i] = EncodeColor(s.Colors[i])
	}
	bands := SHBandsForDegree(uint8(s.SHDegree))
	for i := 0; i < np; i++ {
		base := i * bands * 3
		for band := 0; band < bands; band++ {
			f := flips.SphericalHarmonics[band]
			step := shStepForBand(band)
			for c := 0; c < 3; c++ {
				j := base + band*3 + c
				p.SphericalHarmonics[j] = QuantizeSH(f*s.SphericalHarmonics[j], step)
			}
		}
	}
	return p, nil
}

// ConvertCoordinates transforms this Splat in place from one coordinate
// system to another, flipping position components, quaternion x/y/z
// components, and the direction-dependent spherical harmonics bands.
// Scales, opacities, and colors are invariant under axis sign changes
// and are untouched. Converting from to to and back restores the
// original values exactly. If either system is [Unspecified], this is
// a no-op.
func (s *Splat) ConvertCoordinates(from, to CoordinateSystem) {
	flips := from.FlipsTo(to)
	for i := 0; i+2 < len(s.Positions); i += 3 {
		s.Positions[i] *= flips.Position[0]
		s.Positions[i+1] *= flips.Position[1]
		s.Positions[i+2] *= flips.Position[2]
	}
	for i := 0; i+3 < len(s.Rotations); i += 4 {
		s.Rotations[i] *= flips.Rotation[0]
		s.Rotations[i+1] *= flips.Rotation[1]
		s.Rotations[i+2] *= flips.Rotation[2]
		// w is unchanged
	}
	bands := SHBandsForDegree(uint8(s.SHDegree))
	if bands == 0 {
		return
	}
	for i := 0; i+bands*3 <= len(s.SphericalHarmonics); i += bands * 3 {
		for band := 0; band < bands; band++ {
			f := flips.SphericalHarmonics[band]
			s.SphericalHarmonics[i+band*3] *= f
			s.SphericalHarmonics[i+band*3+1] *= f
			s.SphericalHarmonics[i+band*3+2] *= f
		}
	}
}

// CheckSizes reports whether every attribute slice has exactly the
// length implied by NumPoints and SHDegree. A false result indicates a
// corrupt or partially constructed Splat.
func (s *Splat) CheckSizes() bool {
	if s.NumPoints < 0 || s.SHDegree < 0 || s.SHDegree > 3 {
		return false
	}
	np := int(s.NumPoints)
	return len(s.Positions) == np*3 &&
		len(s.Scales) == np*3 &&
		len(s.Rotations) == np*4 &&
		len(s.Alphas) == np &&
		len(s.Colors) == np*3 &&
		len(s.SphericalHarmonics) == np*CoeffsForDegree(uint8(s.SHDegree))
}

// BoundingBox returns the axis-aligned bounding box of all point
// positions, recomputed on each call. A Splat with no points returns
// the degenerate zero box.
func (s *Splat) BoundingBox() math32.Box3 {
	if len(s.Positions) < 3 {
		return math32.Box3{}
	}
	b := math32.B3Empty()
	for i := 0; i+2 < len(s.Positions); i += 3 {
		b.ExpandByPoint(math32.Vec3(s.Positions[i], s.Positions[i+1], s.Positions[i+2]))
	}
	return b
}

func (s *Splat) String() string {
	bb := s.BoundingBox()
	sz := bb.Size()
	ct := bb.Center()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Splat:\n")
	fmt.Fprintf(&sb, "\tNumber of points:\t\t%d\n", s.NumPoints)
	fmt.Fprintf(&sb, "\tSpherical harmonics degree:\t%d\n", s.SHDegree)
	fmt.Fprintf(&sb, "\tAntialiased:\t\t\t%v\n", s.Antialiased)
	fmt.Fprintf(&sb, "\tMedian ellipsoid volume:\t%.6f\n", s.MedianVolume())
	fmt.Fprintf(&sb, "\tBounding box:\n")
	fmt.Fprintf(&sb, "\t\tx: %.6f to %.6f (size %.6f, center %.6f)\n", bb.Min.X, bb.Max.X, sz.X, ct.X)
	fmt.Fprintf(&sb, "\t\ty: %.6f to %.6f (size %.6f, center %.6f)\n", bb.Min.Y, bb.Max.Y, sz.Y, ct.Y)
	fmt.Fprintf(&sb, "\t\tz: %.6f to %.6f (size %.6f, center %.6f)\n", bb.Min.Z, bb.Max.Z, sz.Z, ct.Z)
	return sb.String()
}
