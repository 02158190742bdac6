// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

const (
	// MagicValue is the first four bytes of every SPZ stream:
	// "NGSP" in little-endian byte order.
	MagicValue uint32 = 0x5053474e

	// HeaderSize is the fixed size of the SPZ header in bytes.
	HeaderSize = 16

	// Extension is the conventional SPZ file extension, without the dot.
	Extension = "spz"

	// FractionalBits is the canonical number of fractional bits used for
	// fixed-point position coordinates when saving. 12 bits gives about
	// 0.24 mm of resolution at meter scale.
	FractionalBits = 12
)

// Version is the SPZ file format version.
type Version int32

const (
	// V1 is version 1 of the SPZ format, which stored positions as
	// float16. It is not supported.
	V1 Version = 1

	// V2 is version 2 of the SPZ format, which packs rotations as the
	// first three quaternion components in 3 bytes.
	V2 Version = 2

	// V3 is version 3 of the SPZ format, which packs rotations with the
	// smallest-three encoding in 4 bytes.
	V3 Version = 3
)

func (v Version) String() string { return fmt.Sprintf("%d", int32(v)) }

// Supported reports whether this version can be encoded and decoded.
func (v Version) Supported() bool { return v == V2 || v == V3 }

// Flags is the bit field of header flags.
type Flags uint8

const (
	// FlagAntialiased indicates the splat was trained with
	// antialiasing (mip-splatting).
	FlagAntialiased Flags = 1 << iota
)

// Antialiased reports whether the antialiased flag is set.
func (f Flags) Antialiased() bool { return f&FlagAntialiased != 0 }

// Header is the fixed 16-byte descriptor at the start of every SPZ
// stream. It carries the metadata needed to decode the quantized splat
// data that follows. Headers are value types and are never mutated by
// parsing or encoding.
type Header struct {
	// Version is the format version. Only versions 2 and 3 are valid.
	Version Version

	// NumPoints is the number of Gaussians. Must be non-negative.
	NumPoints int32

	// SHDegree is the spherical harmonics degree, between 0 and 3
	// inclusive.
	SHDegree uint8

	// FractionalBits is the number of fractional bits in the fixed-point
	// position encoding.
	FractionalBits uint8

	// Flags holds the header flag bits.
	Flags Flags

	// Reserved must be zero.
	Reserved uint8
}

// ParseHeader parses a header from the first [HeaderSize] bytes of b.
// It returns [ErrFormat] for truncated input, a bad magic number, or
// nonzero reserved bytes, an [UnsupportedVersionError] for versions
// outside {2, 3}, and a [DomainError] for a spherical harmonics degree
// above 3. The input is never mutated.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, fmt.Errorf("%w: header needs %d bytes, have %d", ErrFormat, HeaderSize, len(b))
	}
	if magic := binary.LittleEndian.Uint32(b[0:4]); magic != MagicValue {
		return h, fmt.Errorf("%w: bad magic number 0x%08x", ErrFormat, magic)
	}
	h.Version = Version(int32(binary.LittleEndian.Uint32(b[4:8])))
	h.NumPoints = int32(binary.LittleEndian.Uint32(b[8:12]))
	h.SHDegree = b[12]
	h.FractionalBits = b[13]
	h.Flags = Flags(b[14])
	h.Reserved = b[15]
	if !h.Version.Supported() {
		return h, &UnsupportedVersionError{Version: h.Version}
	}
	if h.SHDegree > 3 {
		return h, &DomainError{What: "spherical harmonics degree", Value: float32(h.SHDegree)}
	}
	if h.NumPoints < 0 {
		return h, fmt.Errorf("%w: negative point count %d", ErrFormat, h.NumPoints)
	}
	if h.Reserved != 0 {
		return h, fmt.Errorf("%w: nonzero reserved byte 0x%02x", ErrFormat, h.Reserved)
	}
	return h, nil
}

// Valid is a pure predicate reporting whether this header describes a
// decodable SPZ stream: a supported version, a spherical harmonics
// degree of at most 3, a non-negative point count, and zeroed reserved
// bytes. It does not check the point count against any payload; that is
// [Splat.CheckSizes].
func (h Header) Valid() bool {
	return h.Version.Supported() && h.SHDegree <= 3 && h.NumPoints >= 0 && h.Reserved == 0
}

// AppendBinary appends the 16-byte binary form of this header to b and
// returns the extended slice.
func (h Header) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, MagicValue)
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Version))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.NumPoints))
	b = append(b, h.SHDegree, h.FractionalBits, byte(h.Flags), h.Reserved)
	return b, nil
}

// MarshalBinary returns the 16-byte binary form of this header.
func (h Header) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, HeaderSize))
}

// ReadHeader reads and parses a header from an SPZ stream, which is gzip
// compressed. It inflates only the first [HeaderSize] bytes, so it
// succeeds or fails independently of the payload, making it suitable for
// fast metadata probes on large files.
func ReadHeader(r io.Reader) (Header, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	defer gz.Close()
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(gz, buf); err != nil {
		return Header{}, fmt.Errorf("%w: header: %w", ErrFormat, err)
	}
	return ParseHeader(buf)
}

// OpenHeader reads and parses only the header of the SPZ file at the
// given path. See [ReadHeader].
func OpenHeader(filename string) (Header, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	return ReadHeader(f)
}
