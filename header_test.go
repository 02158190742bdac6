// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Version:        V3,
		NumPoints:      12345,
		SHDegree:       2,
		FractionalBits: 12,
		Flags:          FlagAntialiased,
	}
	b, err := h.MarshalBinary()
	assert.NoError(t, err)
	assert.Len(t, b, HeaderSize)

	got, err := ParseHeader(b)
	assert.NoError(t, err)
	assert.Equal(t, h, got)
	assert.True(t, got.Flags.Antialiased())
}

func TestHeaderValid(t *testing.T) {
	h := Header{Version: V2, NumPoints: 1, SHDegree: 3, FractionalBits: 12}
	assert.True(t, h.Valid())
	h.Version = V3
	assert.True(t, h.Valid())

	bad := h
	bad.Version = V1
	assert.False(t, bad.Valid())
	bad.Version = 4
	assert.False(t, bad.Valid())

	bad = h
	bad.SHDegree = 4
	assert.False(t, bad.Valid())

	bad = h
	bad.NumPoints = -1
	assert.False(t, bad.Valid())

	// flipping any reserved bit invalidates the header
	for bit := 0; bit < 8; bit++ {
		bad = h
		bad.Reserved = 1 << bit
		assert.False(t, bad.Valid(), "reserved bit %d", bit)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	good, err := Header{Version: V3, FractionalBits: 12}.MarshalBinary()
	assert.NoError(t, err)

	_, err = ParseHeader(good[:HeaderSize-1])
	assert.ErrorIs(t, err, ErrFormat)

	badMagic := bytes.Clone(good)
	badMagic[0] ^= 0xff
	_, err = ParseHeader(badMagic)
	assert.ErrorIs(t, err, ErrFormat)

	v1 := bytes.Clone(good)
	v1[4] = 1
	_, err = ParseHeader(v1)
	var uve *UnsupportedVersionError
	assert.ErrorAs(t, err, &uve)
	assert.Equal(t, V1, uve.Version)

	v4 := bytes.Clone(good)
	v4[4] = 4
	_, err = ParseHeader(v4)
	assert.ErrorAs(t, err, &uve)

	deg4 := bytes.Clone(good)
	deg4[12] = 4
	_, err = ParseHeader(deg4)
	var de *DomainError
	assert.ErrorAs(t, err, &de)

	reserved := bytes.Clone(good)
	reserved[15] = 1
	_, err = ParseHeader(reserved)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadHeaderProbe(t *testing.T) {
	s := NewSplat(3, 1)
	for i := range s.Rotations {
		if i%4 == 3 {
			s.Rotations[i] = 1
		}
	}
	b, err := s.Bytes(nil)
	assert.NoError(t, err)

	h, err := ReadHeader(bytes.NewReader(b))
	assert.NoError(t, err)
	assert.Equal(t, int32(3), h.NumPoints)
	assert.Equal(t, uint8(1), h.SHDegree)
	assert.Equal(t, V3, h.Version)
}

// The header probe must succeed even when the payload is truncated,
// as long as the compressed stream still yields 16 header bytes.
func TestReadHeaderTruncatedPayload(t *testing.T) {
	h := Header{Version: V3, NumPoints: 100000, SHDegree: 3, FractionalBits: 12}
	raw, err := h.MarshalBinary()
	assert.NoError(t, err)
	raw = append(raw, make([]byte, 64)...) // tiny fraction of the declared payload
	gz, err := gzipCompress(raw)
	assert.NoError(t, err)

	got, err := ReadHeader(bytes.NewReader(gz))
	assert.NoError(t, err)
	assert.Equal(t, h, got)

	// while full decoding fails with a truncation error
	_, err = FromBytes(gz, nil)
	var tde *TruncatedDataError
	assert.True(t, errors.As(err, &tde))
}
