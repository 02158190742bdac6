// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateSystemStrings(t *testing.T) {
	assert.Equal(t, "RUB", RightUpBack.ShortString())
	assert.Equal(t, "RDF", RightDownFront.ShortString())
	assert.Equal(t, "LUF", LeftUpFront.ShortString())
	assert.Equal(t, "Right-Up-Back", RightUpBack.String())
	assert.Equal(t, "UNSPECIFIED", Unspecified.ShortString())

	for _, cs := range CoordinateSystems() {
		assert.Equal(t, cs, ParseCoordinateSystem(cs.ShortString()))
		assert.Equal(t, cs, ParseCoordinateSystem(cs.String()))
	}
	assert.Equal(t, RightUpBack, ParseCoordinateSystem("right_up_back"))
	assert.Equal(t, LeftDownFront, ParseCoordinateSystem("ldf"))
	assert.Equal(t, Unspecified, ParseCoordinateSystem("sideways"))
}

func TestAxesAlign(t *testing.T) {
	x, y, z := RightUpBack.axesAlign(LeftUpFront)
	assert.Equal(t, [3]bool{false, true, false}, [3]bool{x, y, z})

	x, y, z = RightDownFront.axesAlign(LeftUpFront)
	assert.Equal(t, [3]bool{false, false, true}, [3]bool{x, y, z})

	x, y, z = Unspecified.axesAlign(LeftUpFront)
	assert.Equal(t, [3]bool{true, true, true}, [3]bool{x, y, z})

	x, y, z = RightUpBack.axesAlign(Unspecified)
	assert.Equal(t, [3]bool{true, true, true}, [3]bool{x, y, z})
}

func TestFlipsKnown(t *testing.T) {
	// PLY (RDF) to GLB (LUF): X and Y differ, Z matches.
	f := RightDownFront.FlipsTo(LeftUpFront)
	assert.Equal(t, [3]float32{-1, -1, 1}, f.Position)

	assert.Equal(t, IdentityFlips(), Unspecified.FlipsTo(RightUpBack))
	assert.Equal(t, IdentityFlips(), RightUpBack.FlipsTo(RightUpBack))
}

// Converting A -> B and then B -> A is an exact involution: the product
// of the two flip tables is identity for every unordered pair.
func TestFlipsInvolution(t *testing.T) {
	all := CoordinateSystems()[1:] // concrete systems only
	for _, p := range all {
		for _, q := range all {
			fwd := p.FlipsTo(q)
			back := q.FlipsTo(p)
			for i := range 3 {
				assert.Equal(t, float32(1), fwd.Position[i]*back.Position[i], "%v<->%v position %d", p, q, i)
				assert.Equal(t, float32(1), fwd.Rotation[i]*back.Rotation[i], "%v<->%v rotation %d", p, q, i)
			}
			for i := range 15 {
				assert.Equal(t, float32(1), fwd.SphericalHarmonics[i]*back.SphericalHarmonics[i], "%v<->%v sh %d", p, q, i)
			}
		}
	}
}

func testSplat(t *testing.T, numPoints int32, degree uint8) *Splat {
	t.Helper()
	s := NewSplat(numPoints, degree)
	for i := range int(numPoints) {
		s.Positions[i*3] = float32(i) + 0.25
		s.Positions[i*3+1] = -float32(i) - 0.5
		s.Positions[i*3+2] = float32(i)*0.125 - 1
		s.Scales[i*3] = -2.5
		s.Scales[i*3+1] = -2
		s.Scales[i*3+2] = -1.5
		q := normalizeQuat([4]float32{0.1 * float32(i+1), -0.2, 0.3, 0.9})
		copy(s.Rotations[i*4:i*4+4], q[:])
		s.Alphas[i] = float32(i%5) - 2
		s.Colors[i*3] = 0.5
		s.Colors[i*3+1] = -0.25
		s.Colors[i*3+2] = 0.125
	}
	for i := range s.SphericalHarmonics {
		s.SphericalHarmonics[i] = float32(i%7)*0.125 - 0.375
	}
	return s
}

// In-place conversion P -> Q -> P must restore positions, rotations,
// and spherical harmonics bit for bit.
func TestConvertCoordinatesInvolution(t *testing.T) {
	all := CoordinateSystems()[1:]
	for _, p := range all {
		for _, q := range all {
			s := testSplat(t, 4, 3)
			orig := testSplat(t, 4, 3)
			s.ConvertCoordinates(p, q)
			s.ConvertCoordinates(q, p)
			assert.Equal(t, orig.Positions, s.Positions, "%v<->%v", p, q)
			assert.Equal(t, orig.Rotations, s.Rotations, "%v<->%v", p, q)
			assert.Equal(t, orig.SphericalHarmonics, s.SphericalHarmonics, "%v<->%v", p, q)
		}
	}
}

// Scale, opacity, and color are invariant under coordinate conversion.
func TestConvertCoordinatesInvariants(t *testing.T) {
	s := testSplat(t, 4, 2)
	orig := testSplat(t, 4, 2)
	s.ConvertCoordinates(RightUpBack, LeftDownFront)
	assert.Equal(t, orig.Scales, s.Scales)
	assert.Equal(t, orig.Alphas, s.Alphas)
	assert.Equal(t, orig.Colors, s.Colors)
	assert.NotEqual(t, orig.Positions, s.Positions)
}

func TestConvertCoordinatesUnspecified(t *testing.T) {
	s := testSplat(t, 2, 1)
	orig := testSplat(t, 2, 1)
	s.ConvertCoordinates(Unspecified, LeftDownFront)
	assert.Equal(t, orig, s)
	s.ConvertCoordinates(RightUpBack, Unspecified)
	assert.Equal(t, orig, s)
}
