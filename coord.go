// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import "strings"

// CoordinateSystem is one of the 8 signed axis conventions used by
// producers and consumers of Gaussian splat data, plus [Unspecified].
// The three letters of each name give the direction of the positive
// X, Y, and Z axes: Left or Right, Down or Up, Back or Front.
//
// The SPZ format itself always stores data in [RightUpBack]; callers
// declare their own convention in [LoadOptions] and [SaveOptions] and
// the codec converts. [Unspecified] disables conversion entirely, for
// callers that manage their own convention and must not be silently
// corrected.
type CoordinateSystem int32

const (
	// Unspecified performs no coordinate conversion.
	Unspecified CoordinateSystem = iota

	// LeftDownBack is +X left, +Y down, +Z back.
	LeftDownBack

	// RightDownBack is +X right, +Y down, +Z back.
	RightDownBack

	// LeftUpBack is +X left, +Y up, +Z back.
	LeftUpBack

	// RightUpBack is +X right, +Y up, +Z back: the SPZ internal
	// convention, also used by three.js.
	RightUpBack

	// LeftDownFront is +X left, +Y down, +Z front.
	LeftDownFront

	// RightDownFront is +X right, +Y down, +Z front: the PLY convention.
	RightDownFront

	// LeftUpFront is +X left, +Y up, +Z front: the GLB convention.
	LeftUpFront

	// RightUpFront is +X right, +Y up, +Z front: the Unity convention.
	RightUpFront
)

var coordNames = map[CoordinateSystem][2]string{
	Unspecified:    {"Unspecified", "UNSPECIFIED"},
	LeftDownBack:   {"Left-Down-Back", "LDB"},
	RightDownBack:  {"Right-Down-Back", "RDB"},
	LeftUpBack:     {"Left-Up-Back", "LUB"},
	RightUpBack:    {"Right-Up-Back", "RUB"},
	LeftDownFront:  {"Left-Down-Front", "LDF"},
	RightDownFront: {"Right-Down-Front", "RDF"},
	LeftUpFront:    {"Left-Up-Front", "LUF"},
	RightUpFront:   {"Right-Up-Front", "RUF"},
}

func (cs CoordinateSystem) String() string {
	if n, ok := coordNames[cs]; ok {
		return n[0]
	}
	return "Unspecified"
}

// ShortString returns the three-letter abbreviation of this coordinate
// system, such as "RUB" for [RightUpBack], or "UNSPECIFIED".
func (cs CoordinateSystem) ShortString() string {
	if n, ok := coordNames[cs]; ok {
		return n[1]
	}
	return "UNSPECIFIED"
}

// CoordinateSystems returns all coordinate system values, including
// [Unspecified].
func CoordinateSystems() []CoordinateSystem {
	return []CoordinateSystem{
		Unspecified,
		LeftDownBack, RightDownBack, LeftUpBack, RightUpBack,
		LeftDownFront, RightDownFront, LeftUpFront, RightUpFront,
	}
}

// ParseCoordinateSystem parses a coordinate system from its short
// ("RUB") or long ("Right-Up-Back", "right_up_back") name, ignoring
// case and separators. Anything unrecognized is [Unspecified].
func ParseCoordinateSystem(s string) CoordinateSystem {
	key := strings.ToUpper(s)
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	for cs, n := range coordNames {
		if cs == Unspecified {
			continue
		}
		long := strings.NewReplacer("-", "").Replace(strings.ToUpper(n[0]))
		if key == n[1] || key == long {
			return cs
		}
	}
	return Unspecified
}

// axesAlign reports whether each of the X, Y, and Z axes points in the
// same direction in cs and other. If either system is [Unspecified],
// all axes are treated as aligned. The concrete systems are encoded so
// that bits 0, 1, and 2 of (value - 1) give the sign of X, Y, and Z.
func (cs CoordinateSystem) axesAlign(other CoordinateSystem) (x, y, z bool) {
	a, b := int32(cs)-1, int32(other)-1
	if a < 0 || b < 0 {
		return true, true, true
	}
	return a&1 == b&1, a>>1&1 == b>>1&1, a>>2&1 == b>>2&1
}

// AxisFlips holds the sign multipliers (+1 or -1) that transform splat
// attributes from one [CoordinateSystem] to another. The concrete
// systems differ only in axis signs, so every conversion is a
// componentwise multiply and every A->B->A round trip is exact.
type AxisFlips struct {
	// Position multiplies the X, Y, and Z position components.
	Position [3]float32

	// Rotation multiplies the x, y, and z quaternion components; w is
	// unchanged. Each entry is the product of the other two axis signs,
	// which compensates the handedness parity of reflections so the
	// result remains a proper rotation.
	Rotation [3]float32

	// SphericalHarmonics multiplies the 15 directional bands shared by
	// the three color channels, following the parity of each band's
	// direction indices.
	SphericalHarmonics [15]float32
}

// IdentityFlips returns the no-op [AxisFlips].
func IdentityFlips() AxisFlips {
	return AxisFlips{
		Position:           [3]float32{1, 1, 1},
		Rotation:           [3]float32{1, 1, 1},
		SphericalHarmonics: [15]float32{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
}

// FlipsTo returns the [AxisFlips] that transform data from cs to the
// target system. If either side is [Unspecified], the identity is
// returned.
func (cs CoordinateSystem) FlipsTo(target CoordinateSystem) AxisFlips {
	xa, ya, za := cs.axesAlign(target)
	x, y, z := float32(1), float32(1), float32(1)
	if !xa {
		x = -1
	}
	if !ya {
		y = -1
	}
	if !za {
		z = -1
	}
	return AxisFlips{
		Position: [3]float32{x, y, z},
		Rotation: [3]float32{y * z, x * z, x * y},
		SphericalHarmonics: [15]float32{
			y, z, x, // degree 1
			x * y, y * z, 1, x * z, 1, // degree 2
			y, x * y * z, y, z, x, z, x, // degree 3
		},
	}
}
