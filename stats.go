// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import "github.com/chewxy/math32"

// undefinedVolume is the sentinel returned by [Splat.MedianVolume] when
// no finite volume exists (no points, or all scale sums non-finite).
const undefinedVolume = 0.01

// MedianVolume returns the median ellipsoid volume over all points.
// The volume of one Gaussian's ellipsoid is 4/3*pi*x*y*z for the linear
// radii, and scales are stored as logs, so exp(sx+sy+sz) gives x*y*z
// and the median can be selected on the plain sums. Selection runs in
// O(n) via quickselect rather than sorting. The median is robust to
// outlier Gaussians, unlike the mean. Non-finite sums are skipped;
// if nothing usable remains, the 0.01 sentinel is returned.
func (s *Splat) MedianVolume() float32 {
	if len(s.Scales) < 3 {
		return undefinedVolume
	}
	sums := make([]float32, 0, len(s.Scales)/3)
	for i := 0; i+2 < len(s.Scales); i += 3 {
		sum := s.Scales[i] + s.Scales[i+1] + s.Scales[i+2]
		if math32.IsNaN(sum) || math32.IsInf(sum, 0) {
			continue
		}
		sums = append(sums, sum)
	}
	if len(sums) == 0 {
		return undefinedVolume
	}
	median := selectNth(sums, len(sums)/2)
	if median <= math32.Log(math32.SmallestNonzeroFloat32) {
		return undefinedVolume
	}
	return math32.Pi * 4 / 3 * math32.Exp(median)
}

// selectNth returns the value that would be at index n if vals were
// sorted, partially reordering vals in place (Hoare-style quickselect
// with a median-of-three pivot).
func selectNth(vals []float32, n int) float32 {
	lo, hi := 0, len(vals)-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		// median-of-three pivot to the front
		if vals[mid] < vals[lo] {
			vals[mid], vals[lo] = vals[lo], vals[mid]
		}
		if vals[hi] < vals[lo] {
			vals[hi], vals[lo] = vals[lo], vals[hi]
		}
		if vals[hi] < vals[mid] {
			vals[hi], vals[mid] = vals[mid], vals[hi]
		}
		pivot := vals[mid]
		i, j := lo, hi
		for i <= j {
			for vals[i] < pivot {
				i++
			}
			for vals[j] > pivot {
				j--
			}
			if i <= j {
				vals[i], vals[j] = vals[j], vals[i]
				i++
				j--
			}
		}
		switch {
		case n <= j:
			hi = j
		case n >= i:
			lo = i
		default:
			return vals[n]
		}
	}
	return vals[n]
}
