// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import (
	"slices"
	"testing"

	"cogentcore.org/core/base/tolassert"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestMedianVolume(t *testing.T) {
	// scale sums -3, 0, 3; median 0; volume 4/3*pi*exp(0)
	s := &Splat{Scales: []float32{
		-1, -1, -1,
		0, 0, 0,
		1, 1, 1,
	}}
	tolassert.EqualTol(t, math32.Pi*4/3, s.MedianVolume(), 1e-5)

	// five points, median sum still 0
	s = &Splat{Scales: []float32{
		-2, -2, -2,
		-1, -1, -1,
		0, 0, 0,
		1, 1, 1,
		2, 2, 2,
	}}
	tolassert.EqualTol(t, math32.Pi*4/3, s.MedianVolume(), 1e-5)
}

func TestMedianVolumeEdge(t *testing.T) {
	s := &Splat{}
	assert.Equal(t, float32(0.01), s.MedianVolume())

	// non-finite sums are skipped
	nan := math32.NaN()
	inf := math32.Inf(1)
	s = &Splat{Scales: []float32{
		nan, 0, 0,
		inf, 0, 0,
		0, 0, 0,
	}}
	tolassert.EqualTol(t, math32.Pi*4/3, s.MedianVolume(), 1e-5)

	// nothing finite left
	s = &Splat{Scales: []float32{nan, nan, nan}}
	assert.Equal(t, float32(0.01), s.MedianVolume())

	// all scales at the log floor: sentinel, not zero or subnormal
	s = &Splat{Scales: []float32{-200, -200, -200}}
	assert.Equal(t, float32(0.01), s.MedianVolume())
}

func TestSelectNth(t *testing.T) {
	cases := [][]float32{
		{5},
		{2, 1},
		{3, 1, 2},
		{9, -4, 7, 0, 0, 3, 3, -8, 12, 5},
		{1, 1, 1, 1, 1},
		{5, 4, 3, 2, 1, 0, -1, -2},
	}
	for _, vals := range cases {
		sorted := slices.Clone(vals)
		slices.Sort(sorted)
		for n := range vals {
			work := slices.Clone(vals)
			assert.Equal(t, sorted[n], selectNth(work, n), "vals %v n %d", vals, n)
		}
	}
}
