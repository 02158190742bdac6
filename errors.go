// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spz

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates structurally invalid data: a truncated header,
	// a bad magic number, or nonzero reserved header bytes.
	ErrFormat = errors.New("spz: invalid format")

	// ErrSizeMismatch indicates that the attribute arrays of a [Splat]
	// or packed payload disagree on the number of points.
	ErrSizeMismatch = errors.New("spz: inconsistent attribute sizes")
)

// UnsupportedVersionError is returned for SPZ versions other than 2 and 3.
// Version 1 files exist in the wild but are explicitly not supported.
type UnsupportedVersionError struct {
	Version Version
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("spz: unsupported version: %d", int32(e.Version))
}

// DomainError is returned when a value is outside the valid domain of a
// transform or header field: a spherical harmonics degree above 3, a
// fractional bit count outside 1-24, or a non-positive linear scale.
type DomainError struct {
	// What names the offending field or quantity.
	What string

	// Value is the out-of-domain value.
	Value float32
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("spz: %s out of domain: %g", e.What, e.Value)
}

// TruncatedDataError is returned when the payload ends before the number
// of points declared in the header has been read.
type TruncatedDataError struct {
	// Attr is the attribute stream that could not be fully read.
	Attr string

	// Err is the underlying read error.
	Err error
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("spz: truncated %s data: %v", e.Attr, e.Err)
}

func (e *TruncatedDataError) Unwrap() error { return e.Err }
