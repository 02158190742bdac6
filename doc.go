// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spz reads and writes Gaussian splat point clouds in the SPZ
// binary format. An SPZ file is a gzip stream containing a fixed 16-byte
// header followed by quantized, attribute-major splat data: fixed-point
// positions, log-encoded scales, packed unit quaternion rotations,
// sigmoid-encoded opacities, DC color terms, and optional spherical
// harmonics coefficients up to degree 3.
//
// The expanded in-memory representation is [Splat], which owns parallel
// float32 slices for each attribute. [Open], [Read], and [FromBytes]
// decode a packed stream into a Splat, converting from the format's
// canonical Right-Up-Back coordinate convention to the system requested
// in [LoadOptions]. [Splat.Save], [Splat.Write], and [Splat.Bytes] are
// the mirror path; they apply the coordinate conversion on the fly while
// quantizing, so the Splat itself is never reoriented by saving.
//
// [OpenHeader] and [ReadHeader] inspect only the header, without
// decoding the payload, for fast metadata probes on large files.
package spz
