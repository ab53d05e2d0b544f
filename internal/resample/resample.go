// Copyright 2024 The gpcirculation Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package resample implements the spectral resampler of spec.md §4.D:
// zero-padding a Fourier-space field into a larger grid with correct
// Nyquist handling, upscaling only (§9 open question, resolved here: the
// resampling ratio is restricted to an integer power of two, matching
// the source's documented behaviour).
package resample

import "github.com/jpolanco/gpcirculation/internal/errs"

func isPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}

// axisMap builds the per-axis index map m, 0-indexed (spec.md §4.D step
// 2): m[n]=n for n in 0..h-1 (h=nIn/2), and m[nIn-n]=nOut-n for n in
// 1..h. Index 0 (zero frequency) maps to itself; index h (Nyquist, the
// -h wavenumber in the two-sided layout) maps to nOut-h, keeping its
// negative-frequency position.
func axisMap(nIn, nOut int) []int {
	h := nIn / 2
	m := make([]int, nIn)
	for n := 0; n < h; n++ {
		m[n] = n
	}
	for n := 1; n <= h; n++ {
		m[nIn-n] = nOut - n
	}
	return m
}

// Resample2D zero-pads src (shape nxIn x nyIn, row-major) into a field of
// shape nxOut x nyOut, preserving the negative-frequency layout and
// scaling by |dst|/|src| so an inverse FFT recovers the same physical
// amplitude (spec.md §4.D step 3).
func Resample2D(src []complex128, nxIn, nyIn, nxOut, nyOut int) ([]complex128, error) {
	if nxOut < nxIn || nyOut < nyIn {
		return nil, errs.New(errs.InvalidShape, "resample: cannot downscale %dx%d -> %dx%d", nxIn, nyIn, nxOut, nyOut)
	}
	if nxIn%2 != 0 || nyIn%2 != 0 || nxOut%2 != 0 || nyOut%2 != 0 {
		return nil, errs.New(errs.InvalidShape, "resample: all axis lengths must be even")
	}
	rx := nxOut / nxIn
	ry := nyOut / nyIn
	if nxOut%nxIn != 0 || nyOut%nyIn != 0 || !isPowerOfTwo(rx) || !isPowerOfTwo(ry) {
		return nil, errs.New(errs.InvalidShape, "resample: ratio must be an integer power of two, got %dx%d -> %dx%d", nxIn, nyIn, nxOut, nyOut)
	}

	dst := make([]complex128, nxOut*nyOut)
	if nxIn == nxOut && nyIn == nyOut {
		copy(dst, src)
		return dst, nil
	}

	mx := axisMap(nxIn, nxOut)
	my := axisMap(nyIn, nyOut)
	scale := complex(float64(nxOut*nyOut)/float64(nxIn*nyIn), 0)

	for ix := 0; ix < nxIn; ix++ {
		dix := mx[ix]
		for iy := 0; iy < nyIn; iy++ {
			diy := my[iy]
			dst[dix*nyOut+diy] = src[ix*nyIn+iy] * scale
		}
	}
	return dst, nil
}
