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

package stats

import "github.com/jpolanco/gpcirculation/internal/errs"

// Histogram2D bins joint (x,y) samples over a set of loop sizes, the two
// axes used both for plain joint distributions (e.g. Γ at two loop
// sizes) and for the dissipation-conditioned histogram of SPEC_FULL.md's
// supplemented features (the "GammaDissipation" slot: x = Γ, y a conditioning
// variable such as local dissipation rate). An event is binned only if
// both coordinates fall in range (spec.md §4.G "same as 1D ... binned
// only if both coordinates are in range").
type Histogram2D struct {
	minX, maxX float64
	minY, maxY float64
	nx, ny, nr int
	wx, wy     float64
	counts     []int64 // [(bx*ny+by)*nr + r]
	nsamples   []int64 // [r], every call counted whether binned or not
	finalised  bool
}

// NewHistogram2D allocates an nx x ny grid of bins over [minX,maxX) x
// [minY,maxY) for each of nr loop sizes.
func NewHistogram2D(minX, maxX float64, nx int, minY, maxY float64, ny, nr int) *Histogram2D {
	return &Histogram2D{
		minX: minX, maxX: maxX, nx: nx, wx: (maxX - minX) / float64(nx),
		minY: minY, maxY: maxY, ny: ny, wy: (maxY - minY) / float64(ny),
		nr:       nr,
		counts:   make([]int64, nx*ny*nr),
		nsamples: make([]int64, nr),
	}
}

// binIndex returns the bin index of v, or -1 if out of [min, min+width*n).
func binIndex(v, min, width float64, n int) int {
	if v < min || v >= min+width*float64(n) {
		return -1
	}
	b := int((v - min) / width)
	if b >= n {
		b = n - 1
	}
	if b < 0 {
		b = 0
	}
	return b
}

// Update bins every (x[i], y[i]) pair against loop-size index rIdx. x and
// y must have equal length.
func (h *Histogram2D) Update(x, y []float64, rIdx int) error {
	if h.finalised {
		return errs.New(errs.UseAfterFinalise, "histogram2d: update after finalise")
	}
	if len(x) != len(y) {
		return errs.New(errs.DimensionMismatch, "histogram2d: x/y length mismatch %d != %d", len(x), len(y))
	}
	if rIdx < 0 || rIdx >= h.nr {
		return errs.New(errs.DimensionMismatch, "histogram2d: r_idx %d out of range [0,%d)", rIdx, h.nr)
	}
	for i := range x {
		bx := binIndex(x[i], h.minX, h.wx, h.nx)
		by := binIndex(y[i], h.minY, h.wy, h.ny)
		if bx >= 0 && by >= 0 {
			h.counts[(bx*h.ny+by)*h.nr+rIdx]++
		}
		h.nsamples[rIdx]++
	}
	return nil
}

// Reset clears all bin counts and sample counters and un-finalises the
// histogram.
func (h *Histogram2D) Reset() {
	for i := range h.counts {
		h.counts[i] = 0
	}
	for r := range h.nsamples {
		h.nsamples[r] = 0
	}
	h.finalised = false
}

// Finalise locks the histogram against further updates.
func (h *Histogram2D) Finalise() error {
	if h.finalised {
		return errs.New(errs.UseAfterFinalise, "histogram2d: already finalised")
	}
	h.finalised = true
	return nil
}

// Counts returns the raw (nx*ny*Nr) bin counts, indexed [(bx*ny+by)*Nr+r].
func (h *Histogram2D) Counts() []int64 { return append([]int64(nil), h.counts...) }

// NSamples returns the per-loop-size total sample count (outliers included).
func (h *Histogram2D) NSamples() []int64 { return append([]int64(nil), h.nsamples...) }

// Shape reports (nx, ny, Nr).
func (h *Histogram2D) Shape() (int, int, int) { return h.nx, h.ny, h.nr }

func (h *Histogram2D) reduceInto(src *Histogram2D) error {
	if h.nx != src.nx || h.ny != src.ny || h.nr != src.nr ||
		h.minX != src.minX || h.maxX != src.maxX || h.minY != src.minY || h.maxY != src.maxY {
		return errs.New(errs.DimensionMismatch, "histogram2d: reduce: shard shape mismatch")
	}
	for i := range h.counts {
		h.counts[i] += src.counts[i]
	}
	for r := range h.nsamples {
		h.nsamples[r] += src.nsamples[r]
	}
	return nil
}
