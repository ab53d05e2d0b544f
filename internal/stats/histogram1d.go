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

import (
	"math"

	"github.com/jpolanco/gpcirculation/internal/errs"
)

// Histogram1D is a fixed-width binned histogram over a set of loop sizes,
// per spec.md §4.G: bin edges shared across loop sizes, counts[nbins x
// Nr], and per-r running min/max/sample-count that include out-of-range
// outliers even though outliers are never binned (spec.md §8 "exactly on
// rightmost edge -> outlier; not counted in any bin but counted in
// Nsamples, vmin/vmax").
type Histogram1D struct {
	min, max float64
	nbins    int
	nr       int
	width    float64

	counts    []int64 // [bin*nr + r]
	vmin      []float64
	vmax      []float64
	nsamples  []int64
	finalised bool
}

// NewHistogram1D allocates nbins equal-width bins spanning [min,max) for
// each of nr loop sizes.
func NewHistogram1D(min, max float64, nbins, nr int) *Histogram1D {
	vmin := make([]float64, nr)
	vmax := make([]float64, nr)
	for r := range vmin {
		vmin[r] = math.Inf(1)
		vmax[r] = math.Inf(-1)
	}
	return &Histogram1D{
		min: min, max: max, nbins: nbins, nr: nr,
		width:    (max - min) / float64(nbins),
		counts:   make([]int64, nbins*nr),
		vmin:     vmin,
		vmax:     vmax,
		nsamples: make([]int64, nr),
	}
}

// binOf returns the bin index for x, or -1 if x falls outside [min,max)
// (an outlier, counted in Nsamples/vmin/vmax but never binned).
func (h *Histogram1D) binOf(x float64) int {
	if x < h.min || x >= h.max {
		return -1
	}
	b := int((x - h.min) / h.width)
	if b >= h.nbins {
		b = h.nbins - 1
	}
	if b < 0 {
		b = 0
	}
	return b
}

// Update bins every sample in x against loop-size index rIdx.
func (h *Histogram1D) Update(x []float64, rIdx int) error {
	if h.finalised {
		return errs.New(errs.UseAfterFinalise, "histogram1d: update after finalise")
	}
	if rIdx < 0 || rIdx >= h.nr {
		return errs.New(errs.DimensionMismatch, "histogram1d: r_idx %d out of range [0,%d)", rIdx, h.nr)
	}
	for _, v := range x {
		if b := h.binOf(v); b >= 0 {
			h.counts[b*h.nr+rIdx]++
		}
		if v < h.vmin[rIdx] {
			h.vmin[rIdx] = v
		}
		if v > h.vmax[rIdx] {
			h.vmax[rIdx] = v
		}
		h.nsamples[rIdx]++
	}
	return nil
}

// Reset clears all bin counts, min/max and sample counters, and
// un-finalises the histogram.
func (h *Histogram1D) Reset() {
	for i := range h.counts {
		h.counts[i] = 0
	}
	for r := range h.vmin {
		h.vmin[r] = math.Inf(1)
		h.vmax[r] = math.Inf(-1)
		h.nsamples[r] = 0
	}
	h.finalised = false
}

// Finalise locks the histogram against further updates.
func (h *Histogram1D) Finalise() error {
	if h.finalised {
		return errs.New(errs.UseAfterFinalise, "histogram1d: already finalised")
	}
	h.finalised = true
	return nil
}

// Counts returns the raw row-major (nbins*Nr) bin counts.
func (h *Histogram1D) Counts() []int64 { return append([]int64(nil), h.counts...) }

// VMin, VMax, NSamples return the per-loop-size running extrema and
// sample counts (outliers included).
func (h *Histogram1D) VMin() []float64    { return append([]float64(nil), h.vmin...) }
func (h *Histogram1D) VMax() []float64    { return append([]float64(nil), h.vmax...) }
func (h *Histogram1D) NSamples() []int64  { return append([]int64(nil), h.nsamples...) }
func (h *Histogram1D) NumLoopSizes() int  { return h.nr }
func (h *Histogram1D) NumBins() int       { return h.nbins }

// BinEdges returns the nbins+1 bin boundaries, shared across every r.
func (h *Histogram1D) BinEdges() []float64 {
	edges := make([]float64, h.nbins+1)
	for i := range edges {
		edges[i] = h.min + float64(i)*h.width
	}
	return edges
}

func (h *Histogram1D) reduceInto(src *Histogram1D) error {
	if len(h.counts) != len(src.counts) || h.min != src.min || h.max != src.max || h.nr != src.nr {
		return errs.New(errs.DimensionMismatch, "histogram1d: reduce: shard shape mismatch")
	}
	for i := range h.counts {
		h.counts[i] += src.counts[i]
	}
	for r := range h.vmin {
		h.vmin[r] = math.Min(h.vmin[r], src.vmin[r])
		h.vmax[r] = math.Max(h.vmax[r], src.vmax[r])
		h.nsamples[r] += src.nsamples[r]
	}
	return nil
}
