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

// Package stats is the statistics engine of spec.md §4.G: per-thread
// shards of moments and 1D/2D histograms, reduced into a master record
// and finalised once, exactly the semantics spec.md §3's "Stats
// accumulator" and §7's UseAfterFinalise describe.
package stats

import (
	"math"

	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/jpolanco/gpcirculation/internal/errs"
)

// MomentsConfig fixes the shape of a Moments accumulator: the loop sizes
// it tracks, the maximum integer order, any fractional orders in (0,1),
// and which moment kinds to accumulate (SPEC_FULL.md "Fractional and
// signed moments").
type MomentsConfig struct {
	LoopSizes  []int
	PMax       int
	Fractional []float64
	Kinds      []consts.MomentKind
}

// Moments accumulates running power sums per (kind, order, loop size).
type Moments struct {
	cfg    MomentsConfig
	orders []float64 // 1..PMax, then Fractional, in that order

	sums      map[consts.MomentKind][][]float64 // [orderIdx][rIdx]
	count     []int64                           // [rIdx], shared across kinds/orders
	finalised bool
}

// NewMoments allocates a zeroed accumulator.
func NewMoments(cfg MomentsConfig) *Moments {
	orders := make([]float64, 0, cfg.PMax+len(cfg.Fractional))
	for p := 1; p <= cfg.PMax; p++ {
		orders = append(orders, float64(p))
	}
	orders = append(orders, cfg.Fractional...)

	kinds := cfg.Kinds
	if len(kinds) == 0 {
		kinds = []consts.MomentKind{consts.MomentRaw}
	}

	nr := len(cfg.LoopSizes)
	sums := make(map[consts.MomentKind][][]float64, len(kinds))
	for _, k := range kinds {
		table := make([][]float64, len(orders))
		for i := range table {
			table[i] = make([]float64, nr)
		}
		sums[k] = table
	}

	return &Moments{
		cfg:    MomentsConfig{LoopSizes: cfg.LoopSizes, PMax: cfg.PMax, Fractional: cfg.Fractional, Kinds: kinds},
		orders: orders,
		sums:   sums,
		count:  make([]int64, nr),
	}
}

// NumLoopSizes reports Nr, the number of tracked loop sizes.
func (m *Moments) NumLoopSizes() int { return len(m.cfg.LoopSizes) }

func momentTerm(kind consts.MomentKind, gamma, p float64) float64 {
	switch kind {
	case consts.MomentAbsolute:
		return math.Pow(math.Abs(gamma), p)
	case consts.MomentPositive:
		if gamma < 0 {
			return 0
		}
		return math.Pow(gamma, p)
	case consts.MomentNegative:
		if gamma >= 0 {
			return 0
		}
		return math.Pow(-gamma, p)
	default: // MomentRaw
		if p == math.Trunc(p) {
			return math.Pow(gamma, p)
		}
		// Fractional order on a signed value: preserve sign, take the
		// fractional power of the magnitude.
		if gamma < 0 {
			return -math.Pow(-gamma, p)
		}
		return math.Pow(gamma, p)
	}
}

// Update folds every sample in gamma into the running sums for loop-size
// index rIdx (spec.md §4.G "update(Γ, r_idx)").
func (m *Moments) Update(gamma []float64, rIdx int) error {
	if m.finalised {
		return errs.New(errs.UseAfterFinalise, "moments: update after finalise")
	}
	if rIdx < 0 || rIdx >= len(m.cfg.LoopSizes) {
		return errs.New(errs.DimensionMismatch, "moments: r_idx %d out of range [0,%d)", rIdx, len(m.cfg.LoopSizes))
	}
	for _, kind := range m.cfg.Kinds {
		table := m.sums[kind]
		for oi, p := range m.orders {
			sum := 0.0
			for _, g := range gamma {
				sum += momentTerm(kind, g, p)
			}
			table[oi][rIdx] += sum
		}
	}
	m.count[rIdx] += int64(len(gamma))
	return nil
}

// Reset clears all sums and counters and un-finalises the accumulator
// (spec.md §4.G "reset").
func (m *Moments) Reset() {
	for _, table := range m.sums {
		for _, row := range table {
			for i := range row {
				row[i] = 0
			}
		}
	}
	for i := range m.count {
		m.count[i] = 0
	}
	m.finalised = false
}

// Finalise marks the accumulator finalised (spec.md §4.G "finalise"); from
// then on Value divides each sum by its sample count to give <Gamma^p>.
// Further updates fail with UseAfterFinalise.
func (m *Moments) Finalise() error {
	if m.finalised {
		return errs.New(errs.UseAfterFinalise, "moments: already finalised")
	}
	m.finalised = true
	return nil
}

// Value returns <Gamma^p> for the given kind/order/loop-size after
// Finalise, or the raw running sum before Finalise (spec.md §8: "before
// finalise, accessing <Gamma^p> fails or returns the raw sum clearly").
func (m *Moments) Value(kind consts.MomentKind, orderIdx, rIdx int) (float64, bool) {
	table, ok := m.sums[kind]
	if !ok || orderIdx < 0 || orderIdx >= len(table) || rIdx < 0 || rIdx >= len(m.count) {
		return 0, false
	}
	sum := table[orderIdx][rIdx]
	if !m.finalised {
		return sum, true
	}
	n := m.count[rIdx]
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Finalised reports whether Finalise has been called.
func (m *Moments) Finalised() bool { return m.finalised }

// Orders returns the concrete order list (integers 1..PMax then
// Fractional, in that order).
func (m *Moments) Orders() []float64 { return append([]float64(nil), m.orders...) }

// Count returns the sample count accumulated for loop-size index rIdx.
func (m *Moments) Count(rIdx int) int64 { return m.count[rIdx] }

// reduceInto adds src's sums and counts into m (spec.md §4.G "reduce").
func (m *Moments) reduceInto(src *Moments) error {
	if len(m.cfg.LoopSizes) != len(src.cfg.LoopSizes) {
		return errs.New(errs.DimensionMismatch, "moments: reduce: Nr mismatch %d != %d", len(m.cfg.LoopSizes), len(src.cfg.LoopSizes))
	}
	for kind, table := range m.sums {
		srcTable, ok := src.sums[kind]
		if !ok {
			continue
		}
		for oi := range table {
			for r := range table[oi] {
				table[oi][r] += srcTable[oi][r]
			}
		}
	}
	for r := range m.count {
		m.count[r] += src.count[r]
	}
	return nil
}
