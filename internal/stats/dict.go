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
	"sort"

	"github.com/jpolanco/gpcirculation/internal/errs"
)

// Hist1DConfig names one 1D histogram slot to allocate inside a Dict.
type Hist1DConfig struct {
	Name     string
	Min, Max float64
	NBins    int
}

// Hist2DConfig names one 2D histogram slot to allocate inside a Dict.
type Hist2DConfig struct {
	Name             string
	MinX, MaxX       float64
	NX               int
	MinY, MaxY       float64
	NY               int
}

// DictConfig describes the full shape of a statistics dictionary: one
// Moments block plus any number of named 1D/2D histograms, all sharing
// the same set of tracked loop sizes (spec.md §4.G "stats dictionary").
type DictConfig struct {
	Moments MomentsConfig
	Hist1D  []Hist1DConfig
	Hist2D  []Hist2DConfig
}

// Dict is one complete statistics shard: a Moments block plus the named
// histograms a run configuration asks for. An Engine owns one Dict
// per worker and reduces them into a master Dict at the end of a pass.
type Dict struct {
	cfg    DictConfig
	Moments *Moments
	hist1d map[string]*Histogram1D
	hist2d map[string]*Histogram2D

	finalised bool
}

// NewDict allocates a zeroed dictionary from cfg.
func NewDict(cfg DictConfig) *Dict {
	d := &Dict{
		cfg:     cfg,
		Moments: NewMoments(cfg.Moments),
		hist1d:  make(map[string]*Histogram1D, len(cfg.Hist1D)),
		hist2d:  make(map[string]*Histogram2D, len(cfg.Hist2D)),
	}
	nr := len(cfg.Moments.LoopSizes)
	for _, h := range cfg.Hist1D {
		d.hist1d[h.Name] = NewHistogram1D(h.Min, h.Max, h.NBins, nr)
	}
	for _, h := range cfg.Hist2D {
		d.hist2d[h.Name] = NewHistogram2D(h.MinX, h.MaxX, h.NX, h.MinY, h.MaxY, h.NY, nr)
	}
	return d
}

// Hist1D looks up a named 1D histogram slot.
func (d *Dict) Hist1D(name string) (*Histogram1D, bool) {
	h, ok := d.hist1d[name]
	return h, ok
}

// Hist2D looks up a named 2D histogram slot.
func (d *Dict) Hist2D(name string) (*Histogram2D, bool) {
	h, ok := d.hist2d[name]
	return h, ok
}

// HistNames1D returns the configured 1D histogram names, sorted.
func (d *Dict) HistNames1D() []string { return sortedKeys1D(d.hist1d) }

// HistNames2D returns the configured 2D histogram names, sorted.
func (d *Dict) HistNames2D() []string { return sortedKeys2D(d.hist2d) }

func sortedKeys1D(m map[string]*Histogram1D) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys2D(m map[string]*Histogram2D) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset zeroes every block in the dictionary and un-finalises it.
func (d *Dict) Reset() {
	d.Moments.Reset()
	for _, h := range d.hist1d {
		h.Reset()
	}
	for _, h := range d.hist2d {
		h.Reset()
	}
	d.finalised = false
}

// Finalise finalises every block. A Dict is finalised as a single unit:
// no block can be updated once any part of the dictionary is finalised.
func (d *Dict) Finalise() error {
	if d.finalised {
		return errs.New(errs.UseAfterFinalise, "dict: already finalised")
	}
	if err := d.Moments.Finalise(); err != nil {
		return err
	}
	for _, h := range d.hist1d {
		if err := h.Finalise(); err != nil {
			return err
		}
	}
	for _, h := range d.hist2d {
		if err := h.Finalise(); err != nil {
			return err
		}
	}
	d.finalised = true
	return nil
}

// Finalised reports whether Finalise has been called.
func (d *Dict) Finalised() bool { return d.finalised }

// MergeFrom folds an unfinalised transient dictionary (typically the
// result of one Engine.Run pass) into a persistent unfinalised master,
// letting a pipeline accumulate statistics across many slices before a
// single final Finalise (spec.md §4.G "reduce" extended across passes,
// not just across one pass's shards).
func (d *Dict) MergeFrom(src *Dict) error {
	return d.reduceInto(src)
}

// reduceInto merges src's running sums and counts into d, block by block.
// Both d and src must be unfinalised (reduction happens across raw shards,
// before the master dictionary is finalised once).
func (d *Dict) reduceInto(src *Dict) error {
	if d.finalised || src.finalised {
		return errs.New(errs.UseAfterFinalise, "dict: reduce: one side already finalised")
	}
	if err := d.Moments.reduceInto(src.Moments); err != nil {
		return err
	}
	for name, h := range d.hist1d {
		sh, ok := src.hist1d[name]
		if !ok {
			return errs.New(errs.DimensionMismatch, "dict: reduce: missing histogram1d slot %q", name)
		}
		if err := h.reduceInto(sh); err != nil {
			return err
		}
	}
	for name, h := range d.hist2d {
		sh, ok := src.hist2d[name]
		if !ok {
			return errs.New(errs.DimensionMismatch, "dict: reduce: missing histogram2d slot %q", name)
		}
		if err := h.reduceInto(sh); err != nil {
			return err
		}
	}
	return nil
}
