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

// Package container serialises a finalised run to a flat-variable NetCDF
// file via github.com/ctessum/cdf, standing in for the HDF5-like
// container of spec.md §6: SimParams carries the domain record, and one
// flat "Group.Quantity.Block.field" variable per quantity/block takes
// the place of the nested group hierarchy (out of scope per spec.md §1 —
// see SPEC_FULL.md DOMAIN STACK).
package container

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"

	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/jpolanco/gpcirculation/internal/errs"
	"github.com/jpolanco/gpcirculation/internal/stats"
)

// ScalarParams mirrors spec.md §3's "SimParams"/"ParamsGP" group.
type ScalarParams struct {
	D          int
	N          []int
	L          []float64
	C, Xi      float64
	Kappa      float64
}

// QuantityResult bundles one quantity's finalised statistics dictionary
// with the loop sizes it covers, ready for serialisation.
type QuantityResult struct {
	Quantity  consts.Quantity
	LoopSizes []int
	Dict      *stats.Dict
}

// dimTable hands out a unique dimension name for each distinct length,
// so two blocks that happen to share a size reuse one dimension instead
// of redeclaring it (cdf, like NetCDF classic, errors on duplicate dims).
type dimTable struct {
	byLen map[int]string
	used  map[string]bool
}

func newDimTable() *dimTable {
	return &dimTable{byLen: map[int]string{}, used: map[string]bool{}}
}

func (d *dimTable) name(hint string, n int) string {
	if existing, ok := d.byLen[n]; ok {
		return existing
	}
	name := hint
	for d.used[name] {
		name = fmt.Sprintf("%s_%d", hint, n)
	}
	d.used[name] = true
	d.byLen[n] = name
	return name
}

// Write serialises params and results to path under the named top-level
// analysis group (e.g. "Circulation", "Increments" per spec.md §6).
func Write(path, group string, params ScalarParams, results []QuantityResult) error {
	if len(results) == 0 {
		return errs.New(errs.InvalidConfig, "container: no quantity results to write")
	}
	for _, r := range results {
		if !r.Dict.Finalised() {
			return errs.New(errs.UseAfterFinalise, "container: quantity %v dictionary is not finalised", r.Quantity)
		}
	}

	dims := newDimTable()
	axisDim := dims.name("axis", params.D)

	h := cdf.NewHeader(
		[]string{axisDim},
		[]int{params.D},
	)

	if err := h.AddVariable("SimParams.N", []string{axisDim}, intsToFloat64(params.N)); err != nil {
		return errs.New(errs.IOError, "container: define SimParams.N: %v", err)
	}
	if err := h.AddVariable("SimParams.L", []string{axisDim}, params.L); err != nil {
		return errs.New(errs.IOError, "container: define SimParams.L: %v", err)
	}
	h.AddAttribute("", "SimParams.D", int32(params.D))
	h.AddAttribute("", "SimParams.C", params.C)
	h.AddAttribute("", "SimParams.Xi", params.Xi)
	h.AddAttribute("", "SimParams.Kappa", params.Kappa)

	type pending struct {
		name string
		data interface{}
	}
	var writes []pending

	for _, res := range results {
		qname := res.Quantity.String()
		rDim := dims.name(fmt.Sprintf("r_%s", qname), len(res.LoopSizes))

		orders := res.Dict.Moments.Orders()
		orderDim := dims.name(fmt.Sprintf("order_%s", qname), len(orders))

		if err := h.AddVariable(fmt.Sprintf("%s.%s.LoopSizes", group, qname), []string{rDim}, intsToFloat64(res.LoopSizes)); err != nil {
			return errs.New(errs.IOError, "container: define %s.%s.LoopSizes: %v", group, qname, err)
		}
		writes = append(writes, pending{fmt.Sprintf("%s.%s.LoopSizes", group, qname), intsToFloat64(res.LoopSizes)})

		if err := h.AddVariable(fmt.Sprintf("%s.%s.Moments.Orders", group, qname), []string{orderDim}, orders); err != nil {
			return errs.New(errs.IOError, "container: define %s.%s.Moments.Orders: %v", group, qname, err)
		}
		writes = append(writes, pending{fmt.Sprintf("%s.%s.Moments.Orders", group, qname), orders})

		for _, kind := range []consts.MomentKind{consts.MomentRaw, consts.MomentAbsolute, consts.MomentPositive, consts.MomentNegative} {
			table := make([]float64, len(orders)*len(res.LoopSizes))
			any := false
			for oi := range orders {
				for ri := range res.LoopSizes {
					v, ok := res.Dict.Moments.Value(kind, oi, ri)
					if ok {
						any = true
					}
					table[oi*len(res.LoopSizes)+ri] = v
				}
			}
			if !any {
				continue
			}
			varName := fmt.Sprintf("%s.%s.Moments.%s", group, qname, kind.String())
			if err := h.AddVariable(varName, []string{orderDim, rDim}, table); err != nil {
				return errs.New(errs.IOError, "container: define %s: %v", varName, err)
			}
			writes = append(writes, pending{varName, table})
		}

		for _, name := range res.Dict.HistNames1D() {
			hh, _ := res.Dict.Hist1D(name)
			binDim := dims.name(fmt.Sprintf("bins_%s_%s", qname, name), hh.NumBins())
			edgeDim := dims.name(fmt.Sprintf("edges_%s_%s", qname, name), hh.NumBins()+1)

			prefix := fmt.Sprintf("%s.%s.Histogram.%s", group, qname, name)
			edges := hh.BinEdges()
			counts := int64sToFloat64(hh.Counts())

			if err := h.AddVariable(prefix+".bin_edges", []string{edgeDim}, edges); err != nil {
				return errs.New(errs.IOError, "container: define %s.bin_edges: %v", prefix, err)
			}
			writes = append(writes, pending{prefix + ".bin_edges", edges})

			if err := h.AddVariable(prefix+".counts", []string{binDim, rDim}, counts); err != nil {
				return errs.New(errs.IOError, "container: define %s.counts: %v", prefix, err)
			}
			writes = append(writes, pending{prefix + ".counts", counts})

			if err := h.AddVariable(prefix+".vmin", []string{rDim}, hh.VMin()); err != nil {
				return errs.New(errs.IOError, "container: define %s.vmin: %v", prefix, err)
			}
			writes = append(writes, pending{prefix + ".vmin", hh.VMin()})

			if err := h.AddVariable(prefix+".vmax", []string{rDim}, hh.VMax()); err != nil {
				return errs.New(errs.IOError, "container: define %s.vmax: %v", prefix, err)
			}
			writes = append(writes, pending{prefix + ".vmax", hh.VMax()})

			if err := h.AddVariable(prefix+".Nsamples", []string{rDim}, int64sToFloat64(hh.NSamples())); err != nil {
				return errs.New(errs.IOError, "container: define %s.Nsamples: %v", prefix, err)
			}
			writes = append(writes, pending{prefix + ".Nsamples", int64sToFloat64(hh.NSamples())})
		}

		for _, name := range res.Dict.HistNames2D() {
			hh, _ := res.Dict.Hist2D(name)
			nx, ny, _ := hh.Shape()
			xDim := dims.name(fmt.Sprintf("binsx_%s_%s", qname, name), nx)
			yDim := dims.name(fmt.Sprintf("binsy_%s_%s", qname, name), ny)

			prefix := fmt.Sprintf("%s.%s.Histogram2D.%s", group, qname, name)
			counts := int64sToFloat64(hh.Counts())

			if err := h.AddVariable(prefix+".counts", []string{xDim, yDim, rDim}, counts); err != nil {
				return errs.New(errs.IOError, "container: define %s.counts: %v", prefix, err)
			}
			writes = append(writes, pending{prefix + ".counts", counts})

			if err := h.AddVariable(prefix+".Nsamples", []string{rDim}, int64sToFloat64(hh.NSamples())); err != nil {
				return errs.New(errs.IOError, "container: define %s.Nsamples: %v", prefix, err)
			}
			writes = append(writes, pending{prefix + ".Nsamples", int64sToFloat64(hh.NSamples())})
		}
	}

	if err := h.Define(); err != nil {
		return errs.New(errs.IOError, "container: define header: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.New(errs.IOError, "container: create %s: %v", path, err)
	}
	defer f.Close()

	cf, err := cdf.Create(f, h)
	if err != nil {
		return errs.New(errs.IOError, "container: create cdf writer for %s: %v", path, err)
	}

	for _, p := range writes {
		w := cf.Writer(p.name, nil)
		if _, err := w.Write(p.data); err != nil {
			return errs.New(errs.IOError, "container: write variable %s: %v", p.name, err)
		}
	}
	return nil
}

func intsToFloat64(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func int64sToFloat64(xs []int64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
