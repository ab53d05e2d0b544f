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

// Package circulation orchestrates the end-to-end run of spec.md §4.H:
// load a slice, derive a vector field, compute circulation at every loop
// size, fold the results into a statistics dictionary, and repeat across
// every slice the domain offers before writing the finalised results.
package circulation

import (
	"context"
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/jpolanco/gpcirculation/internal/config"
	"github.com/jpolanco/gpcirculation/internal/container"
	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/jpolanco/gpcirculation/internal/convcirc"
	"github.com/jpolanco/gpcirculation/internal/errs"
	"github.com/jpolanco/gpcirculation/internal/field"
	"github.com/jpolanco/gpcirculation/internal/grid"
	"github.com/jpolanco/gpcirculation/internal/integralfield"
	"github.com/jpolanco/gpcirculation/internal/kernel"
	"github.com/jpolanco/gpcirculation/internal/resample"
	"github.com/jpolanco/gpcirculation/internal/source"
	"github.com/jpolanco/gpcirculation/internal/stats"
)

// Pipeline wires a validated Config to the domain Params record and the
// logger every stage reports progress through.
type Pipeline struct {
	params *Params
	cfg    *config.Config
	log    *logrus.Logger
}

// NewPipeline builds the Params record from cfg's domain block and
// returns a Pipeline ready to Run. log may be nil, in which case a
// logger with logrus's default text formatter is created.
func NewPipeline(cfg *config.Config, log *logrus.Logger) (*Pipeline, error) {
	if cfg.UseVelocity && !(len(cfg.Quantities) == 1 && cfg.Quantities[0] == consts.Velocity) {
		return nil, errs.New(errs.InvalidConfig, "pipeline: input.use_velocity requires analysis.quantities = [\"velocity\"] exactly, got %v", cfg.Quantities)
	}
	params, err := NewParams(cfg.N, cfg.L, cfg.C, cfg.Xi, cfg.Epsilon)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{params: params, cfg: cfg, log: log}, nil
}

func byteOrderOf(s string) binary.ByteOrder {
	if s == "big" {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func precisionOf(s string) source.Precision {
	if s == "float32" {
		return source.Float32
	}
	return source.Float64
}

// orientationsFor lists every slice orientation a domain of dimensionality
// d exposes: a single Orientation2D slice for D=2, or X/Y/Z for D=3
// (spec.md §6 "Slicing").
func orientationsFor(d int) []consts.Orientation {
	if d == 2 {
		return []consts.Orientation{consts.Orientation2D}
	}
	return []consts.Orientation{consts.OrientationX, consts.OrientationY, consts.OrientationZ}
}

// planeComponents reports which two physical axes span the plane cut by
// orientation o, in (row, column) order matching PlaneMap's (ix, iy).
func planeComponents(o consts.Orientation) (u, v consts.Orientation, err error) {
	switch o {
	case consts.Orientation2D:
		return consts.OrientationX, consts.OrientationY, nil
	case consts.OrientationZ:
		return consts.OrientationX, consts.OrientationY, nil
	case consts.OrientationY:
		return consts.OrientationX, consts.OrientationZ, nil
	case consts.OrientationX:
		return consts.OrientationY, consts.OrientationZ, nil
	default:
		return 0, 0, errs.New(errs.InvalidConfig, "pipeline: unknown orientation %v", o)
	}
}

func axisIndex(o consts.Orientation) int {
	switch o {
	case consts.OrientationX:
		return 0
	case consts.OrientationY:
		return 1
	case consts.OrientationZ:
		return 2
	default:
		return 0
	}
}

// lengthsForPlane returns the physical lengths of the two axes spanned by
// orientation o.
func (p *Pipeline) lengthsForPlane(o consts.Orientation) (lx, ly float64, err error) {
	u, v, err := planeComponents(o)
	if err != nil {
		return 0, 0, err
	}
	if p.params.D == 2 {
		return p.params.L[0], p.params.L[1], nil
	}
	return p.params.L[axisIndex(u)], p.params.L[axisIndex(v)], nil
}

func (p *Pipeline) dictConfigFor(q consts.Quantity) stats.DictConfig {
	dc := stats.DictConfig{
		Moments: stats.MomentsConfig{
			LoopSizes:  p.cfg.LoopSizes,
			PMax:       p.cfg.PMax,
			Fractional: p.cfg.FractionalOrders,
			Kinds:      p.cfg.MomentKinds,
		},
		Hist1D: []stats.Hist1DConfig{
			{Name: "Gamma", Min: p.cfg.HistMin, Max: p.cfg.HistMax, NBins: p.cfg.HistBins},
		},
	}
	if p.cfg.ConditionalOnDissipation {
		dc.Hist2D = []stats.Hist2DConfig{
			{
				Name: "GammaDissipation",
				MinX: p.cfg.HistMin, MaxX: p.cfg.HistMax, NX: p.cfg.HistBins,
				MinY: p.cfg.DissipationMin, MaxY: p.cfg.DissipationMax, NY: p.cfg.DissipationBins,
			},
		}
	}
	return dc
}

// loadPsiSlice reads the ψ real/imaginary pair for the given orientation,
// slice index and timestep.
func (p *Pipeline) loadPsiSlice(o consts.Orientation, idx int) (*field.Slice2D, error) {
	reaName, imaName := source.PsiFilenames(p.cfg.Timestep)
	pm, err := source.NewPlaneMap(p.params.D, p.params.N, o, idx)
	if err != nil {
		return nil, err
	}
	prec := precisionOf(p.cfg.Precision)
	order := byteOrderOf(p.cfg.ByteOrder)

	rea, reaFile, err := source.OpenFile(filepath.Join(p.cfg.InputDir, reaName), prec, order, p.params.GridSize())
	if err != nil {
		return nil, err
	}
	defer reaFile.Close()
	ima, imaFile, err := source.OpenFile(filepath.Join(p.cfg.InputDir, imaName), prec, order, p.params.GridSize())
	if err != nil {
		return nil, err
	}
	defer imaFile.Close()

	return source.LoadComplexSlice(rea, ima, pm)
}

// loadVelocitySlice reads the precomputed (vx, vy) components for
// orientation o, slice idx, in the plane's (u, v) axis order.
func (p *Pipeline) loadVelocitySlice(o consts.Orientation, idx int, kind source.VelocityKind) (vx, vy []float64, err error) {
	u, v, err := planeComponents(o)
	if err != nil {
		return nil, nil, err
	}
	pm, err := source.NewPlaneMap(p.params.D, p.params.N, o, idx)
	if err != nil {
		return nil, nil, err
	}
	prec := precisionOf(p.cfg.Precision)
	order := byteOrderOf(p.cfg.ByteOrder)

	load := func(axis consts.Orientation) ([]float64, error) {
		name, err := source.VelocityFilename(kind, axis, p.cfg.Timestep)
		if err != nil {
			return nil, err
		}
		bs, f, err := source.OpenFile(filepath.Join(p.cfg.InputDir, name), prec, order, p.params.GridSize())
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return source.LoadScalarSlice(bs, pm)
	}

	vx, err = load(u)
	if err != nil {
		return nil, nil, err
	}
	vy, err = load(v)
	if err != nil {
		return nil, nil, err
	}
	return vx, vy, nil
}

// loadDissipationSlice reads the optional conditioning field for
// orientation o, slice idx.
func (p *Pipeline) loadDissipationSlice(o consts.Orientation, idx int) ([]float64, error) {
	pm, err := source.NewPlaneMap(p.params.D, p.params.N, o, idx)
	if err != nil {
		return nil, err
	}
	prec := precisionOf(p.cfg.Precision)
	order := byteOrderOf(p.cfg.ByteOrder)
	bs, f, err := source.OpenFile(p.cfg.DissipationFile, prec, order, p.params.GridSize())
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return source.LoadScalarSlice(bs, pm)
}

// vectorFieldFor derives the (u, v) vector field a quantity names from a
// loaded density/momentum pair (spec.md §4.C).
func vectorFieldFor(q consts.Quantity, rho, px, py []float64, epsilon float64) (u, v []float64, err error) {
	switch q {
	case consts.Momentum:
		return px, py, nil
	case consts.RegVelocity:
		return field.RegularisedVelocity(px, rho), field.RegularisedVelocity(py, rho), nil
	case consts.Velocity:
		vx, degX := field.Velocity(px, rho, epsilon)
		vy, degY := field.Velocity(py, rho, epsilon)
		if epsilon == 0 && (len(degX) > 0 || len(degY) > 0) {
			return nil, nil, errs.New(errs.NumericDomain, "pipeline: velocity undefined at %d/%d degenerate cells with epsilon=0", len(degX), len(degY))
		}
		return vx, vy, nil
	default:
		return nil, nil, errs.New(errs.InvalidConfig, "pipeline: unknown quantity %v", q)
	}
}

// quantityAccum holds the running statistics for one quantity across every
// slice and orientation processed so far.
type quantityAccum struct {
	quantity consts.Quantity
	master   *stats.Dict
}

// processSlice computes circulation for every configured loop size on one
// (u, v) vector field and folds the samples into dict via a threaded pass
// (spec.md §5 "work is partitioned across threads by grid point").
func (p *Pipeline) processSlice(ctx context.Context, q consts.Quantity, u, v []float64, nx, ny int, lx, ly float64, diss []float64, dict *stats.Dict) error {
	hx, hy := lx/float64(nx), ly/float64(ny)
	axisX, axisY := grid.NewAxis(nx, lx), grid.NewAxis(ny, ly)

	var integ *integralfield.Field
	var conv struct {
		planner *field.Planner
		kernels map[int][][]float64
	}

	useConvolution := p.cfg.LoopShape == consts.Ellipse || p.cfg.ForceConvolution
	if useConvolution {
		conv.planner = field.NewPlanner(nx, ny, lx, ly)
		conv.kernels = make(map[int][][]float64, len(p.cfg.LoopSizes))
		kx, ky := conv.planner.Kx(), conv.planner.Ky()
		for _, r := range p.cfg.LoopSizes {
			if p.cfg.LoopShape == consts.Ellipse {
				conv.kernels[r] = kernel.Ellipse(hx*float64(r), hy*float64(r), lx, ly, kx, ky)
			} else {
				conv.kernels[r] = kernel.Rectangle(hx*float64(r), hy*float64(r), lx, ly, kx, ky)
			}
		}
	} else {
		integ = integralfield.Build(u, v, nx, ny, hx, hy)
	}

	// The circulation field at each loop size is computed once, up front:
	// spec.md §5 partitions the threaded *stats update* across grid points,
	// not the field computation itself.
	gammaFields := make([][]float64, len(p.cfg.LoopSizes))
	for rIdx, r := range p.cfg.LoopSizes {
		if useConvolution {
			gammaFields[rIdx] = convcirc.Circulation(u, v, conv.planner, conv.kernels[r])
		} else {
			gammaFields[rIdx] = integ.RectangleCirculationField(axisX, axisY, r, r)
		}
	}

	engine := stats.NewEngine(p.dictConfigFor(q), p.cfg.Threads)
	result, err := engine.Run(ctx, func(_ context.Context, worker int, shard *stats.Dict) error {
		lo, hi := partitionBounds(nx, p.cfg.Threads, worker)
		rowLen := hi - lo
		if rowLen <= 0 {
			return nil
		}
		for rIdx := range p.cfg.LoopSizes {
			gammaField := gammaFields[rIdx]
			gammaRows := make([]float64, 0, rowLen*ny)
			var dissRows []float64
			if diss != nil {
				dissRows = make([]float64, 0, rowLen*ny)
			}
			for ix := lo; ix < hi; ix++ {
				gammaRows = append(gammaRows, gammaField[ix*ny:(ix+1)*ny]...)
				if diss != nil {
					dissRows = append(dissRows, diss[ix*ny:(ix+1)*ny]...)
				}
			}
			if err := shard.Moments.Update(gammaRows, rIdx); err != nil {
				return err
			}
			if h, ok := shard.Hist1D("Gamma"); ok {
				if err := h.Update(gammaRows, rIdx); err != nil {
					return err
				}
			}
			if diss != nil {
				if h, ok := shard.Hist2D("GammaDissipation"); ok {
					if err := h.Update(gammaRows, dissRows, rIdx); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return dict.MergeFrom(result)
}

// partitionBounds splits [0, n) into numWorkers contiguous, roughly equal
// chunks and returns worker i's half-open bounds.
func partitionBounds(n, numWorkers, i int) (lo, hi int) {
	base := n / numWorkers
	rem := n % numWorkers
	lo = i*base + min(i, rem)
	hi = lo + base
	if i < rem {
		hi++
	}
	return lo, hi
}

// Run executes the full pass: every orientation, every slice index up to
// MaxSlices (0 = unlimited), for every configured quantity, then writes
// the finalised results (spec.md §4.H).
func (p *Pipeline) Run(ctx context.Context) error {
	accums := make([]*quantityAccum, len(p.cfg.Quantities))
	for i, q := range p.cfg.Quantities {
		accums[i] = &quantityAccum{quantity: q, master: stats.NewDict(p.dictConfigFor(q))}
	}

	for _, o := range orientationsFor(p.params.D) {
		n, err := source.NumSlices(p.params.D, p.params.N, o)
		if err != nil {
			return err
		}
		if p.cfg.MaxSlices > 0 && n > p.cfg.MaxSlices {
			n = p.cfg.MaxSlices
		}
		for idx := 0; idx < n; idx++ {
			if err := p.runSlice(ctx, o, idx, accums); err != nil {
				return err
			}
			p.log.WithFields(logrus.Fields{"orientation": o, "slice": idx}).Debug("slice processed")
		}
	}

	results := make([]container.QuantityResult, len(accums))
	for i, a := range accums {
		if err := a.master.Finalise(); err != nil {
			return err
		}
		results[i] = container.QuantityResult{Quantity: a.quantity, LoopSizes: p.cfg.LoopSizes, Dict: a.master}
	}

	params := container.ScalarParams{
		D: p.params.D, N: p.params.N, L: p.params.L,
		C: p.params.C, Xi: p.params.Xi, Kappa: p.params.Kappa(),
	}
	group := p.cfg.OutputGroup
	if group == "" {
		group = fmt.Sprintf("%v", p.cfg.AnalysisKind)
	}
	return container.Write(p.cfg.OutputPath, group, params, results)
}

func (p *Pipeline) runSlice(ctx context.Context, o consts.Orientation, idx int, accums []*quantityAccum) error {
	lx, ly, err := p.lengthsForPlane(o)
	if err != nil {
		return err
	}

	var nx, ny int
	var rho, px, py []float64
	var diss []float64

	if p.cfg.DissipationFile != "" {
		diss, err = p.loadDissipationSlice(o, idx)
		if err != nil {
			return err
		}
	}

	if p.cfg.UseVelocity {
		kind := source.VelocityIncompressible
		if p.cfg.VelocityKind == "compressible" {
			kind = source.VelocityCompressible
		}
		vx, vy, err := p.loadVelocitySlice(o, idx, kind)
		if err != nil {
			return err
		}
		pm, err := source.NewPlaneMap(p.params.D, p.params.N, o, idx)
		if err != nil {
			return err
		}
		nx, ny = pm.Nx, pm.Ny
		if p.cfg.ResampleFactor > 1 {
			nxOut, nyOut := nx*p.cfg.ResampleFactor, ny*p.cfg.ResampleFactor
			if vx, err = resampleScalarField(vx, nx, ny, nxOut, nyOut); err != nil {
				return err
			}
			if vy, err = resampleScalarField(vy, nx, ny, nxOut, nyOut); err != nil {
				return err
			}
			if diss != nil {
				if diss, err = resampleScalarField(diss, nx, ny, nxOut, nyOut); err != nil {
					return err
				}
			}
			nx, ny = nxOut, nyOut
		}
		dict := accums[0].master
		if err := p.processSlice(ctx, accums[0].quantity, vx, vy, nx, ny, lx, ly, diss, dict); err != nil {
			return err
		}
		return nil
	}

	slice, err := p.loadPsiSlice(o, idx)
	if err != nil {
		return err
	}
	nx, ny = slice.Nx, slice.Ny
	if p.cfg.ResampleFactor > 1 {
		nxOut, nyOut := nx*p.cfg.ResampleFactor, ny*p.cfg.ResampleFactor
		field.NewPlanner(nx, ny, lx, ly).Forward2D(slice.Psi)
		padded, err := resample.Resample2D(slice.Psi, nx, ny, nxOut, nyOut)
		if err != nil {
			return err
		}
		planner := field.NewPlanner(nxOut, nyOut, lx, ly)
		planner.Inverse2D(padded)
		slice = &field.Slice2D{Nx: nxOut, Ny: nyOut, Psi: padded}
		if diss != nil {
			if diss, err = resampleScalarField(diss, nx, ny, nxOut, nyOut); err != nil {
				return err
			}
		}
		nx, ny = nxOut, nyOut
	}

	rho = field.Density(slice)
	planner := field.NewPlanner(nx, ny, lx, ly)
	px, py = field.Momentum(slice, planner, p.params.Alpha())

	for _, a := range accums {
		u, v, err := vectorFieldFor(a.quantity, rho, px, py, p.params.Epsilon)
		if err != nil {
			return err
		}
		if err := p.processSlice(ctx, a.quantity, u, v, nx, ny, lx, ly, diss, a.master); err != nil {
			return err
		}
	}
	return nil
}

// resampleScalarField upscales a single real-valued plane via the same
// zero-padding spectral resampler ψ uses: promote to complex, forward
// transform, pad, inverse transform, take the real part. Used for
// precomputed velocity components and the conditioning dissipation field,
// none of which carry a physical wavenumber dependence of their own.
func resampleScalarField(x []float64, nxIn, nyIn, nxOut, nyOut int) ([]float64, error) {
	c := make([]complex128, len(x))
	for i, val := range x {
		c[i] = complex(val, 0)
	}
	in := field.NewPlanner(nxIn, nyIn, 1, 1)
	in.Forward2D(c)
	padded, err := resample.Resample2D(c, nxIn, nyIn, nxOut, nyOut)
	if err != nil {
		return nil, err
	}
	out := field.NewPlanner(nxOut, nyOut, 1, 1)
	out.Inverse2D(padded)
	vals := make([]float64, len(padded))
	for i, cv := range padded {
		vals[i] = real(cv)
	}
	return vals, nil
}
