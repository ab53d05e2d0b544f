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

// Package field derives density, momentum and velocity from a complex
// wave-function slice (spec.md §4.C). Momentum is obtained by a
// dimension-wise Fourier differentiation: FFT along the axis, multiply
// by i*k, inverse FFT — the same per-axis-plan structure the teacher
// used for its per-granule transform pipeline (internal/frame.go),
// generalised from MPEG subbands to a periodic physical axis.
package field

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Slice2D is a row-major Nx*Ny complex wave-function slice. Row-major was
// chosen for the Go port (spec.md §9 "Array layout" leaves this to the
// implementer); the loader in internal/source transposes on read from the
// column-major on-disk layout spec.md §9 documents.
type Slice2D struct {
	Nx, Ny int
	Psi    []complex128 // index = ix*Ny + iy
}

func (s *Slice2D) idx(ix, iy int) int { return ix*s.Ny + iy }

// Planner owns the two per-axis FFT plans for an Nx-by-Ny slice. Plans are
// built once per slice shape and reused for every transform of that slice;
// the pipeline uses each Planner from a single goroutine.
type Planner struct {
	fx, fy *fourier.CmplxFFT
	kx, ky []float64 // two-sided angular wavenumbers
}

// NewPlanner builds the FFT plans and wavenumber sequences for a slice of
// shape (Nx, Ny) over physical lengths (Lx, Ly).
func NewPlanner(nx, ny int, lx, ly float64) *Planner {
	return &Planner{
		fx: fourier.NewCmplxFFT(nx),
		fy: fourier.NewCmplxFFT(ny),
		kx: twoSidedWavenumbers(nx, lx),
		ky: twoSidedWavenumbers(ny, ly),
	}
}

// Nx, Ny report the plan's axis lengths.
func (pl *Planner) Nx() int { return len(pl.kx) }
func (pl *Planner) Ny() int { return len(pl.ky) }

// Kx, Ky return the two-sided angular wavenumber sequences the plan was
// built with.
func (pl *Planner) Kx() []float64 { return pl.kx }
func (pl *Planner) Ky() []float64 { return pl.ky }

// Forward2D applies a full 2D complex FFT to a row-major Nx*Ny grid
// in-place: a 1D FFT along x for every y, then along y for every x,
// matching the axis-at-a-time structure spec.md §4.F assumes.
func (pl *Planner) Forward2D(grid []complex128) {
	pl.transform2D(grid, true)
}

// Inverse2D applies the full 2D inverse complex FFT in-place, normalised
// by 1/(Nx*Ny) so that Inverse2D(Forward2D(g)) returns g.
func (pl *Planner) Inverse2D(grid []complex128) {
	pl.transform2D(grid, false)
	scale := complex(1/float64(len(pl.kx)*len(pl.ky)), 0)
	for i := range grid {
		grid[i] *= scale
	}
}

func (pl *Planner) transform2D(g []complex128, forward bool) {
	nx, ny := len(pl.kx), len(pl.ky)
	col := make([]complex128, nx)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			col[ix] = g[ix*ny+iy]
		}
		if forward {
			pl.fx.Coefficients(col, col)
		} else {
			pl.fx.Sequence(col, col)
		}
		for ix := 0; ix < nx; ix++ {
			g[ix*ny+iy] = col[ix]
		}
	}
	row := make([]complex128, ny)
	for ix := 0; ix < nx; ix++ {
		base := ix * ny
		copy(row, g[base:base+ny])
		if forward {
			pl.fy.Coefficients(row, row)
		} else {
			pl.fy.Sequence(row, row)
		}
		copy(g[base:base+ny], row)
	}
}

func twoSidedWavenumbers(n int, l float64) []float64 {
	k := make([]float64, n)
	base := 2 * math.Pi / l
	half := n / 2
	for i := 0; i < half; i++ {
		k[i] = float64(i) * base
	}
	for i := half; i < n; i++ {
		k[i] = float64(i-n) * base
	}
	return k
}

// Density computes rho[i] = |psi[i]|^2 elementwise (spec.md §3).
func Density(s *Slice2D) []float64 {
	rho := make([]float64, len(s.Psi))
	for i, p := range s.Psi {
		rho[i] = real(p)*real(p) + imag(p)*imag(p)
	}
	return rho
}

// Momentum derives p_x and p_y via dimension-wise Fourier differentiation
// (spec.md §4.C): p_n = alpha * Im(conj(psi) * d(psi)/dx_n),
// alpha = c*xi*sqrt(2).
func Momentum(s *Slice2D, pl *Planner, alpha float64) (px, py []float64) {
	px = derivativeAxisX(s, pl, alpha)
	py = derivativeAxisY(s, pl, alpha)
	return
}

func derivativeAxisX(s *Slice2D, pl *Planner, alpha float64) []float64 {
	p := make([]float64, len(s.Psi))
	col := make([]complex128, s.Nx)
	coeff := make([]complex128, s.Nx)
	for iy := 0; iy < s.Ny; iy++ {
		for ix := 0; ix < s.Nx; ix++ {
			col[ix] = s.Psi[s.idx(ix, iy)]
		}
		pl.fx.Coefficients(coeff, col)
		for ix := range coeff {
			coeff[ix] *= complex(0, pl.kx[ix]/float64(s.Nx))
		}
		pl.fx.Sequence(col, coeff)
		for ix := 0; ix < s.Nx; ix++ {
			psi := s.Psi[s.idx(ix, iy)]
			p[s.idx(ix, iy)] = alpha * imag(cmplx.Conj(psi)*col[ix])
		}
	}
	return p
}

func derivativeAxisY(s *Slice2D, pl *Planner, alpha float64) []float64 {
	p := make([]float64, len(s.Psi))
	row := make([]complex128, s.Ny)
	coeff := make([]complex128, s.Ny)
	for ix := 0; ix < s.Nx; ix++ {
		base := s.idx(ix, 0)
		copy(row, s.Psi[base:base+s.Ny])
		pl.fy.Coefficients(coeff, row)
		for iy := range coeff {
			coeff[iy] *= complex(0, pl.ky[iy]/float64(s.Ny))
		}
		pl.fy.Sequence(row, coeff)
		for iy := 0; iy < s.Ny; iy++ {
			psi := s.Psi[base+iy]
			p[base+iy] = alpha * imag(cmplx.Conj(psi)*row[iy])
		}
	}
	return p
}

// RegularisedVelocity computes v_n = p_n / sqrt(rho), a single reciprocal
// square root per cell (spec.md §4.C).
func RegularisedVelocity(p, rho []float64) []float64 {
	v := make([]float64, len(p))
	for i := range p {
		v[i] = p[i] / math.Sqrt(rho[i])
	}
	return v
}

// Velocity computes v_n = p_n / (rho + epsilon). If epsilon is zero and a
// cell's density is exactly zero, NumericDomain should be raised by the
// caller (spec.md §9 open question, resolved: reject rather than
// propagate NaN) — Velocity itself reports which cells are degenerate.
func Velocity(p, rho []float64, epsilon float64) (v []float64, degenerate []int) {
	v = make([]float64, len(p))
	for i := range p {
		d := rho[i] + epsilon
		if d == 0 {
			degenerate = append(degenerate, i)
			v[i] = math.Inf(int(math.Copysign(1, p[i])))
			continue
		}
		v[i] = p[i] / d
	}
	return v, degenerate
}

// PhaseWinding counts the net 2*pi phase winding of psi around the
// rectangle with corners (ix0,iy0)-(ix0+r,iy0+r) (SPEC_FULL.md "Vortex-
// count diagnostic"). It walks the four sides of the loop summing the
// wrapped phase difference between adjacent samples.
func PhaseWinding(s *Slice2D, ix0, iy0, r int) int {
	phaseAt := func(ix, iy int) float64 {
		ix = ((ix % s.Nx) + s.Nx) % s.Nx
		iy = ((iy % s.Ny) + s.Ny) % s.Ny
		return cmplx.Phase(s.Psi[s.idx(ix, iy)])
	}
	total := 0.0
	prev := phaseAt(ix0, iy0)
	step := func(ix, iy int) {
		cur := phaseAt(ix, iy)
		d := cur - prev
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d < -math.Pi {
			d += 2 * math.Pi
		}
		total += d
		prev = cur
	}
	for i := 1; i <= r; i++ {
		step(ix0+i, iy0)
	}
	for i := 1; i <= r; i++ {
		step(ix0+r, iy0+i)
	}
	for i := r - 1; i >= 0; i-- {
		step(ix0+i, iy0+r)
	}
	for i := r - 1; i >= 0; i-- {
		step(ix0, iy0+i)
	}
	return int(math.Round(total / (2 * math.Pi)))
}
