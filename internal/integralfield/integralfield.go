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

// Package integralfield builds the integral field I(U,w) of spec.md §4.E
// and evaluates rectangle circulation from it in O(1) per (point, loop
// size) after an O(N^2) preprocessing pass.
package integralfield

import "github.com/jpolanco/gpcirculation/internal/grid"

// Field holds U1, U2, w1, w2 for a 2D vector field (u,v) on an Nx-by-Ny
// periodic grid, all 0-indexed internally (axis wrap math stays
// 1-indexed per spec.md §4.A and is converted at the boundary).
type Field struct {
	Nx, Ny int
	Hx, Hy float64

	U1 []float64 // len Ny: mean of u along x at each y
	U2 []float64 // len Nx: mean of v along y at each x
	W1 []float64 // Nx*Ny, row-major (ix*Ny+iy): cumulative deviation of u along x
	W2 []float64 // Nx*Ny, row-major: cumulative deviation of v along y
}

func idx(nx, ny, ix, iy int) int { _ = nx; return ix*ny + iy }

// Build computes U1, U2, w1, w2 for vector field (u, v), both row-major
// Nx*Ny (index ix*Ny+iy), over steps (hx, hy).
func Build(u, v []float64, nx, ny int, hx, hy float64) *Field {
	f := &Field{Nx: nx, Ny: ny, Hx: hx, Hy: hy}

	f.U1 = make([]float64, ny)
	for iy := 0; iy < ny; iy++ {
		sum := 0.0
		for ix := 0; ix < nx; ix++ {
			sum += u[idx(nx, ny, ix, iy)]
		}
		f.U1[iy] = sum / float64(nx)
	}

	f.U2 = make([]float64, nx)
	for ix := 0; ix < nx; ix++ {
		sum := 0.0
		for iy := 0; iy < ny; iy++ {
			sum += v[idx(nx, ny, ix, iy)]
		}
		f.U2[ix] = sum / float64(ny)
	}

	f.W1 = make([]float64, nx*ny)
	for iy := 0; iy < ny; iy++ {
		acc := 0.0
		f.W1[idx(nx, ny, 0, iy)] = 0
		for ix := 1; ix < nx; ix++ {
			fPrev := u[idx(nx, ny, ix-1, iy)] - f.U1[iy]
			fCur := u[idx(nx, ny, ix, iy)] - f.U1[iy]
			acc += hx * (fPrev + fCur) / 2
			f.W1[idx(nx, ny, ix, iy)] = acc
		}
	}

	f.W2 = make([]float64, nx*ny)
	for ix := 0; ix < nx; ix++ {
		acc := 0.0
		f.W2[idx(nx, ny, ix, 0)] = 0
		for iy := 1; iy < ny; iy++ {
			fPrev := v[idx(nx, ny, ix, iy-1)] - f.U2[ix]
			fCur := v[idx(nx, ny, ix, iy)] - f.U2[ix]
			acc += hy * (fPrev + fCur) / 2
			f.W2[idx(nx, ny, ix, iy)] = acc
		}
	}

	return f
}

// RectangleCirculation evaluates Γ for the loop with 1-indexed origin
// (i,j) and integer size (rx,ry) per spec.md §4.E, using axisX/axisY to
// resolve wrap-around corners.
func (f *Field) RectangleCirculation(axisX, axisY grid.Axis, i, j, rx, ry int) float64 {
	iA, xA := axisX.Wrap(i)
	iB, xB := axisX.Wrap(i + rx)
	jA, yA := axisY.Wrap(j)
	jB, yB := axisY.Wrap(j + ry)

	w1 := func(ix, iy int) float64 { return f.W1[idx(f.Nx, f.Ny, ix-1, iy-1)] }
	w2 := func(ix, iy int) float64 { return f.W2[idx(f.Nx, f.Ny, ix-1, iy-1)] }

	ixYA := f.U1[jA-1]*(xB-xA) + w1(iB, jA) - w1(iA, jA)
	ixYB := f.U1[jB-1]*(xB-xA) + w1(iB, jB) - w1(iA, jB)
	iyXA := f.U2[iA-1]*(yB-yA) + w2(iA, jB) - w2(iA, jA)
	iyXB := f.U2[iB-1]*(yB-yA) + w2(iB, jB) - w2(iB, jA)

	return ixYA + iyXB - ixYB - iyXA
}

// RectangleCirculationField evaluates Γ at every grid point for a fixed
// loop size (rx, ry), returning a row-major Nx*Ny array (spec.md §4.H
// step 4). Rows are independent and safe to partition across goroutines
// by the caller (spec.md §5).
func (f *Field) RectangleCirculationField(axisX, axisY grid.Axis, rx, ry int) []float64 {
	out := make([]float64, f.Nx*f.Ny)
	for ix := 1; ix <= f.Nx; ix++ {
		for iy := 1; iy <= f.Ny; iy++ {
			out[idx(f.Nx, f.Ny, ix-1, iy-1)] = f.RectangleCirculation(axisX, axisY, ix, iy, rx, ry)
		}
	}
	return out
}
