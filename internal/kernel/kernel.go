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

// Package kernel materialises the Fourier-space loop kernels of
// spec.md §4.B: a rectangle kernel (product of sincs) and an
// ellipse/disk kernel (normalised Bessel J1), both real-valued matrices
// the same shape as the transformed field, reused across slices.
package kernel

import "math"

// Sinc is sin(pi*x)/(pi*x), with Sinc(0) = 1 exactly (spec.md §8).
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// J1norm is 2*J1(pi*x)/(pi*x), with J1norm(0) = 1 exactly (spec.md §8).
// math.J1 is the standard library's Bessel function of the first kind,
// order 1 — no pack dependency wraps it more conveniently, so this is
// the one deliberate stdlib call in the numeric core (see DESIGN.md).
func J1norm(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return 2 * math.J1(px) / px
}

// Rectangle materialises g_hat[kx,ky] = A*sinc(kx*Rx/Lx)*sinc(ky*Ry/Ly),
// A = Rx*Ry, over the two-sided angular-wavenumber grids kx, ky (§3).
// kx, ky carry units of radians/length, so the sinc argument that makes
// this the exact Fourier transform of a centred Rx*Ry box (and that
// satisfies sinc(0)=1, §8) is kx*Rx/(2*pi), not the literal kx*Rx/Lx of
// spec.md's shorthand.
func Rectangle(rx, ry, lx, ly float64, kx, ky []float64) [][]float64 {
	a := rx * ry
	g := make([][]float64, len(kx))
	for i, kxi := range kx {
		row := make([]float64, len(ky))
		sxi := Sinc(kxi * rx / (2 * math.Pi))
		for j, kyj := range ky {
			row[j] = a * sxi * Sinc(kyj*ry/(2*math.Pi))
		}
		g[i] = row
	}
	return g
}

// Ellipse materialises g_hat = (pi*Dx*Dy/4)*J1norm(K),
// K = sqrt((kx*Dx/Lx)^2 + (ky*Dy/Ly)^2) — note kx, ky here are already
// angular wavenumbers (2*pi*n/L), so the /Lx, /Ly normalisation from
// spec.md folds into the same 2*pi convention used by Rectangle.
func Ellipse(dx, dy, lx, ly float64, kx, ky []float64) [][]float64 {
	amp := math.Pi * dx * dy / 4
	g := make([][]float64, len(kx))
	for i, kxi := range kx {
		row := make([]float64, len(ky))
		fx := kxi * dx / (2 * math.Pi)
		for j, kyj := range ky {
			fy := kyj * dy / (2 * math.Pi)
			k := math.Hypot(fx, fy)
			row[j] = amp * J1norm(k)
		}
		g[i] = row
	}
	return g
}
