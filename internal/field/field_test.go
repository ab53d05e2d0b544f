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

package field

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDensity(t *testing.T) {
	s := &Slice2D{Nx: 1, Ny: 2, Psi: []complex128{complex(3, 4), complex(0, -2)}}
	rho := Density(s)
	assert.InDelta(t, 25, rho[0], 1e-12)
	assert.InDelta(t, 4, rho[1], 1e-12)
}

// A single Fourier mode in x has an exactly known derivative, so its
// momentum should match alpha*kx[m]*rho pointwise.
func TestMomentumPlaneWaveMatchesAnalyticDerivative(t *testing.T) {
	nx, ny := 16, 8
	lx, ly := 2*math.Pi, 2*math.Pi
	m := 3

	psi := make([]complex128, nx*ny)
	for ix := 0; ix < nx; ix++ {
		phase := 2 * math.Pi * float64(m*ix) / float64(nx)
		val := cmplx.Exp(complex(0, phase))
		for iy := 0; iy < ny; iy++ {
			psi[ix*ny+iy] = val
		}
	}
	s := &Slice2D{Nx: nx, Ny: ny, Psi: psi}
	pl := NewPlanner(nx, ny, lx, ly)
	alpha := 2.0

	px, py := Momentum(s, pl, alpha)

	want := alpha * pl.Kx()[m]
	for _, p := range px {
		assert.InDelta(t, want, p, 1e-9)
	}
	for _, p := range py {
		assert.InDelta(t, 0, p, 1e-9)
	}
}

func TestMomentumZeroForConstantField(t *testing.T) {
	nx, ny := 8, 8
	psi := make([]complex128, nx*ny)
	for i := range psi {
		psi[i] = complex(1, 0)
	}
	s := &Slice2D{Nx: nx, Ny: ny, Psi: psi}
	pl := NewPlanner(nx, ny, 2*math.Pi, 2*math.Pi)

	px, py := Momentum(s, pl, 1.0)
	for i := range px {
		assert.InDelta(t, 0, px[i], 1e-9)
		assert.InDelta(t, 0, py[i], 1e-9)
	}
}

func TestRegularisedVelocity(t *testing.T) {
	p := []float64{5, -3}
	rho := []float64{4, 9}
	v := RegularisedVelocity(p, rho)
	assert.InDelta(t, 2.5, v[0], 1e-12)
	assert.InDelta(t, -1, v[1], 1e-12)
}

func TestVelocityFlagsDegenerateCells(t *testing.T) {
	p := []float64{1, -1, 0}
	rho := []float64{0, 0, 0}
	v, degenerate := Velocity(p, rho, 0)
	assert.ElementsMatch(t, []int{0, 1, 2}, degenerate)
	assert.True(t, math.IsInf(v[0], 1))
	assert.True(t, math.IsInf(v[1], -1))
	assert.True(t, math.IsInf(v[2], 1))
}

func TestVelocityNoDegenerateCellsWithPositiveEpsilon(t *testing.T) {
	p := []float64{1, 2}
	rho := []float64{0, 3}
	v, degenerate := Velocity(p, rho, 1)
	assert.Empty(t, degenerate)
	assert.InDelta(t, 1, v[0], 1e-12)
	assert.InDelta(t, 0.5, v[1], 1e-12)
}

// PhaseWinding should recover the +1 winding number of a single lattice
// vortex when the loop encloses its core, and 0 when it doesn't.
func TestPhaseWindingDetectsSingleVortex(t *testing.T) {
	n := 32
	cx, cy := 16.0, 16.0

	psi := make([]complex128, n*n)
	for ix := 0; ix < n; ix++ {
		for iy := 0; iy < n; iy++ {
			theta := math.Atan2(float64(iy)-cy, float64(ix)-cx)
			psi[ix*n+iy] = cmplx.Exp(complex(0, theta))
		}
	}
	s := &Slice2D{Nx: n, Ny: n, Psi: psi}

	assert.Equal(t, 1, PhaseWinding(s, 12, 12, 8))
	assert.Equal(t, 0, PhaseWinding(s, 0, 0, 4))
}
