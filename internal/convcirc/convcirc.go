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

// Package convcirc implements the convolution-based circulation path of
// spec.md §4.F: spectral vorticity times a kernel matrix, inverse FFT to
// a real Γ field. It generalises to any kernel shape (rectangle, ellipse)
// at O(N^2 log N) per loop size, where internal/integralfield is O(1) but
// rectangle-only.
package convcirc

import "github.com/jpolanco/gpcirculation/internal/field"

// Circulation computes Γ = IFFT(i*(kx*v̂y - ky*v̂x) .* ghat) for a velocity
// field (vx, vy), both row-major Nx*Ny, using the FFT plans in pl and the
// Fourier-space kernel ghat (shape Nx x Ny, indexed [ix][iy], already
// matching pl's two-sided wavenumber layout — see internal/kernel).
func Circulation(vx, vy []float64, pl *field.Planner, ghat [][]float64) []float64 {
	nx, ny := pl.Nx(), pl.Ny()

	vxHat := toComplex(vx)
	vyHat := toComplex(vy)
	pl.Forward2D(vxHat)
	pl.Forward2D(vyHat)

	kx, ky := pl.Kx(), pl.Ky()
	omega := make([]complex128, nx*ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			i := ix*ny + iy
			curl := complex(0, 1) * (complex(kx[ix], 0)*vyHat[i] - complex(ky[iy], 0)*vxHat[i])
			omega[i] = curl * complex(ghat[ix][iy], 0)
		}
	}

	pl.Inverse2D(omega)

	gamma := make([]float64, nx*ny)
	for i, c := range omega {
		gamma[i] = real(c)
	}
	return gamma
}

func toComplex(x []float64) []complex128 {
	c := make([]complex128, len(x))
	for i, v := range x {
		c[i] = complex(v, 0)
	}
	return c
}
