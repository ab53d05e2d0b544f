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

package resample

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpolanco/gpcirculation/internal/field"
)

func TestResample2DIsIdentityWhenShapeUnchanged(t *testing.T) {
	src := []complex128{1, 2, 3, 4}
	dst, err := Resample2D(src, 2, 2, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, src, dst)

	dst[0] = 99
	assert.Equal(t, complex128(1), src[0])
}

func TestResample2DRejectsDownscale(t *testing.T) {
	_, err := Resample2D(make([]complex128, 16), 4, 4, 2, 2)
	assert.Error(t, err)
}

func TestResample2DRejectsNonPowerOfTwoRatio(t *testing.T) {
	_, err := Resample2D(make([]complex128, 16), 4, 4, 12, 4)
	assert.Error(t, err)
}

func TestResample2DPreservesPureMode(t *testing.T) {
	nx, ny := 16, 16
	mx, my := 3.0, -2.0

	psi := make([]complex128, nx*ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			phase := 2 * math.Pi * (mx*float64(ix)/float64(nx) + my*float64(iy)/float64(ny))
			psi[ix*ny+iy] = cmplx.Exp(complex(0, phase))
		}
	}

	pl := field.NewPlanner(nx, ny, 1, 1)
	pl.Forward2D(psi)

	nxOut, nyOut := 32, 32
	padded, err := Resample2D(psi, nx, ny, nxOut, nyOut)
	require.NoError(t, err)

	out := field.NewPlanner(nxOut, nyOut, 1, 1)
	out.Inverse2D(padded)

	for ix := 0; ix < nxOut; ix++ {
		for iy := 0; iy < nyOut; iy++ {
			phase := 2 * math.Pi * (mx*float64(ix)/float64(nxOut) + my*float64(iy)/float64(nyOut))
			want := cmplx.Exp(complex(0, phase))
			got := padded[ix*nyOut+iy]
			assert.InDelta(t, real(want), real(got), 1e-9)
			assert.InDelta(t, imag(want), imag(got), 1e-9)
		}
	}
}
