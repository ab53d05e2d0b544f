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

package source

import (
	"github.com/jpolanco/gpcirculation/internal/errs"
	"github.com/jpolanco/gpcirculation/internal/field"
)

// LoadComplexSlice reads the (ix,iy) plane out of rea/ima, transposing the
// on-disk column-major layout into the row-major Slice2D psi[ix*Ny+iy]
// (spec.md §3 "produced from two byte streams... each interpreted as
// a row-major (or column-major) array", §9 "a port to a row-major
// environment must either transpose on load").
func LoadComplexSlice(rea, ima *ByteSource, pm *PlaneMap) (*field.Slice2D, error) {
	if rea.Len() != pm.TotalCells || ima.Len() != pm.TotalCells {
		return nil, errs.New(errs.DimensionMismatch, "source: psi sources (%d,%d) do not match domain size %d", rea.Len(), ima.Len(), pm.TotalCells)
	}
	if rea.Len() != ima.Len() {
		return nil, errs.New(errs.IOError, "source: ReaPsi/ImaPsi length mismatch %d != %d", rea.Len(), ima.Len())
	}

	psi := make([]complex128, pm.Nx*pm.Ny)
	for ix := 0; ix < pm.Nx; ix++ {
		for iy := 0; iy < pm.Ny; iy++ {
			gi := pm.Global(ix, iy)
			re, err := rea.At(gi)
			if err != nil {
				return nil, err
			}
			im, err := ima.At(gi)
			if err != nil {
				return nil, err
			}
			psi[ix*pm.Ny+iy] = complex(re, im)
		}
	}
	return &field.Slice2D{Nx: pm.Nx, Ny: pm.Ny, Psi: psi}, nil
}

// LoadScalarSlice reads one real-valued plane out of bs, used for
// precomputed velocity components and the optional dissipation field
// (spec.md §6).
func LoadScalarSlice(bs *ByteSource, pm *PlaneMap) ([]float64, error) {
	if bs.Len() != pm.TotalCells {
		return nil, errs.New(errs.DimensionMismatch, "source: scalar source length %d does not match domain size %d", bs.Len(), pm.TotalCells)
	}
	out := make([]float64, pm.Nx*pm.Ny)
	for ix := 0; ix < pm.Nx; ix++ {
		for iy := 0; iy < pm.Ny; iy++ {
			v, err := bs.At(pm.Global(ix, iy))
			if err != nil {
				return nil, err
			}
			out[ix*pm.Ny+iy] = v
		}
	}
	return out, nil
}
