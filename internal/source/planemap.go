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
	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/jpolanco/gpcirculation/internal/errs"
)

// PlaneMap translates 2D plane coordinates (ix, iy), the row-major
// coordinates of the working slice, into the flat column-major cell
// index of the full D-dimensional on-disk array (spec.md §9 "Array
// layout", §6 "Slicing"). It is built once per (orientation, index)
// pair and reused across every field loaded for that slice.
type PlaneMap struct {
	Nx, Ny     int
	TotalCells int
	globalIdx  func(ix, iy int) int
}

// Global returns the flat column-major index of plane cell (ix, iy).
func (pm *PlaneMap) Global(ix, iy int) int { return pm.globalIdx(ix, iy) }

// NumSlices reports how many slice indices are available for orientation
// o over a domain of dimensionality d with per-axis resolution n.
func NumSlices(d int, n []int, o consts.Orientation) (int, error) {
	if d == 2 {
		if o != consts.Orientation2D {
			return 0, errs.New(errs.InvalidConfig, "source: 2D domain requires Orientation2D, got %v", o)
		}
		return 1, nil
	}
	if d != 3 {
		return 0, errs.New(errs.InvalidConfig, "source: unsupported dimensionality %d", d)
	}
	switch o {
	case consts.OrientationX:
		return n[0], nil
	case consts.OrientationY:
		return n[1], nil
	case consts.OrientationZ:
		return n[2], nil
	default:
		return 0, errs.New(errs.InvalidConfig, "source: 3D domain requires an X/Y/Z orientation, got %v", o)
	}
}

// NewPlaneMap builds the coordinate map for slicing a d-dimensional array
// of shape n (column-major on disk) at orientation o, slice index idx
// (spec.md §6 "Slicing": "a slice selector is an integer/colon tuple of
// arity D; integers fix an axis, colons keep it").
func NewPlaneMap(d int, n []int, o consts.Orientation, idx int) (*PlaneMap, error) {
	total, err := NumSlices(d, n, o)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= total {
		return nil, errs.New(errs.InvalidConfig, "source: slice index %d out of range [0,%d) for orientation %v", idx, total, o)
	}

	totalCells := 1
	for _, ni := range n {
		totalCells *= ni
	}

	if d == 2 {
		n1, n2 := n[0], n[1]
		return &PlaneMap{
			Nx: n1, Ny: n2, TotalCells: totalCells,
			globalIdx: func(ix, iy int) int { return ix + n1*iy },
		}, nil
	}

	n1, n2, n3 := n[0], n[1], n[2]
	switch o {
	case consts.OrientationZ:
		return &PlaneMap{
			Nx: n1, Ny: n2, TotalCells: totalCells,
			globalIdx: func(ix, iy int) int { return ix + n1*iy + n1*n2*idx },
		}, nil
	case consts.OrientationY:
		return &PlaneMap{
			Nx: n1, Ny: n3, TotalCells: totalCells,
			globalIdx: func(ix, iy int) int { return ix + n1*idx + n1*n2*iy },
		}, nil
	case consts.OrientationX:
		return &PlaneMap{
			Nx: n2, Ny: n3, TotalCells: totalCells,
			globalIdx: func(ix, iy int) int { return idx + n1*ix + n1*n2*iy },
		}, nil
	default:
		return nil, errs.New(errs.InvalidConfig, "source: 3D domain requires an X/Y/Z orientation, got %v", o)
	}
}
