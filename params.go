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

package circulation

import (
	"math"

	"github.com/jpolanco/gpcirculation/internal/grid"
)

// Params is the immutable domain-parameters record of spec.md §3. It is
// constructed once and shared read-only for the lifetime of a pipeline.
type Params struct {
	D int       // dimensionality, 2 or 3
	N []int     // per-axis resolution
	L []float64 // per-axis physical length

	C       float64 // sound speed
	Xi      float64 // healing length
	Epsilon float64 // velocity regularisation floor

	axes []grid.Axis
}

// NewParams validates and builds a Params record. All boundaries are
// periodic. Axis lengths are not checked for parity here; downstream, only
// the spectral resampler rejects an odd axis length (InvalidShape).
func NewParams(n []int, l []float64, c, xi, epsilon float64) (*Params, error) {
	if len(n) != len(l) || (len(n) != 2 && len(n) != 3) {
		return nil, newError(InvalidConfig, "N and L must have matching length 2 or 3, got %d and %d", len(n), len(l))
	}
	axes := make([]grid.Axis, len(n))
	for i := range n {
		if n[i] <= 0 || l[i] <= 0 {
			return nil, newError(InvalidConfig, "axis %d: N=%d L=%g must be positive", i, n[i], l[i])
		}
		axes[i] = grid.NewAxis(n[i], l[i])
	}
	return &Params{
		D:       len(n),
		N:       append([]int(nil), n...),
		L:       append([]float64(nil), l...),
		C:       c,
		Xi:      xi,
		Epsilon: epsilon,
		axes:    axes,
	}, nil
}

// Axis returns the periodic axis descriptor for dimension i.
func (p *Params) Axis(i int) grid.Axis {
	return p.axes[i]
}

// Kappa is the quantum of circulation kappa = 2*pi*xi*c*sqrt(2) (spec.md §3).
func (p *Params) Kappa() float64 {
	return 2 * math.Pi * p.Xi * p.C * math.Sqrt2
}

// Alpha is the momentum prefactor alpha = c*xi*sqrt(2) (spec.md §4.C).
func (p *Params) Alpha() float64 {
	return p.C * p.Xi * math.Sqrt2
}

// Dx returns the step of axis i.
func (p *Params) Dx(i int) float64 {
	return p.axes[i].Dx()
}

// GridSize returns the total number of cells prod(N).
func (p *Params) GridSize() int {
	n := 1
	for _, ni := range p.N {
		n *= ni
	}
	return n
}
