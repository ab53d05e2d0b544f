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

package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpolanco/gpcirculation/internal/grid"
)

func TestSincZero(t *testing.T) {
	assert.Equal(t, 1.0, Sinc(0))
}

func TestJ1normZero(t *testing.T) {
	assert.Equal(t, 1.0, J1norm(0))
}

func TestSincVanishesAtIntegers(t *testing.T) {
	assert.InDelta(t, 0, Sinc(1), 1e-12)
	assert.InDelta(t, 0, Sinc(2), 1e-12)
	assert.InDelta(t, 0, Sinc(-3), 1e-12)
}

func TestRectangleZeroSizeIsZeroEverywhere(t *testing.T) {
	n := 8
	l := 2 * math.Pi
	kx := grid.TwoSidedWavenumbers(n, l)
	ky := grid.TwoSidedWavenumbers(n, l)

	g := Rectangle(0, 0, l, l, kx, ky)
	for i := range g {
		for j := range g[i] {
			assert.InDelta(t, 0, g[i][j], 1e-12)
		}
	}
}

func TestRectangleFullPeriodIsDeltaAtZeroFrequency(t *testing.T) {
	n := 8
	l := 2 * math.Pi
	kx := grid.TwoSidedWavenumbers(n, l)
	ky := grid.TwoSidedWavenumbers(n, l)

	g := Rectangle(l, l, l, l, kx, ky)
	for i := range g {
		for j := range g[i] {
			if i == 0 && j == 0 {
				assert.InDelta(t, l*l, g[i][j], 1e-9)
				continue
			}
			assert.InDelta(t, 0, g[i][j], 1e-9)
		}
	}
}
