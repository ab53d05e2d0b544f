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
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpolanco/gpcirculation/internal/config"
	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/jpolanco/gpcirculation/internal/stats"
)

func TestOrientationsFor(t *testing.T) {
	assert.Equal(t, []consts.Orientation{consts.Orientation2D}, orientationsFor(2))
	assert.Equal(t, []consts.Orientation{consts.OrientationX, consts.OrientationY, consts.OrientationZ}, orientationsFor(3))
}

func TestPlaneComponents(t *testing.T) {
	cases := []struct {
		o    consts.Orientation
		u, v consts.Orientation
	}{
		{consts.Orientation2D, consts.OrientationX, consts.OrientationY},
		{consts.OrientationZ, consts.OrientationX, consts.OrientationY},
		{consts.OrientationY, consts.OrientationX, consts.OrientationZ},
		{consts.OrientationX, consts.OrientationY, consts.OrientationZ},
	}
	for _, c := range cases {
		u, v, err := planeComponents(c.o)
		require.NoError(t, err)
		assert.Equal(t, c.u, u)
		assert.Equal(t, c.v, v)
	}
	_, _, err := planeComponents(consts.Orientation(99))
	assert.Error(t, err)
}

func TestAxisIndex(t *testing.T) {
	assert.Equal(t, 0, axisIndex(consts.OrientationX))
	assert.Equal(t, 1, axisIndex(consts.OrientationY))
	assert.Equal(t, 2, axisIndex(consts.OrientationZ))
}

func TestPartitionBoundsCoversRangeExactly(t *testing.T) {
	n, workers := 10, 3
	var total int
	prevHi := 0
	for i := 0; i < workers; i++ {
		lo, hi := partitionBounds(n, workers, i)
		assert.Equal(t, prevHi, lo)
		total += hi - lo
		prevHi = hi
	}
	assert.Equal(t, n, total)
	assert.Equal(t, n, prevHi)
}

func TestVectorFieldForMomentumAndRegVelocity(t *testing.T) {
	px := []float64{1, 2, 3}
	py := []float64{4, 5, 6}
	rho := []float64{1, 4, 9}

	u, v, err := vectorFieldFor(consts.Momentum, rho, px, py, 0)
	require.NoError(t, err)
	assert.Equal(t, px, u)
	assert.Equal(t, py, v)

	u, v, err = vectorFieldFor(consts.RegVelocity, rho, px, py, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1, u[0], 1e-12)   // 1/sqrt(1)
	assert.InDelta(t, 1, u[1], 1e-12)   // 2/sqrt(4)
	assert.InDelta(t, 2.5, v[1], 1e-12) // 5/sqrt(4)
}

func TestVectorFieldForVelocityRejectsDegenerateWithZeroEpsilon(t *testing.T) {
	px := []float64{1}
	rho := []float64{0}
	_, _, err := vectorFieldFor(consts.Velocity, rho, px, px, 0)
	assert.Error(t, err)

	// a positive epsilon floor absorbs the zero-density cell instead of failing.
	_, _, err = vectorFieldFor(consts.Velocity, rho, px, px, 0.1)
	assert.NoError(t, err)
}

func TestNewPipelineRejectsUseVelocityWithWrongQuantities(t *testing.T) {
	cfg := &config.Config{
		D: 2, N: []int{4, 4}, L: []float64{1, 1}, C: 1, Xi: 1,
		UseVelocity: true,
		Quantities:  []consts.Quantity{consts.Momentum},
		LoopSizes:   []int{1},
		PMax:        1,
	}
	_, err := NewPipeline(cfg, nil)
	assert.Error(t, err)

	cfg.Quantities = []consts.Quantity{consts.Velocity}
	_, err = NewPipeline(cfg, nil)
	assert.NoError(t, err)
}

func TestDictConfigForIncludesDissipationHistogramOnlyWhenConfigured(t *testing.T) {
	cfg := &config.Config{
		D: 2, N: []int{4, 4}, L: []float64{1, 1}, C: 1, Xi: 1,
		Quantities: []consts.Quantity{consts.Velocity},
		LoopSizes:  []int{1, 2},
		PMax:       2,
		HistMin:    -1, HistMax: 1, HistBins: 4,
		DissipationMin: 0, DissipationMax: 2, DissipationBins: 5,
	}
	p, err := NewPipeline(cfg, nil)
	require.NoError(t, err)

	dc := p.dictConfigFor(consts.Velocity)
	require.Len(t, dc.Hist1D, 1)
	assert.Equal(t, "Gamma", dc.Hist1D[0].Name)
	assert.Empty(t, dc.Hist2D)

	cfg.ConditionalOnDissipation = true
	dc = p.dictConfigFor(consts.Velocity)
	require.Len(t, dc.Hist2D, 1)
	assert.Equal(t, "GammaDissipation", dc.Hist2D[0].Name)
}

func writeFloat64File(t *testing.T, path string, vals []float64) {
	t.Helper()
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

// A spatially constant wave function has zero momentum everywhere, so the
// derived velocity is zero and circulation around every loop size is zero
// regardless of loop placement (spec.md §4.C, §4.E).
func TestRunSliceConstantFieldYieldsZeroCirculation(t *testing.T) {
	dir := t.TempDir()
	nx, ny := 8, 8
	total := nx * ny
	reVals := make([]float64, total)
	imVals := make([]float64, total)
	for i := range reVals {
		reVals[i] = 1
		imVals[i] = 0
	}
	writeFloat64File(t, filepath.Join(dir, "ReaPsi.000.dat"), reVals)
	writeFloat64File(t, filepath.Join(dir, "ImaPsi.000.dat"), imVals)

	cfg := &config.Config{
		D: 2, N: []int{nx, ny}, L: []float64{2 * math.Pi, 2 * math.Pi},
		C: 1, Xi: 1, Epsilon: 0.1,
		InputDir: dir, Precision: "float64", ByteOrder: "little",
		Quantities: []consts.Quantity{consts.Velocity},
		LoopShape:  consts.Rectangle,
		LoopSizes:  []int{1, 2},
		PMax:       1,
		MomentKinds: []consts.MomentKind{consts.MomentRaw},
		HistMin:     -10, HistMax: 10, HistBins: 8,
		Threads: 2,
	}
	p, err := NewPipeline(cfg, nil)
	require.NoError(t, err)

	accums := []*quantityAccum{{quantity: consts.Velocity, master: stats.NewDict(p.dictConfigFor(consts.Velocity))}}
	require.NoError(t, p.runSlice(context.Background(), consts.Orientation2D, 0, accums))
	require.NoError(t, accums[0].master.Finalise())

	for rIdx := range cfg.LoopSizes {
		mean, ok := accums[0].master.Moments.Value(consts.MomentRaw, 0, rIdx)
		require.True(t, ok)
		assert.InDelta(t, 0, mean, 1e-9)
	}

	h, ok := accums[0].master.Hist1D("Gamma")
	require.True(t, ok)
	for _, n := range h.NSamples() {
		assert.Equal(t, int64(total), n)
	}
}
