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
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeFloat64sLE(vals []float64) []byte {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func TestByteSourceRoundTrip(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6}
	buf := encodeFloat64sLE(vals)
	bs, err := NewByteSource(bytes.NewReader(buf), int64(len(buf)), Float64, binary.LittleEndian, len(vals))
	require.NoError(t, err)
	for i, v := range vals {
		got, err := bs.At(i)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestByteSourceLengthMismatch(t *testing.T) {
	buf := bytes.NewReader(make([]byte, 16))
	_, err := NewByteSource(buf, 16, Float64, binary.LittleEndian, 3)
	assert.Error(t, err)
}

func TestPlaneMapZOrientation(t *testing.T) {
	pm, err := NewPlaneMap(3, []int{2, 3, 4}, consts.OrientationZ, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, pm.Nx)
	assert.Equal(t, 3, pm.Ny)
	assert.Equal(t, 1+2*1+2*3*1, pm.Global(1, 1))
}

func TestPlaneMap2D(t *testing.T) {
	pm, err := NewPlaneMap(2, []int{4, 5}, consts.Orientation2D, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, pm.Nx)
	assert.Equal(t, 5, pm.Ny)
	assert.Equal(t, 2+4*3, pm.Global(2, 3))

	_, err = NewPlaneMap(2, []int{4, 5}, consts.Orientation2D, 1)
	assert.Error(t, err)
}

func TestVelocityFilename(t *testing.T) {
	name, err := VelocityFilename(VelocityIncompressible, consts.OrientationX, 7)
	require.NoError(t, err)
	assert.Equal(t, "VIx_d.007.dat", name)

	_, err = VelocityFilename(VelocityCompressible, consts.Orientation2D, 1)
	assert.Error(t, err)
}

func TestPsiFilenames(t *testing.T) {
	rea, ima := PsiFilenames(3)
	assert.Equal(t, "ReaPsi.003.dat", rea)
	assert.Equal(t, "ImaPsi.003.dat", ima)
}

func TestLoadComplexSliceTransposesColumnMajor(t *testing.T) {
	// 2x3 column-major domain, values = linear index for traceability.
	n1, n2 := 2, 3
	total := n1 * n2
	reaVals := make([]float64, total)
	imaVals := make([]float64, total)
	for i := range reaVals {
		reaVals[i] = float64(i)
		imaVals[i] = float64(-i)
	}
	reaBuf := encodeFloat64sLE(reaVals)
	imaBuf := encodeFloat64sLE(imaVals)

	reaBS, err := NewByteSource(bytes.NewReader(reaBuf), int64(len(reaBuf)), Float64, binary.LittleEndian, total)
	require.NoError(t, err)
	imaBS, err := NewByteSource(bytes.NewReader(imaBuf), int64(len(imaBuf)), Float64, binary.LittleEndian, total)
	require.NoError(t, err)

	pm, err := NewPlaneMap(2, []int{n1, n2}, consts.Orientation2D, 0)
	require.NoError(t, err)

	slice, err := LoadComplexSlice(reaBS, imaBS, pm)
	require.NoError(t, err)

	// column-major global index of (ix=1, iy=2) is 1 + 2*2 = 5
	assert.Equal(t, complex(5, -5), slice.Psi[1*n2+2])
}
