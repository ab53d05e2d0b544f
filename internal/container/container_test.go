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

package container

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/jpolanco/gpcirculation/internal/stats"
)

func TestWriteRejectsEmptyResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")
	err := Write(path, "Circulation", ScalarParams{D: 2}, nil)
	assert.Error(t, err)
}

func TestWriteRejectsUnfinalisedDict(t *testing.T) {
	dict := stats.NewDict(stats.DictConfig{Moments: stats.MomentsConfig{LoopSizes: []int{1}, PMax: 1}})
	results := []QuantityResult{{Quantity: consts.Velocity, LoopSizes: []int{1}, Dict: dict}}

	path := filepath.Join(t.TempDir(), "out.nc")
	err := Write(path, "Circulation", ScalarParams{D: 2, N: []int{4, 4}, L: []float64{1, 1}}, results)
	assert.Error(t, err)
}

func TestDimTableReusesNameForRepeatedLength(t *testing.T) {
	dims := newDimTable()
	a := dims.name("r_Velocity", 3)
	b := dims.name("r_Momentum", 3)
	assert.Equal(t, a, b)

	c := dims.name("order_Velocity", 5)
	assert.NotEqual(t, a, c)
}

func TestIntsToFloat64AndInt64sToFloat64(t *testing.T) {
	require.Equal(t, []float64{1, 2, 3}, intsToFloat64([]int{1, 2, 3}))
	require.Equal(t, []float64{4, 5}, int64sToFloat64([]int64{4, 5}))
}
