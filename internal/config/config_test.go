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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTOML = `
threads = 4

[domain]
d = 2
n = [64, 64]
l = [6.283185307, 6.283185307]
c = 1.0
xi = 1.0
epsilon = 0.0

[input]
dir = "$GPCIRC_INPUT_DIR"
timestep = 0
precision = "float64"
byte_order = "little"

[analysis]
circulation = true
quantities = ["velocity", "momentum"]
loop_shape = "rectangle"
loop_sizes = [2, 4, 8]
p_max = 3

[output]
path = "out.nc"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	t.Setenv("GPCIRC_INPUT_DIR", "/data/run1")
	path := writeTemp(t, validTOML)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/run1", cfg.InputDir)
	assert.Equal(t, 2, cfg.D)
	assert.Equal(t, 4, cfg.Threads)
	assert.Len(t, cfg.Quantities, 2)
	assert.Equal(t, 3, cfg.PMax)
}

func TestLoadRejectsBothAnalysisKinds(t *testing.T) {
	content := `
[domain]
d = 2
n = [8, 8]
l = [1.0, 1.0]
c = 1.0
xi = 1.0

[input]
dir = "."
precision = "float64"
byte_order = "little"

[analysis]
circulation = true
increments = true
quantities = ["velocity"]
loop_shape = "rectangle"
loop_sizes = [2]
p_max = 1

[output]
path = "out.nc"
`
	path := writeTemp(t, content)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingQuantities(t *testing.T) {
	content := `
[domain]
d = 2
n = [8, 8]
l = [1.0, 1.0]
c = 1.0
xi = 1.0

[input]
dir = "."
precision = "float64"
byte_order = "little"

[analysis]
circulation = true
loop_sizes = [2]
p_max = 1

[output]
path = "out.nc"
`
	path := writeTemp(t, content)
	_, err := Load(path)
	assert.Error(t, err)
}
