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

// Package config reads the TOML run configuration of spec.md §6 ("a
// configuration file in a text key-value format") and validates it into a
// typed Config. String values may contain "$VAR" substrings, substituted
// from the process environment after decode and before validation.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/jpolanco/gpcirculation/internal/errs"
)

// raw mirrors the on-disk TOML shape. Every string field that can name a
// path or environment-dependent value goes through $VAR substitution.
type raw struct {
	Domain struct {
		D       int
		N       []int
		L       []float64
		C       float64
		Xi      float64
		Epsilon float64
	}
	Input struct {
		Dir             string
		Timestep        int
		Precision       string // "float32" | "float64"
		ByteOrder       string // "little" | "big"
		UseVelocity     bool
		VelocityKind    string // "incompressible" | "compressible"
		DissipationFile string
	}
	Analysis struct {
		Circulation              bool
		Increments               bool
		Quantities               []string
		LoopShape                string // "rectangle" | "ellipse"
		LoopSizes                []int
		ForceConvolution         bool
		ConditionalOnDissipation bool
		PMax                     int
		FractionalOrders         []float64
		MomentKinds              []string
		HistMin                  float64
		HistMax                  float64
		HistBins                 int
		DissipationMin           float64
		DissipationMax           float64
		DissipationBins          int
	}
	Resample struct {
		Factor int
	}
	Threads  int
	MaxSlices int
	Output  struct {
		Path  string
		Group string
	}
}

// Config is the validated, typed run configuration.
type Config struct {
	D       int
	N       []int
	L       []float64
	C, Xi, Epsilon float64

	InputDir        string
	Timestep        int
	Precision       string
	ByteOrder       string
	UseVelocity     bool
	VelocityKind    string
	DissipationFile string

	AnalysisKind             consts.AnalysisKind
	Quantities               []consts.Quantity
	LoopShape                consts.LoopShape
	LoopSizes                []int
	ForceConvolution         bool
	ConditionalOnDissipation bool
	PMax                     int
	FractionalOrders         []float64
	MomentKinds              []consts.MomentKind
	HistMin, HistMax         float64
	HistBins                 int
	DissipationMin           float64
	DissipationMax           float64
	DissipationBins          int

	ResampleFactor int

	Threads   int
	MaxSlices int

	OutputPath  string
	OutputGroup string
}

// Load decodes path, substitutes environment variables into string
// fields, and validates the result.
func Load(path string) (*Config, error) {
	var r raw
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return nil, errs.New(errs.InvalidConfig, "config: decode %s: %v", path, err)
	}
	expandEnv(&r)
	return validate(&r)
}

func expandEnv(r *raw) {
	r.Input.Dir = os.Expand(r.Input.Dir, os.Getenv)
	r.Input.DissipationFile = os.Expand(r.Input.DissipationFile, os.Getenv)
	r.Output.Path = os.Expand(r.Output.Path, os.Getenv)
	r.Output.Group = os.Expand(r.Output.Group, os.Getenv)
}

func validate(r *raw) (*Config, error) {
	if r.Domain.D != 2 && r.Domain.D != 3 {
		return nil, errs.New(errs.InvalidConfig, "config: domain.d must be 2 or 3, got %d", r.Domain.D)
	}
	if len(r.Domain.N) != r.Domain.D || len(r.Domain.L) != r.Domain.D {
		return nil, errs.New(errs.InvalidConfig, "config: domain.n/domain.l must have length %d", r.Domain.D)
	}
	if r.Analysis.Circulation && r.Analysis.Increments {
		return nil, errs.New(errs.InvalidConfig, "config: analysis.circulation and analysis.increments cannot both be enabled")
	}
	if !r.Analysis.Circulation && !r.Analysis.Increments {
		return nil, errs.New(errs.InvalidConfig, "config: exactly one of analysis.circulation/analysis.increments must be enabled")
	}
	if r.Input.Precision != "float32" && r.Input.Precision != "float64" {
		return nil, errs.New(errs.InvalidConfig, "config: input.precision must be \"float32\" or \"float64\", got %q", r.Input.Precision)
	}
	if r.Input.ByteOrder != "little" && r.Input.ByteOrder != "big" {
		return nil, errs.New(errs.InvalidConfig, "config: input.byte_order must be \"little\" or \"big\", got %q", r.Input.ByteOrder)
	}

	quantities := make([]consts.Quantity, 0, len(r.Analysis.Quantities))
	for _, q := range r.Analysis.Quantities {
		parsed, err := parseQuantity(q)
		if err != nil {
			return nil, err
		}
		quantities = append(quantities, parsed)
	}
	if len(quantities) == 0 {
		return nil, errs.New(errs.InvalidConfig, "config: analysis.quantities must name at least one quantity")
	}

	shape, err := parseLoopShape(r.Analysis.LoopShape)
	if err != nil {
		return nil, err
	}
	if len(r.Analysis.LoopSizes) == 0 {
		return nil, errs.New(errs.InvalidConfig, "config: analysis.loop_sizes must be non-empty")
	}
	if r.Analysis.PMax < 1 {
		return nil, errs.New(errs.InvalidConfig, "config: analysis.p_max must be >= 1, got %d", r.Analysis.PMax)
	}
	for _, p := range r.Analysis.FractionalOrders {
		if p <= 0 || p >= 1 {
			return nil, errs.New(errs.InvalidConfig, "config: analysis.fractional_orders entries must be in (0,1), got %v", p)
		}
	}

	kinds := make([]consts.MomentKind, 0, len(r.Analysis.MomentKinds))
	for _, k := range r.Analysis.MomentKinds {
		parsed, err := parseMomentKind(k)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, parsed)
	}
	if len(kinds) == 0 {
		kinds = []consts.MomentKind{consts.MomentRaw}
	}

	resampleFactor := r.Resample.Factor
	if resampleFactor == 0 {
		resampleFactor = 1
	}
	if resampleFactor < 1 {
		return nil, errs.New(errs.InvalidConfig, "config: resample.factor must be >= 1, got %d", resampleFactor)
	}

	threads := r.Threads
	if threads < 1 {
		threads = 1
	}

	if r.Output.Path == "" {
		return nil, errs.New(errs.InvalidConfig, "config: output.path is required")
	}

	analysisKind := consts.AnalysisCirculation
	if r.Analysis.Increments {
		analysisKind = consts.AnalysisIncrements
	}

	histMin, histMax := r.Analysis.HistMin, r.Analysis.HistMax
	if histMin == 0 && histMax == 0 {
		histMin, histMax = -10, 10
	}
	if histMin >= histMax {
		return nil, errs.New(errs.InvalidConfig, "config: analysis.hist_min must be < analysis.hist_max")
	}
	histBins := r.Analysis.HistBins
	if histBins == 0 {
		histBins = 256
	}

	dissMin, dissMax := r.Analysis.DissipationMin, r.Analysis.DissipationMax
	if dissMin == 0 && dissMax == 0 {
		dissMin, dissMax = 0, 1
	}
	dissBins := r.Analysis.DissipationBins
	if dissBins == 0 {
		dissBins = 64
	}
	if r.Analysis.ConditionalOnDissipation && r.Input.DissipationFile == "" {
		return nil, errs.New(errs.InvalidConfig, "config: analysis.conditional_on_dissipation requires input.dissipation_file")
	}

	return &Config{
		D: r.Domain.D, N: r.Domain.N, L: r.Domain.L,
		C: r.Domain.C, Xi: r.Domain.Xi, Epsilon: r.Domain.Epsilon,

		InputDir: r.Input.Dir, Timestep: r.Input.Timestep,
		Precision: r.Input.Precision, ByteOrder: r.Input.ByteOrder,
		UseVelocity: r.Input.UseVelocity, VelocityKind: r.Input.VelocityKind,
		DissipationFile: r.Input.DissipationFile,

		AnalysisKind: analysisKind, Quantities: quantities,
		LoopShape: shape, LoopSizes: r.Analysis.LoopSizes,
		ForceConvolution:         r.Analysis.ForceConvolution,
		ConditionalOnDissipation: r.Analysis.ConditionalOnDissipation,
		PMax:                     r.Analysis.PMax,
		FractionalOrders:         r.Analysis.FractionalOrders,
		MomentKinds:              kinds,
		HistMin:                  histMin,
		HistMax:                  histMax,
		HistBins:                 histBins,
		DissipationMin:           dissMin,
		DissipationMax:           dissMax,
		DissipationBins:          dissBins,

		ResampleFactor: resampleFactor,
		Threads:        threads,
		MaxSlices:      r.MaxSlices,

		OutputPath:  r.Output.Path,
		OutputGroup: r.Output.Group,
	}, nil
}

func parseQuantity(s string) (consts.Quantity, error) {
	switch s {
	case "velocity":
		return consts.Velocity, nil
	case "reg_velocity":
		return consts.RegVelocity, nil
	case "momentum":
		return consts.Momentum, nil
	default:
		return 0, errs.New(errs.InvalidConfig, "config: unknown quantity tag %q", s)
	}
}

func parseLoopShape(s string) (consts.LoopShape, error) {
	switch s {
	case "rectangle", "":
		return consts.Rectangle, nil
	case "ellipse":
		return consts.Ellipse, nil
	default:
		return 0, errs.New(errs.InvalidConfig, "config: unknown analysis.loop_shape %q", s)
	}
}

func parseMomentKind(s string) (consts.MomentKind, error) {
	switch s {
	case "raw":
		return consts.MomentRaw, nil
	case "absolute":
		return consts.MomentAbsolute, nil
	case "positive":
		return consts.MomentPositive, nil
	case "negative":
		return consts.MomentNegative, nil
	default:
		return 0, errs.New(errs.InvalidConfig, "config: unknown moment kind %q", s)
	}
}
