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

// Package consts holds the small enums and shared numeric constants used
// across the circulation pipeline: quantity tags, slice orientations and
// the loop-shape discriminator.
package consts

// Quantity names one of the fields the stats engine can accumulate.
type Quantity int

const (
	Velocity Quantity = iota
	RegVelocity
	Momentum
)

func (q Quantity) String() string {
	switch q {
	case Velocity:
		return "Velocity"
	case RegVelocity:
		return "RegVelocity"
	case Momentum:
		return "Momentum"
	default:
		return "Unknown"
	}
}

// Orientation names the fixed axis of a 2D slice cut from a 3D domain.
type Orientation int

const (
	OrientationX Orientation = iota
	OrientationY
	OrientationZ
	// Orientation2D is used when the domain is already 2D (D=2): there is
	// exactly one slice and no axis to fix.
	Orientation2D
)

func (o Orientation) String() string {
	switch o {
	case OrientationX:
		return "X"
	case OrientationY:
		return "Y"
	case OrientationZ:
		return "Z"
	case Orientation2D:
		return "2D"
	default:
		return "Unknown"
	}
}

// LoopShape selects which spectral kernel (§4.B) materialises a loop.
type LoopShape int

const (
	// Rectangle loops are evaluated via the O(1) integral field (§4.E)
	// unless ForceConvolution is set, in which case they go through the
	// sinc product kernel (§4.B) and spectral convolution (§4.F) instead.
	Rectangle LoopShape = iota
	Ellipse
)

func (s LoopShape) String() string {
	switch s {
	case Rectangle:
		return "Rectangle"
	case Ellipse:
		return "Ellipse"
	default:
		return "Unknown"
	}
}

// AnalysisKind distinguishes the two mutually exclusive analysis families
// named in spec.md §7 ("both circulation and increment analyses enabled
// simultaneously" is InvalidConfig).
type AnalysisKind int

const (
	AnalysisCirculation AnalysisKind = iota
	AnalysisIncrements
)

func (a AnalysisKind) String() string {
	switch a {
	case AnalysisCirculation:
		return "Circulation"
	case AnalysisIncrements:
		return "Increments"
	default:
		return "Unknown"
	}
}

// MomentKind selects which running sum a moments block accumulates for a
// given order p (SPEC_FULL.md "Fractional and signed moments").
type MomentKind int

const (
	MomentRaw MomentKind = iota
	MomentAbsolute
	MomentPositive
	MomentNegative
)

func (k MomentKind) String() string {
	switch k {
	case MomentRaw:
		return "Raw"
	case MomentAbsolute:
		return "Absolute"
	case MomentPositive:
		return "Positive"
	case MomentNegative:
		return "Negative"
	default:
		return "Unknown"
	}
}
