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
	"fmt"

	"github.com/jpolanco/gpcirculation/internal/consts"
)

// timestepTag formats a timestep index as the three zero-padded decimals
// spec.md §6 names ("TTT").
func timestepTag(timestep int) string {
	return fmt.Sprintf("%03d", timestep)
}

// PsiFilenames returns the ("ReaPsi.TTT.dat", "ImaPsi.TTT.dat") pair for a
// given timestep.
func PsiFilenames(timestep int) (rea, ima string) {
	tag := timestepTag(timestep)
	return "ReaPsi." + tag + ".dat", "ImaPsi." + tag + ".dat"
}

// VelocityFilename returns the "{VI|VC}{x,y,z}_d.TTT.dat" name for one
// velocity component.
func VelocityFilename(kind VelocityKind, axis consts.Orientation, timestep int) (string, error) {
	comp, err := axisComponent(axis)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s_d.%s.dat", kind.prefix(), comp, timestepTag(timestep)), nil
}
