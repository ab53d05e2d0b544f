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

import "github.com/jpolanco/gpcirculation/internal/errs"

// Kind is one of the abstract error kinds of spec.md §7. It is an alias
// of internal/errs.Kind so every package in the module (which cannot
// import the root package without a cycle) shares one taxonomy.
type Kind = errs.Kind

const (
	InvalidConfig     = errs.InvalidConfig
	DimensionMismatch = errs.DimensionMismatch
	InvalidShape      = errs.InvalidShape
	IOError           = errs.IOError
	NumericDomain     = errs.NumericDomain
	UseAfterFinalise  = errs.UseAfterFinalise
)

// Error is the concrete error type every surfaced failure wraps into, so
// callers of the pipeline can switch on Kind() instead of matching
// strings.
type Error = errs.Error

func newError(kind Kind, format string, args ...interface{}) error {
	return errs.New(kind, format, args...)
}

// AsKind extracts the Kind of err if it (or something it wraps) is an *Error.
func AsKind(err error) (Kind, bool) {
	return errs.As(err)
}
