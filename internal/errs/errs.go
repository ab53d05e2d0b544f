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

// Package errs holds the shared error Kind taxonomy of spec.md §7, so
// every internal package can raise a typed error without importing the
// root package (which would create an import cycle, since the root
// package imports most of internal/...).
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the abstract error kinds of spec.md §7.
type Kind int

const (
	InvalidConfig Kind = iota
	DimensionMismatch
	InvalidShape
	IOError
	NumericDomain
	UseAfterFinalise
)

func (k Kind) String() string {
	switch k {
	case InvalidConfig:
		return "InvalidConfig"
	case DimensionMismatch:
		return "DimensionMismatch"
	case InvalidShape:
		return "InvalidShape"
	case IOError:
		return "IOError"
	case NumericDomain:
		return "NumericDomain"
	case UseAfterFinalise:
		return "UseAfterFinalise"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every surfaced failure wraps into.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gpcirculation: %s: %s", e.kind, e.msg)
}

// Kind reports the abstract error kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// New builds a Kind-tagged error with a stack trace attached, the same
// convention go-musicfox and kcptun use for wrapping at the point of
// origin.
func New(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{kind: kind, msg: fmt.Sprintf(format, args...)})
}

// As extracts the Kind of err if it (or something it wraps) is an *Error.
func As(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.kind, true
	}
	return 0, false
}
