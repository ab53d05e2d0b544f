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

// Package source loads the raw IEEE-754 byte streams of spec.md §6 (ψ's
// real/imaginary parts, precomputed velocity components, an optional
// dissipation field) and assembles them into 2D slices, transposing the
// on-disk column-major layout into the row-major internal/field.Slice2D
// layout (spec.md §9 "Array layout").
package source

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/jpolanco/gpcirculation/internal/consts"
	"github.com/jpolanco/gpcirculation/internal/errs"
)

// ByteSource decodes scalar cells out of an io.ReaderAt. The mapping
// itself (mmap or otherwise) is out of scope per spec.md §1; any
// io.ReaderAt — including a real mmap.Map — satisfies this interface,
// matching §5's "input fields are memory-mapped read-only". The whole
// buffer is pulled into memory once at construction and handed to a
// scalarCursor, which does the actual per-cell decoding: this is the
// buffered-sequential-read counterpart of what the teacher's bit-level
// cursor did one MPEG frame payload at a time, here over one field file.
type ByteSource struct {
	cursor *scalarCursor
	n      int
}

// NewByteSource wraps r, validating that its byte length matches
// expectedCells scalars of the given precision exactly (spec.md §6:
// "Each file's byte length must equal sizeof(scalar)*prod(N_i); mismatch
// -> DimensionMismatch"), then reads the whole buffer in one sequential
// pass rather than re-reading one scalar at a time on every At call.
func NewByteSource(r io.ReaderAt, byteLen int64, prec Precision, order binary.ByteOrder, expectedCells int) (*ByteSource, error) {
	want := int64(prec) * int64(expectedCells)
	if byteLen != want {
		return nil, errs.New(errs.DimensionMismatch, "source: byte length %d does not match %d cells of %d bytes (want %d)", byteLen, expectedCells, int(prec), want)
	}
	buf := make([]byte, byteLen)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !(err == io.EOF && int64(n) == byteLen) {
		return nil, errs.New(errs.IOError, "source: read %d bytes: %v", byteLen, err)
	}
	return &ByteSource{cursor: newScalarCursor(buf, prec, order), n: expectedCells}, nil
}

// Len reports the total number of scalar cells in the source.
func (b *ByteSource) Len() int { return b.n }

// At decodes the scalar at cell index i.
func (b *ByteSource) At(i int) (float64, error) {
	if i < 0 || i >= b.n {
		return 0, errs.New(errs.DimensionMismatch, "source: cell index %d out of range [0,%d)", i, b.n)
	}
	return b.cursor.At(i), nil
}

// OpenFile opens path and wraps it as a ByteSource sized for
// expectedCells, decoded in the given byte order. The caller must Close the returned
// file once done with the source.
func OpenFile(path string, prec Precision, order binary.ByteOrder, expectedCells int) (*ByteSource, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errs.New(errs.IOError, "source: open %s: %v", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, errs.New(errs.IOError, "source: stat %s: %v", path, err)
	}
	bs, err := NewByteSource(f, info.Size(), prec, order, expectedCells)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return bs, f, nil
}

// VelocityKind distinguishes the incompressible/compressible velocity
// file variants of spec.md §6 ("{VI|VC}{x,y,z}_d.TTT.dat").
type VelocityKind int

const (
	VelocityIncompressible VelocityKind = iota
	VelocityCompressible
)

func (k VelocityKind) prefix() string {
	if k == VelocityCompressible {
		return "VC"
	}
	return "VI"
}

// axisComponent returns the lowercase component letter a velocity
// filename uses for axis ("x","y","z"); Orientation2D has no component.
func axisComponent(axis consts.Orientation) (string, error) {
	switch axis {
	case consts.OrientationX:
		return "x", nil
	case consts.OrientationY:
		return "y", nil
	case consts.OrientationZ:
		return "z", nil
	default:
		return "", errs.New(errs.InvalidConfig, "source: velocity filename requires an X/Y/Z axis component, got %v", axis)
	}
}
