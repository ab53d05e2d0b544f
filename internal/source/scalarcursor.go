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
	"encoding/binary"
	"math"
)

// Precision selects the scalar width used by an on-disk byte stream.
type Precision int

const (
	// Float32 reads 4-byte IEEE-754 scalars.
	Float32 Precision = 4
	// Float64 reads 8-byte IEEE-754 scalars (the default per spec.md §6).
	Float64 Precision = 8
)

// scalarCursor decodes scalars out of an in-memory byte buffer. It plays
// the same role the teacher's bit-level cursor played for MPEG frame
// payloads, generalised from single bits to fixed-width floats: the
// buffer is read once, then every scalar is decoded from it by cell
// index rather than re-reading the backing store on every access.
type scalarCursor struct {
	buf   []byte
	prec  Precision
	order binary.ByteOrder
}

func newScalarCursor(buf []byte, prec Precision, order binary.ByteOrder) *scalarCursor {
	return &scalarCursor{buf: buf, prec: prec, order: order}
}

// At decodes the scalar at a given cell index.
func (c *scalarCursor) At(cell int) float64 {
	off := cell * int(c.prec)
	return decodeScalar(c.buf[off:off+int(c.prec)], c.prec, c.order)
}

// decodeScalar interprets a prec-byte slice as one IEEE-754 scalar in the
// given byte order. scalarCursor.At, and through it ByteSource.At, decode
// every cell with it.
func decodeScalar(buf []byte, prec Precision, order binary.ByteOrder) float64 {
	switch prec {
	case Float32:
		return float64(math.Float32frombits(order.Uint32(buf)))
	case Float64:
		return math.Float64frombits(order.Uint64(buf))
	default:
		panic("source: unsupported precision")
	}
}
