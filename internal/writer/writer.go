// Copyright 2025 The zkyv Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package writer implements the append-only byte sink every archivable
// type serializes into, plus the "reserve, then fill in place" primitive
// (ResolveAligned) that lifts it into the three-phase archive protocol.
//
// Unlike a streaming io.Writer, a Writer owns its buffer outright: a
// reserved Place is filled in after its bytes have already been appended
// to the buffer, which a true stream cannot support. The buffer is only
// handed to an io.Writer, if at all, once serialization is complete.
package writer

import (
	"github.com/flowzero/zkyv/internal/unsafe2/layout"
	"github.com/flowzero/zkyv/zkyverr"
)

// Writer is an append-only byte sink with alignment-aware reservation.
//
// The zero Writer is ready to use.
type Writer struct {
	buf []byte
}

// New returns a Writer whose buffer is pre-sized to hint bytes, to cut down
// on reallocation for callers who can estimate their output size.
func New(hint int) *Writer {
	return &Writer{buf: make([]byte, 0, hint)}
}

// Pos returns the current write position: the length of the buffer so far.
func (w *Writer) Pos() int {
	return len(w.buf)
}

// Write appends raw bytes and returns the position they were written at.
func (w *Writer) Write(p []byte) int {
	pos := len(w.buf)
	w.buf = append(w.buf, p...)
	return pos
}

// Align pads with zero bytes until Pos() is a multiple of n, and returns
// the new position. n must be a power of two.
func (w *Writer) Align(n int) int {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
	return len(w.buf)
}

// Reserve reserves size bytes at a position aligned to align, zero-filling
// the gap, and returns the reserved position plus a Place handle over the
// reserved region.
//
// The reserved bytes start out zeroed; the caller fills them via
// Place.Bytes or Place.Set.
func (w *Writer) Reserve(size, align int) (int, Place) {
	pos := w.Align(align)
	w.buf = append(w.buf, make([]byte, size)...)
	return pos, Place{w: w, pos: pos, size: size}
}

// Bytes returns the buffer written so far. Only safe to call once
// serialization is complete: nothing may be appended after the caller
// starts reading this slice, since append may reallocate and leave any
// slice previously returned by Bytes or Place.Bytes pointing at a stale
// copy.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reset empties the buffer while keeping its underlying capacity, so a
// Writer can be reused across unrelated ToBytes calls instead of
// reallocating from scratch each time.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Place is a handle to a byte range reserved (and zero-filled) by Reserve:
// it carries the range's position and size. It has no typed getter, but
// the slice returned by Bytes can be read as well as written.
type Place struct {
	w    *Writer
	pos  int
	size int
}

// Pos returns the buffer position this place occupies.
func (p Place) Pos() int { return p.pos }

// Size returns the number of bytes reserved for this place.
func (p Place) Size() int { return p.size }

// Bytes returns the byte range backing this place. The caller
// must initialize every byte before the place is discarded; any byte left
// untouched stays zero (Reserve zero-fills on allocation), which keeps
// padding-free archived data from leaking uninitialized bytes.
func (p Place) Bytes() []byte {
	return p.w.buf[p.pos : p.pos+p.size]
}

// Set copies v's bytes into the place. len(v) must equal p.Size().
func (p Place) Set(v []byte) {
	if len(v) != p.size {
		panic("zkyv: writer: Set with mismatched length")
	}
	copy(p.Bytes(), v)
}

// ResolveAligned is the emplacement primitive that lifts a Writer into the
// archive protocol: it reserves space for an Archived[T] (respecting its
// alignment), invokes resolve to fill it, and returns the position of the
// newly emplaced archived header.
//
// archivedSize and archivedAlign describe Archived[T]; resolve must
// initialize every byte of the returned Place.
func ResolveAligned(w *Writer, archivedSize, archivedAlign int, resolve func(Place)) int {
	if archivedAlign <= 0 || archivedAlign&(archivedAlign-1) != 0 {
		panic("zkyv: writer: alignment must be a power of two")
	}
	pos, place := w.Reserve(archivedSize, archivedAlign)
	resolve(place)
	return pos
}

// LayoutOf is a convenience wrapper returning the size and alignment of T,
// for callers computing archivedSize/archivedAlign from a Go type directly.
func LayoutOf[T any]() (size, align int) {
	return layout.Size[T](), layout.Align[T]()
}

// ErrWriterFailure wraps an I/O-level failure from a backing store a
// Writer was asked to flush to; the in-memory Writer itself cannot fail
// (appends to a Go slice never return an error), so this exists for
// callers that layer a flush step on top, per the writer-failure entry in
// the error taxonomy.
func ErrWriterFailure(offset int, cause error) *zkyverr.Error {
	return zkyverr.New(zkyverr.ErrWriter, offset, "%v", cause)
}
