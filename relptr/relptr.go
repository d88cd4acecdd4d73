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

// Package relptr implements the relative pointer: a signed, fixed-width
// offset stored at some position p in a buffer, whose target address is
// p+offset. This is the one pointer representation archived data is
// allowed to contain — a buffer holding only relative pointers remains
// valid after an arbitrary memcpy or after being mmap'd at a different
// address, which absolute pointers could never survive.
//
// A zero offset is reserved to mean "null"; emplacing a pointer to its own
// position is therefore forbidden, since it would be indistinguishable
// from null.
package relptr

import (
	"fmt"

	"github.com/flowzero/zkyv/internal/prim"
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/zkyverr"
)

// RelPtr is a relative pointer to a sized T, occupying sizeof(FixedIsize)
// bytes at a prim.FixedIsize-wide alignment.
//
// The zero value is the null pointer.
type RelPtr[T any] struct {
	offset prim.FixedIsize
}

// Raw is a relative pointer that has forgotten the type of its pointee,
// used for trait-object-style polymorphic targets (see the type registry
// in the root zkyv package).
type Raw = RelPtr[byte]

// IsNull reports whether r is the invalid/null sentinel.
func (r RelPtr[T]) IsNull() bool {
	return r.offset == 0
}

// Offset returns the raw signed byte offset stored in r.
func (r RelPtr[T]) Offset() prim.FixedIsize {
	return r.offset
}

// Emplace computes the relative pointer from fromPos (the position at which
// the pointer itself is stored) to toPos (the position of its target), and
// returns an error if the signed distance does not fit in a FixedIsize.
//
// Emplacing a pointer to its own position is invalid, since an all-zero
// offset must mean null; such a self-reference can never arise from the
// three-phase layout protocol (a value is never its own dependency), so
// this is treated as a programmer error rather than a recoverable one.
func Emplace[T any](fromPos, toPos int) (RelPtr[T], error) {
	delta := int64(toPos) - int64(fromPos)
	offset := prim.FixedIsize(delta)
	if int64(offset) != delta {
		return RelPtr[T]{}, zkyverr.New(zkyverr.ErrOffsetOverflow, fromPos, "relative offset %d does not fit in %T", delta, offset)
	}
	if offset == 0 {
		panic("zkyv: relptr: attempted to emplace a pointer to its own position")
	}
	return RelPtr[T]{offset: offset}, nil
}

// Null returns the invalid/null relative pointer.
func Null[T any]() RelPtr[T] {
	return RelPtr[T]{}
}

// Follow computes the address of r's target, given the address of r itself.
//
// Panics if r is null; callers that accept null pointers must check IsNull
// first, rather than receiving a zero value with ambiguous meaning.
func Follow[T any](r RelPtr[T], self *RelPtr[T]) *T {
	if r.IsNull() {
		panic("zkyv: relptr: Follow called on a null pointer")
	}
	return unsafe2.ByteAdd(unsafe2.Cast[T](self), r.offset)
}

// TargetPos returns the absolute buffer position r's target would occupy,
// given the position selfPos at which r itself is stored. Used by
// validators, which work in terms of buffer positions rather than live
// pointers.
func (r RelPtr[T]) TargetPos(selfPos int) int {
	return selfPos + int(r.offset)
}

// Retype reinterprets r as pointing to a U instead of a T, preserving the
// raw offset. Used when a Raw pointer's type has been resolved via the
// dynamic-type registry.
func Retype[U, T any](r RelPtr[T]) RelPtr[U] {
	return RelPtr[U]{offset: r.offset}
}

// Format implements fmt.Formatter for debug printing.
func (r RelPtr[T]) Format(f fmt.State, verb rune) {
	if r.IsNull() {
		fmt.Fprint(f, "null")
		return
	}
	fmt.Fprintf(f, "%+d", r.offset)
}
