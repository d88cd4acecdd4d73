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

// Package containers implements the archived forms of Go's built-in
// reference/collection shapes: Box (owned pointer), Vec (slice), String,
// Option, Result, and SortedVec (an ordered map/set). Every archived form
// is built from relptr.RelPtr offsets, inline values and whatever inline
// metadata (length, tag byte) its shape needs — never a live Go pointer, slice header, or interface
// value, since those are meaningless once the buffer is copied or mapped
// at a different address.
package containers

import (
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/unsafe2/layout"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/relptr"
)

// ArchivedBox is the archived form of a single owned, heap-allocated value:
// just a relative pointer to the pointee's archived form.
type ArchivedBox[T any] struct {
	ptr relptr.RelPtr[T]
}

// Get returns a pointer to the archived pointee.
func (b *ArchivedBox[T]) Get() *T {
	return relptr.Follow(b.ptr, &b.ptr)
}

// ResolveBox fills out the Place reserved for an ArchivedBox[T], given
// pos (the position the box itself was reserved at) and targetPos (the
// position its pointee was already serialized to, earlier in the
// three-phase protocol).
func ResolveBox[T any](out writer.Place, pos, targetPos int) error {
	ptr, err := relptr.Emplace[T](pos, targetPos)
	if err != nil {
		return err
	}
	out.Set(unsafe2.Bytes(&ptr))
	return nil
}

// CheckBytes validates an ArchivedBox at p: it claims nothing for its own
// bytes (a bare relative pointer has no bytes of its own beyond what the
// caller already claimed as part of its containing struct) but checks that
// its target is aligned for T and claims the target's sizeof(T) bytes
// (which fails if they are out of bounds or already claimed), then
// delegates to checkPointee for the pointee's own validation.
func CheckBytes[T any](p *ArchivedBox[T], selfPos int, ctx *validate.Context, checkPointee func(pointeePos int) error) error {
	if p.ptr.IsNull() {
		return nil
	}
	targetPos := p.ptr.TargetPos(selfPos)
	if err := ctx.CheckAlign(targetPos, layout.Align[T]()); err != nil {
		return err
	}
	if err := ctx.Claim(targetPos, layout.Size[T]()); err != nil {
		return err
	}
	return checkPointee(targetPos)
}
