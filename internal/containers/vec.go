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

package containers

import (
	"iter"

	"github.com/flowzero/zkyv/internal/prim"
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/unsafe2/layout"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/relptr"
	"github.com/flowzero/zkyv/zkyverr"
)

// ArchivedVec is the archived form of a slice: a relative pointer to a
// contiguous run of archived elements, plus an element count. Unlike a Go
// slice header there is no capacity, since an archived Vec is immutable.
type ArchivedVec[T any] struct {
	ptr relptr.RelPtr[T]
	len prim.FixedUsize
}

// Len returns the number of elements.
func (v *ArchivedVec[T]) Len() int { return int(v.len) }

// IsEmpty reports whether the vec has no elements.
func (v *ArchivedVec[T]) IsEmpty() bool { return v.len == 0 }

// data returns a pointer to the first element, or nil if the vec is empty.
func (v *ArchivedVec[T]) data() *T {
	if v.len == 0 {
		return nil
	}
	return relptr.Follow(v.ptr, &v.ptr)
}

// Get returns a pointer to the i'th element. Panics if i is out of range,
// matching Go slice indexing semantics.
func (v *ArchivedVec[T]) Get(i int) *T {
	if i < 0 || i >= int(v.len) {
		panic("zkyv: containers: Vec index out of range")
	}
	return unsafe2.Add(v.data(), i)
}

// All iterates the elements in order.
func (v *ArchivedVec[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		base := v.data()
		for i := 0; i < int(v.len); i++ {
			if !yield(i, unsafe2.Add(base, i)) {
				return
			}
		}
	}
}

// NewArchivedVec constructs an ArchivedVec[T] value directly from an
// already-computed pointer and length, for a caller composing a Vec as a
// field of another container's value (e.g. the payload of an Option<Vec<T>>)
// rather than writing it straight into a writer.Place via ResolveVec.
func NewArchivedVec[T any](ptr relptr.RelPtr[T], length int) ArchivedVec[T] {
	return ArchivedVec[T]{ptr: ptr, len: prim.FixedUsize(length)}
}

// BuildVec serializes n elements into w as a contiguous archived run (the
// Vec's out-of-line storage), calling resolveElem(i, place) to fill each
// one, and returns the buffer position of the first element. Elements are
// always emitted at T's natural alignment, matching a Go array's layout.
func BuildVec[T any](w *writer.Writer, n int, resolveElem func(i int, place writer.Place)) int {
	if n == 0 {
		return 0
	}
	size, align := layout.Size[T](), layout.Align[T]()
	first := -1
	for i := 0; i < n; i++ {
		pos, place := w.Reserve(size, align)
		if i == 0 {
			first = pos
		}
		resolveElem(i, place)
	}
	return first
}

// ResolveVec fills the Place reserved for an ArchivedVec[T] header, given
// the position the header itself occupies, the position of the first
// element (as returned by BuildVec; ignored when n == 0), and the element
// count.
func ResolveVec[T any](out writer.Place, headerPos, firstElemPos, n int) error {
	var hdr ArchivedVec[T]
	hdr.len = prim.FixedUsize(n)
	if n > 0 {
		ptr, err := relptr.Emplace[T](headerPos, firstElemPos)
		if err != nil {
			return err
		}
		hdr.ptr = ptr
	}
	out.Set(unsafe2.Bytes(&hdr))
	return nil
}

// CheckBytes validates an ArchivedVec's header and claims its out-of-line
// element storage, then invokes checkElem for each element in turn so the
// caller can recurse into element-level validation.
func (v *ArchivedVec[T]) CheckBytes(selfPos int, ctx *validate.Context, checkElem func(i int, elemPos int) error) error {
	if v.len == 0 {
		if !v.ptr.IsNull() {
			return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos, "empty Vec must have a null data pointer")
		}
		return nil
	}

	size, align := layout.Size[T](), layout.Align[T]()
	first := v.ptr.TargetPos(selfPos)
	if err := ctx.CheckAlign(first, align); err != nil {
		return err
	}
	if err := ctx.Claim(first, size*int(v.len)); err != nil {
		return err
	}
	for i := 0; i < int(v.len); i++ {
		if err := checkElem(i, first+i*size); err != nil {
			return err
		}
	}
	return nil
}
