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

// Package validate implements the bounds/alignment/overlap/cycle checks
// that let Access skip trusting the producer of a buffer: every archived
// container's CheckBytes method works from buffer positions and claims the
// out-of-line byte range each of its relative pointers targets before
// recursing into it, so two containers can never validate as legitimately
// covering the same bytes (the hallmark of a corrupt or adversarial offset
// pointing back into already-claimed data).
package validate

import (
	"reflect"
	"sort"

	"github.com/flowzero/zkyv/zkyverr"
)

// claim is one half-open byte range [Start, End) already validated as
// belonging to some archived subtree.
type claim struct {
	start, end int
}

// Context accumulates the state needed to validate one buffer: its total
// length, the set of byte ranges claimed so far, and the shared-pointer
// registrations seen so far (keyed by archive offset, valued by the Go
// type first registered there).
//
// A Context is meant to be threaded through exactly one Access call; it is
// not safe for concurrent use, and reusing one across unrelated buffers
// would let claims from one buffer spuriously conflict with another.
type Context struct {
	bufLen int
	claims []claim
	shared map[int]reflect.Type
}

// NewContext returns a Context for validating a buffer of length bufLen.
func NewContext(bufLen int) *Context {
	return &Context{bufLen: bufLen, shared: make(map[int]reflect.Type)}
}

// CheckAlign reports an error if offset is not a multiple of align. align
// must be a power of two.
func (c *Context) CheckAlign(offset, align int) error {
	if offset&(align-1) != 0 {
		return zkyverr.New(zkyverr.ErrMisaligned, offset,
			"offset %d is not aligned to %d", offset, align)
	}
	return nil
}

// CheckRange reports an error if [offset, offset+size) falls outside the
// buffer, without claiming it. Use Claim to both check and claim.
func (c *Context) CheckRange(offset, size int) error {
	if offset < 0 || size < 0 || offset+size > c.bufLen {
		return zkyverr.New(zkyverr.ErrOutOfBounds, offset,
			"range [%d, %d) exceeds buffer length %d", offset, offset+size, c.bufLen)
	}
	return nil
}

// Claim validates that [offset, offset+size) is in bounds and does not
// overlap any range already claimed, then records it as claimed.
//
// Every CheckBytes implementation Claims each out-of-line range its
// relative pointers target exactly once before validating what lies there,
// so two sibling containers can never legitimately claim the same bytes.
func (c *Context) Claim(offset, size int) error {
	if err := c.CheckRange(offset, size); err != nil {
		return err
	}
	newClaim := claim{start: offset, end: offset + size}

	i := sort.Search(len(c.claims), func(i int) bool { return c.claims[i].start >= newClaim.start })
	if i > 0 && c.claims[i-1].end > newClaim.start {
		return zkyverr.New(zkyverr.ErrOverlappingClaim, offset,
			"range [%d, %d) overlaps existing claim [%d, %d)",
			newClaim.start, newClaim.end, c.claims[i-1].start, c.claims[i-1].end)
	}
	if i < len(c.claims) && c.claims[i].start < newClaim.end {
		return zkyverr.New(zkyverr.ErrOverlappingClaim, offset,
			"range [%d, %d) overlaps existing claim [%d, %d)",
			newClaim.start, newClaim.end, c.claims[i].start, c.claims[i].end)
	}

	c.claims = append(c.claims, claim{})
	copy(c.claims[i+1:], c.claims[i:])
	c.claims[i] = newClaim
	return nil
}

// RegisterShared records that a shared pointer at offset is being
// validated as type T. The first caller for a given offset always
// succeeds; later callers succeed only if they pass the same T (meaning
// the shared target has already been fully validated and recursion can
// stop), and fail with ErrSharedTypeConflict if T differs, which indicates
// two incompatible RelPtr[T] resolved to the same shared target.
//
// RegisterShared returns whether this is the first registration: when
// false, the caller must NOT re-validate the pointee, since doing so would
// both waste work and double-claim its bytes.
func RegisterShared[T any](c *Context, offset int) (first bool, err error) {
	want := reflect.TypeFor[T]()
	got, ok := c.shared[offset]
	if !ok {
		c.shared[offset] = want
		return true, nil
	}
	if got != want {
		return false, zkyverr.New(zkyverr.ErrSharedTypeConflict, offset,
			"shared pointer at offset %d already registered as %v, now requested as %v",
			offset, got, want)
	}
	return false, nil
}

// Len returns the length of the buffer being validated.
func (c *Context) Len() int { return c.bufLen }
