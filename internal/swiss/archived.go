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

// Package swiss implements the archived, open-addressed hash table used by
// every associative container in this module: a SwissTable whose
// control-byte/key/value region is built once (Build, at serialize time)
// and never mutated again, reached through a relative pointer rather than
// living immediately after the header inline.
//
// Fixed-width integer keys go through Archived[K, V] (this file); string
// keys, which have no fixed-width representation to store inline, go
// through ArchivedStringKeyed[V] instead (strkey.go). Both share the same
// control-byte group scanning (ctrl.go) and fixed-seed hash (hash.go).
package swiss

import (
	"iter"

	"github.com/flowzero/zkyv/internal/prim"
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/relptr"
	"github.com/flowzero/zkyv/zkyverr"
)

// Archived is the archived form of a hash map (or, with V instantiated as
// struct{}, a hash set): a relative pointer to its control-byte/key/value
// region, plus the element count and bucket capacity needed to navigate
// it. It is immutable: there is no Insert, only Build at serialize time
// and Get/All at read time.
type Archived[K Key, V any] struct {
	ptr    relptr.RelPtr[byte]
	length prim.FixedUsize
	cap    prim.FixedUsize
}

// Len returns the number of entries.
func (a *Archived[K, V]) Len() int { return int(a.length) }

func (a *Archived[K, V]) base() *byte {
	return relptr.Follow(a.ptr, &a.ptr)
}

// Get looks up k, returning a pointer to its value and true, or nil, false
// if k is not present.
func (a *Archived[K, V]) Get(k K) (*V, bool) {
	if a.length == 0 {
		return nil, false
	}
	base := a.base()
	_, _, keysOff, valsOff := regionLayout[K, V](int(a.cap))
	keys := keysAt[K](base, keysOff)

	h := seedHash().u64(zext(k))
	idx, occupied := search(base, keys, int(a.cap), h, k)
	if !occupied {
		return nil, false
	}
	return valsAt[V](base, valsOff).Get(idx), true
}

// All iterates every entry in bucket order, which need not match the
// order entries were given to Build.
func (a *Archived[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		if a.length == 0 {
			return
		}
		base := a.base()
		_, _, keysOff, valsOff := regionLayout[K, V](int(a.cap))
		groups := ctrlAt(base)
		keys := keysAt[K](base, keysOff)
		vals := valsAt[V](base, valsOff)

		remaining := int(a.length)
		for i := 0; i < int(a.cap)/8; i++ {
			c := *groups.Get(i)
			for j := range 8 {
				var occupied bool
				c, occupied = c.next()
				if !occupied {
					continue
				}

				n := i*8 + j
				remaining--
				if !yield(*keys.Get(n), vals.Get(n)) || remaining == 0 {
					return
				}
			}
		}
	}
}

// ResolveArchived fills the Place reserved for an Archived[K, V] header,
// given the position the header itself occupies and the (pos, length,
// cap) returned by Build.
func ResolveArchived[K Key, V any](out writer.Place, headerPos, regionPos, length, cap int) error {
	var hdr Archived[K, V]
	ptr, err := relptr.Emplace[byte](headerPos, regionPos)
	if err != nil {
		return err
	}
	hdr.ptr = ptr
	hdr.length = prim.FixedUsize(length)
	hdr.cap = prim.FixedUsize(cap)
	out.Set(unsafe2.Bytes(&hdr))
	return nil
}

// CheckBytes validates an Archived[K, V] table: cap is a power of two no
// smaller than the length, the region is aligned and claimed without
// overlapping anything else, every control byte is either EMPTY or a 7-bit
// H2 fragment, and checkEntry accepts every occupied slot's key/value pair.
func (a *Archived[K, V]) CheckBytes(selfPos int, ctx *validate.Context, checkEntry func(k K, v *V) error) error {
	if a.cap == 0 || a.cap&(a.cap-1) != 0 {
		return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos, "table capacity %d is not a power of two", a.cap)
	}
	if int(a.length) > int(a.cap) {
		return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos, "table length %d exceeds capacity %d", a.length, a.cap)
	}
	if a.length == 0 {
		return nil
	}

	size, align, _, _ := regionLayout[K, V](int(a.cap))
	regionPos := a.ptr.TargetPos(selfPos)
	if err := ctx.CheckAlign(regionPos, align); err != nil {
		return err
	}
	if err := ctx.Claim(regionPos, size); err != nil {
		return err
	}

	groups := ctrlAt(a.base())
	for i := 0; i < int(a.cap)/8; i++ {
		x := groups.Get(i).x0
		for j := range 8 {
			if b := byte(x >> (8 * j)); b != empty && b&0x80 != 0 {
				return zkyverr.New(zkyverr.ErrInvalidBitPattern, regionPos+i*8+j, "control byte %#x is neither EMPTY nor a 7-bit hash fragment", b)
			}
		}
	}

	seen := 0
	for k, v := range a.All() {
		if err := checkEntry(k, v); err != nil {
			return err
		}
		seen++
	}
	if seen != int(a.length) {
		return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos,
			"table claims %d entries but %d were reachable by iteration", a.length, seen)
	}
	return nil
}
