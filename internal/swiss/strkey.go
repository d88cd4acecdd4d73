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

package swiss

import (
	"iter"
	"unsafe"

	"github.com/flowzero/zkyv/internal/containers"
	"github.com/flowzero/zkyv/internal/dbg"
	"github.com/flowzero/zkyv/internal/prim"
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/unsafe2/layout"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/relptr"
	"github.com/flowzero/zkyv/zkyverr"
)

// A string key cannot satisfy Key: it has no fixed-width integer
// representation to zero-extend, and its archived form
// (containers.ArchivedString) is itself a small, sometimes-indirected
// struct rather than a scalar a CPU register holds directly. This file is
// the string-keyed counterpart of region.go/build.go/search.go/archived.go,
// sharing their control-byte scanning and hashing but built around
// containers.ArchivedString instead of Key.

// StringEntry is one string key/value pair to insert while building a
// string-keyed table.
type StringEntry[V any] struct {
	Key   string
	Value V
}

// stringRegionLayout mirrors regionLayout, but for a containers.ArchivedString
// key array in place of a Key-constrained array.
func stringRegionLayout[V any](cap int) (size, align int, keysOff, valsOff int) {
	keyAlign := layout.Align[containers.ArchivedString]()
	valAlign := layout.Align[V]()

	off := cap // control bytes, one per bucket
	off = (off + keyAlign - 1) &^ (keyAlign - 1)
	keysOff = off
	off += layout.Size[containers.ArchivedString]() * cap

	off = (off + valAlign - 1) &^ (valAlign - 1)
	valsOff = off
	off += layout.Size[V]() * cap

	align = max(keyAlign, valAlign)
	size = (off + align - 1) &^ (align - 1)
	return size, align, keysOff, valsOff
}

// hashBytes hashes a string's raw bytes through hash.bytes, the
// variable-length path Build/Get for integer keys never touches.
func hashBytes(s string) hash {
	return seedHash().bytes(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// searchString is search's counterpart for a containers.ArchivedString key
// array, used at read time: equality is content comparison (String())
// rather than a Key's native ==, since the slot holds an archived header,
// not the key itself. This assumes keys sits at its final archive
// position, since ArchivedString.String() decodes an out-of-line pointer
// relative to its own address — see searchStringScratch for the build-time
// equivalent, where that assumption doesn't hold yet.
func searchString(ctrlBase *byte, keys *unsafe2.VLA[containers.ArchivedString], cap int, h hash, k string) (idx int, occupied bool) {
	return searchStringBy(ctrlBase, cap, h, func(n int) bool { return keys.Get(n).String() == k })
}

// searchStringScratch is searchString's build-time counterpart: it
// compares against placed, a parallel host-side record of the Go string
// already written to each slot, instead of decoding the archived header
// in scratch. An out-of-line ArchivedString's pointer is relative to its
// eventual position in the writer's buffer, not its current scratch
// address, so decoding it before the scratch region is copied into place
// would follow a bogus address.
func searchStringScratch(ctrlBase *byte, placed []string, cap int, h hash, k string) (idx int, occupied bool) {
	return searchStringBy(ctrlBase, cap, h, func(n int) bool { return placed[n] == k })
}

// searchStringBy is the probe/search loop shared by searchString and
// searchStringScratch, parameterized over how a candidate slot's key is
// compared to k.
func searchStringBy(ctrlBase *byte, cap int, h hash, eqAt func(n int) bool) (idx int, occupied bool) {
	h2 := broadcast(h.h2())
	emptyMask := broadcast(empty)

	groups := ctrlAt(ctrlBase)
	p := newProber(groups, cap/8, h)
	for {
		dbg.Assert(p.i <= p.mask, "full table")

		var i int
		var c ctrl
		p, i, c = p.next()

		mask := c.matches(h2)
		if mask.x0 != 0 {
			n := i * 8
			for j := range 8 {
				if mask.x0>>(8*j)&0x80 != 0 && eqAt(n+j) {
					return n + j, true
				}
			}
		}

		j := c.first(emptyMask)
		if j < 8 {
			return i*8 + j, false
		}
	}
}

// BuildString constructs the out-of-line control-byte/key/value region for
// a string-keyed Archived table, writes it into w, and returns the
// region's position, element count, and bucket capacity.
//
// Long keys (over containers.InlineLimit) need their own out-of-line byte
// run, written to w before the region itself so the region's final
// position is known when each key's relative pointer is computed; the
// region is then assembled in a scratch slice exactly as Build does for
// fixed-width keys, and copied into w as one contiguous write.
func BuildString[V any](w *writer.Writer, entries []StringEntry[V]) (pos, length, cap int) {
	_, cap = loadFactor(len(entries))
	size, align, keysOff, valsOff := stringRegionLayout[V](cap)

	outOfLine := make([]int, len(entries))
	for i, e := range entries {
		if len(e.Key) > containers.InlineLimit {
			outOfLine[i] = containers.BuildStringBytes(w, e.Key)
		}
	}

	regionPos := w.Align(align)
	keySize := layout.Size[containers.ArchivedString]()

	scratch := make([]byte, size)
	for i := range scratch[:cap] {
		scratch[i] = empty
	}
	base := unsafe.SliceData(scratch)
	keys := keysAt[containers.ArchivedString](base, keysOff)
	vals := valsAt[V](base, valsOff)

	// placed mirrors the key array's content as plain Go strings, since an
	// out-of-line ArchivedString already written to a slot in scratch can't
	// safely be decoded back (its pointer is relative to a position it
	// doesn't occupy yet) until the whole region is copied into w below.
	placed := make([]string, cap)

	for i, e := range entries {
		h := hashBytes(e.Key)
		idx, occupied := searchStringScratch(base, placed, cap, h, e.Key)
		if !occupied {
			*ctrlAt(base).Get(idx/8) = setByte(*ctrlAt(base).Get(idx/8), idx%8, h.h2())

			headerPos := regionPos + keysOff + idx*keySize
			b, err := containers.EncodeStringBytes(headerPos, e.Key, outOfLine[i])
			if err != nil {
				panic(err)
			}
			copy(unsafe2.Bytes(keys.Get(idx)), b)
			placed[idx] = e.Key
		}
		*vals.Get(idx) = e.Value
	}

	pos = w.Write(scratch)
	return pos, len(entries), cap
}

// ArchivedStringKeyed is the string-keyed counterpart to Archived[K, V],
// for containers whose key cannot be expressed as a Key (module H's hash
// set of strings, for instance). Build with BuildString, not Build.
type ArchivedStringKeyed[V any] struct {
	ptr    relptr.RelPtr[byte]
	length prim.FixedUsize
	cap    prim.FixedUsize
}

// Len returns the number of entries.
func (a *ArchivedStringKeyed[V]) Len() int { return int(a.length) }

func (a *ArchivedStringKeyed[V]) base() *byte {
	return relptr.Follow(a.ptr, &a.ptr)
}

// Get looks up k, returning a pointer to its value and true, or nil, false
// if k is not present.
func (a *ArchivedStringKeyed[V]) Get(k string) (*V, bool) {
	if a.length == 0 {
		return nil, false
	}
	base := a.base()
	_, _, keysOff, valsOff := stringRegionLayout[V](int(a.cap))
	keys := keysAt[containers.ArchivedString](base, keysOff)

	h := hashBytes(k)
	idx, occupied := searchString(base, keys, int(a.cap), h, k)
	if !occupied {
		return nil, false
	}
	return valsAt[V](base, valsOff).Get(idx), true
}

// All iterates every entry in bucket order, which need not match the
// order entries were given to BuildString.
func (a *ArchivedStringKeyed[V]) All() iter.Seq2[*containers.ArchivedString, *V] {
	return func(yield func(*containers.ArchivedString, *V) bool) {
		if a.length == 0 {
			return
		}
		base := a.base()
		_, _, keysOff, valsOff := stringRegionLayout[V](int(a.cap))
		groups := ctrlAt(base)
		keys := keysAt[containers.ArchivedString](base, keysOff)
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
				if !yield(keys.Get(n), vals.Get(n)) || remaining == 0 {
					return
				}
			}
		}
	}
}

// ResolveStringKeyed fills the Place reserved for an ArchivedStringKeyed[V]
// header, given the position the header itself occupies and the (pos,
// length, cap) returned by BuildString.
func ResolveStringKeyed[V any](out writer.Place, headerPos, regionPos, length, cap int) error {
	var hdr ArchivedStringKeyed[V]
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

// CheckBytes validates an ArchivedStringKeyed[V] table, the string-keyed
// counterpart to Archived[K, V].CheckBytes.
func (a *ArchivedStringKeyed[V]) CheckBytes(selfPos int, ctx *validate.Context, checkEntry func(k *containers.ArchivedString, v *V) error) error {
	if a.cap == 0 || a.cap&(a.cap-1) != 0 {
		return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos, "table capacity %d is not a power of two", a.cap)
	}
	if int(a.length) > int(a.cap) {
		return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos, "table length %d exceeds capacity %d", a.length, a.cap)
	}
	if a.length == 0 {
		return nil
	}

	size, align, keysOff, valsOff := stringRegionLayout[V](int(a.cap))
	regionPos := a.ptr.TargetPos(selfPos)
	if err := ctx.CheckAlign(regionPos, align); err != nil {
		return err
	}
	if err := ctx.Claim(regionPos, size); err != nil {
		return err
	}

	keySize := layout.Size[containers.ArchivedString]()
	base := a.base()
	groups := ctrlAt(base)
	keys := keysAt[containers.ArchivedString](base, keysOff)
	vals := valsAt[V](base, valsOff)

	for i := 0; i < int(a.cap)/8; i++ {
		x := groups.Get(i).x0
		for j := range 8 {
			if b := byte(x >> (8 * j)); b != empty && b&0x80 != 0 {
				return zkyverr.New(zkyverr.ErrInvalidBitPattern, regionPos+i*8+j, "control byte %#x is neither EMPTY nor a 7-bit hash fragment", b)
			}
		}
	}

	seen := 0
	for i := 0; i < int(a.cap)/8; i++ {
		c := *groups.Get(i)
		for j := range 8 {
			var occupied bool
			c, occupied = c.next()
			if !occupied {
				continue
			}

			n := i*8 + j
			k, v := keys.Get(n), vals.Get(n)
			if err := k.CheckBytes(regionPos+keysOff+n*keySize, ctx); err != nil {
				return err
			}
			if err := checkEntry(k, v); err != nil {
				return err
			}
			seen++
		}
	}
	if seen != int(a.length) {
		return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos,
			"table claims %d entries but %d were reachable by iteration", a.length, seen)
	}
	return nil
}
