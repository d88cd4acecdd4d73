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
	"math/bits"

	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/unsafe2/layout"
)

// Key is one of the allowed key types for an Archived swiss table: a
// fixed-width integer, stored directly in the key array. A string key
// cannot satisfy this constraint (its archived form is a small struct, not
// a scalar); see ArchivedStringKeyed and BuildString in strkey.go for that
// case instead.
type Key interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~uintptr
}

// regionLayout computes the size and alignment of the out-of-line region
// backing an Archived[K, V] table with the given bucket capacity: cap
// control bytes, followed by cap keys (K-aligned), followed by cap values
// (V-aligned). The Archived header lives separately from this region
// (len/cap inline plus a RelPtr to it), so the region itself starts right
// at the first control byte, with no leading struct header of its own.
func regionLayout[K Key, V any](cap int) (size, align int, keysOff, valsOff int) {
	keyAlign := layout.Align[K]()
	valAlign := layout.Align[V]()

	off := cap // control bytes, one per bucket
	off = (off + keyAlign - 1) &^ (keyAlign - 1)
	keysOff = off
	off += layout.Size[K]() * cap

	off = (off + valAlign - 1) &^ (valAlign - 1)
	valsOff = off
	off += layout.Size[V]() * cap

	align = max(keyAlign, valAlign)
	size = (off + align - 1) &^ (align - 1)
	return size, align, keysOff, valsOff
}

// loadFactor calculates the capacity of a table with n elements, targeting
// a load factor of 7/8. The returned capacity is always a power of two
// divisible by 8 (one control-byte group).
func loadFactor(n int) (soft, cap int) {
	if n < 8 {
		n = 7
	}
	e := uint(n)
	c := e * 8 / 7
	if bits.OnesCount(c) != 1 {
		c = uint(1) << bits.Len(c)
	}
	return int(c / 8 * 7), int(c)
}

// ctrlAt, keysAt, and valsAt recover typed pointers into a region given its
// base address and precomputed offsets; base is the address a RelPtr[byte]
// (or a raw scratch buffer, during Build) resolves to.
func ctrlAt(base *byte) *unsafe2.VLA[ctrl] {
	return unsafe2.Cast[unsafe2.VLA[ctrl]](base)
}

func keysAt[K any](base *byte, keysOff int) *unsafe2.VLA[K] {
	return unsafe2.Cast[unsafe2.VLA[K]](unsafe2.ByteAdd(base, keysOff))
}

func valsAt[V any](base *byte, valsOff int) *unsafe2.VLA[V] {
	return unsafe2.Cast[unsafe2.VLA[V]](unsafe2.ByteAdd(base, valsOff))
}
