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
	"unsafe"

	"github.com/flowzero/zkyv/internal/writer"
)

// Entry is one key/value pair to insert while building a table.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Build constructs the out-of-line control-byte/key/value region for an
// Archived[K, V] table holding entries, writes it into w, and returns the
// region's position, element count, and bucket capacity (for use with
// ResolveArchived).
//
// There is no incremental Insert: every entry is known up front, so Build
// sizes the region once (at a fixed 7/8 load factor) and never rehashes.
// The region is built in a scratch slice first, since the probe sequence
// needs random access to already-placed entries, then copied into w as one
// contiguous write.
func Build[K Key, V any](w *writer.Writer, entries []Entry[K, V]) (pos, length, cap int) {
	_, cap = loadFactor(len(entries))
	size, align, keysOff, valsOff := regionLayout[K, V](cap)

	scratch := make([]byte, size)
	for i := range scratch[:cap] {
		scratch[i] = empty
	}
	base := unsafe.SliceData(scratch)
	keys := keysAt[K](base, keysOff)
	vals := valsAt[V](base, valsOff)

	for _, e := range entries {
		h := seedHash().u64(zext(e.Key))
		idx, occupied := search(base, keys, cap, h, e.Key)
		if !occupied {
			*ctrlAt(base).Get(idx/8) = setByte(*ctrlAt(base).Get(idx/8), idx%8, h.h2())
			*keys.Get(idx) = e.Key
		}
		*vals.Get(idx) = e.Value
	}

	w.Align(align)
	pos = w.Write(scratch)
	return pos, len(entries), cap
}

// seedHash returns the fixed-seed hash state every Archived[K, V] table
// uses. The same input must always produce the exact same archived bytes
// (byte-stability), so the seed is a fixed constant rather than
// process-randomized.
func seedHash() hash { return hash(0) }

// setByte returns c with its n'th byte (0..7) replaced by v.
func setByte(c ctrl, n int, v byte) ctrl {
	shift := uint(n) * 8
	c.x0 &^= 0xff << shift
	c.x0 |= uint64(v) << shift
	return c
}
