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

	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/zkyverr"
)

func sortedVecOutOfOrder(pos int) error {
	return zkyverr.New(zkyverr.ErrInvalidBitPattern, pos, "sorted vec entries are not in ascending key order")
}

// Pair is one key/value entry of an ArchivedSortedVec, stored inline (not
// behind a pointer) so the whole entry run is one contiguous, binary
// searchable array — the flattened, sorted-array rendition of a BTreeMap
// that original_source/rkyv/src/collections describes: no node pointers,
// no rebalancing, just a sorted ArchivedVec of entries.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// ArchivedSortedVec is the archived form of an ordered map (or, with V
// instantiated as struct{}, an ordered set): a single ArchivedVec of Pair
// entries sorted by key ascending, supporting O(log n) lookup by binary
// search and O(n) in-order iteration for free (no traversal order
// ambiguity, unlike the SwissTable's bucket order).
type ArchivedSortedVec[K, V any] struct {
	entries ArchivedVec[Pair[K, V]]
}

// Len returns the number of entries.
func (s *ArchivedSortedVec[K, V]) Len() int { return s.entries.Len() }

// Get looks up key via binary search, using cmp(a, b) with the same
// contract as cmp.Compare (negative if a < b, zero if equal, positive if
// a > b). The backing storage must actually be sorted according to cmp;
// BuildSortedVec's caller is responsible for that invariant.
func (s *ArchivedSortedVec[K, V]) Get(key K, cmp func(a, b K) int) (*V, bool) {
	lo, hi := 0, s.entries.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		entry := s.entries.Get(mid)
		switch c := cmp(entry.Key, key); {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			return &entry.Value, true
		}
	}
	return nil, false
}

// All iterates entries in sorted order.
func (s *ArchivedSortedVec[K, V]) All() iter.Seq2[*K, *V] {
	return func(yield func(*K, *V) bool) {
		for i, p := range s.entries.All() {
			_ = i
			if !yield(&p.Key, &p.Value) {
				return
			}
		}
	}
}

// BuildSortedVec serializes n entries, already sorted ascending by key, as
// the ArchivedSortedVec's backing storage, calling resolveEntry(i, place)
// to fill each Pair[K, V]. It returns the position of the first entry, for
// use with ResolveSortedVec; see BuildVec, which this is a thin wrapper
// over.
func BuildSortedVec[K, V any](w *writer.Writer, n int, resolveEntry func(i int, place writer.Place)) int {
	return BuildVec[Pair[K, V]](w, n, resolveEntry)
}

// ResolveSortedVec fills the Place reserved for an ArchivedSortedVec[K, V]
// header; see ResolveVec, which this is a thin wrapper over.
func ResolveSortedVec[K, V any](out writer.Place, headerPos, firstEntryPos, n int) error {
	return ResolveVec[Pair[K, V]](out, headerPos, firstEntryPos, n)
}

// CheckBytes validates the backing ArchivedVec and, for every entry,
// delegates to checkEntry, then confirms the sequence is actually sorted
// ascending by cmp (a malformed or adversarial archive could otherwise
// claim valid bytes in an order that breaks binary search silently rather
// than failing loudly).
func (s *ArchivedSortedVec[K, V]) CheckBytes(selfPos int, ctx *validate.Context, cmp func(a, b K) int, checkEntry func(i int, entryPos int, pair *Pair[K, V]) error) error {
	var prev *K
	err := s.entries.CheckBytes(selfPos, ctx, func(i, entryPos int) error {
		pair := s.entries.Get(i)
		if err := checkEntry(i, entryPos, pair); err != nil {
			return err
		}
		if prev != nil && cmp(*prev, pair.Key) > 0 {
			return sortedVecOutOfOrder(entryPos)
		}
		prev = &pair.Key
		return nil
	})
	return err
}
