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
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/flowzero/zkyv/internal/containers"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
)

func asStringKeyed(buf []byte, pos int) *ArchivedStringKeyed[int32] {
	return (*ArchivedStringKeyed[int32])(unsafe.Pointer(&buf[pos]))
}

func buildStringTable(t *testing.T, entries []StringEntry[int32]) (*writer.Writer, int) {
	t.Helper()

	w := writer.New(0)
	regionPos, length, cap := BuildString(w, entries)

	size, align := writer.LayoutOf[ArchivedStringKeyed[int32]]()
	headerPos := writer.ResolveAligned(w, size, align, func(place writer.Place) {
		require.NoError(t, ResolveStringKeyed[int32](place, place.Pos(), regionPos, length, cap))
	})
	return w, headerPos
}

func TestStringKeyedRoundTrip(t *testing.T) {
	t.Parallel()

	entries := []StringEntry[int32]{
		{Key: "foo", Value: 1},
		{Key: "bar", Value: 2},
		{Key: "baz", Value: 3},
		{Key: "bat", Value: 4},
	}

	w, headerPos := buildStringTable(t, entries)
	buf := w.Bytes()
	table := asStringKeyed(buf, headerPos)

	require.Equal(t, len(entries), table.Len())
	for _, e := range entries {
		v, ok := table.Get(e.Key)
		require.True(t, ok, "Get(%q)", e.Key)
		require.Equal(t, e.Value, *v)
	}

	_, ok := table.Get("nonexistent")
	require.False(t, ok)
}

func TestStringKeyedOutOfLineKey(t *testing.T) {
	t.Parallel()

	long := "this string is long enough to be stored out-of-line, not inline"
	entries := []StringEntry[int32]{
		{Key: long, Value: 42},
		{Key: "short", Value: 7},
	}

	w, headerPos := buildStringTable(t, entries)
	buf := w.Bytes()
	table := asStringKeyed(buf, headerPos)

	v, ok := table.Get(long)
	require.True(t, ok)
	require.Equal(t, int32(42), *v)
}

func TestStringKeyedGetOnEmptyMiss(t *testing.T) {
	t.Parallel()

	w, headerPos := buildStringTable(t, nil)
	buf := w.Bytes()
	table := asStringKeyed(buf, headerPos)

	require.Equal(t, 0, table.Len())
	_, ok := table.Get("anything")
	require.False(t, ok)
}

// Determinism: building the same string keys twice, in the same insertion
// order, yields the same control-byte/key layout byte for byte — the
// archived form depends only on the keys, their insertion order and the
// fixed hasher, never on process state. Slot assignment does depend on
// insertion order: within a probe group, keys fill empty slots in the
// order they are inserted.
func TestStringKeyedDeterministicForSameInsertionOrder(t *testing.T) {
	t.Parallel()

	forward := []StringEntry[int32]{
		{Key: "foo", Value: 1},
		{Key: "bar", Value: 2},
		{Key: "baz", Value: 3},
		{Key: "bat", Value: 4},
	}
	again := make([]StringEntry[int32], len(forward))
	copy(again, forward)

	w1, pos1 := buildStringTable(t, forward)
	w2, pos2 := buildStringTable(t, again)

	require.Equal(t, w1.Bytes()[:pos1+int(unsafe.Sizeof(ArchivedStringKeyed[int32]{}))],
		w2.Bytes()[:pos2+int(unsafe.Sizeof(ArchivedStringKeyed[int32]{}))])
}

func TestStringKeyedIterationVisitsEveryEntry(t *testing.T) {
	t.Parallel()

	entries := []StringEntry[int32]{
		{Key: "foo", Value: 1},
		{Key: "bar", Value: 2},
		{Key: "baz", Value: 3},
		{Key: "bat", Value: 4},
	}

	w, headerPos := buildStringTable(t, entries)
	buf := w.Bytes()
	table := asStringKeyed(buf, headerPos)

	seen := map[string]int32{}
	for k, v := range table.All() {
		seen[k.String()] = *v
	}

	require.Len(t, seen, len(entries))
	for _, e := range entries {
		require.Equal(t, e.Value, seen[e.Key])
	}
}

func TestStringKeyedCheckBytesAccepts(t *testing.T) {
	t.Parallel()

	entries := []StringEntry[int32]{
		{Key: "foo", Value: 1},
		{Key: "a string long enough to live out-of-line in its archived form", Value: 2},
	}

	w, headerPos := buildStringTable(t, entries)
	buf := w.Bytes()
	table := asStringKeyed(buf, headerPos)

	ctx := validate.NewContext(len(buf))
	err := table.CheckBytes(headerPos, ctx, func(k *containers.ArchivedString, v *int32) error {
		return nil
	})
	require.NoError(t, err)
}
