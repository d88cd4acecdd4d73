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

package shared

import (
	"reflect"

	"github.com/flowzero/zkyv/zkyverr"
)

// poolEntry is one deserialized shared value, keyed by the archive offset
// its RelPtr resolved to.
type poolEntry struct {
	typ   reflect.Type
	value any
}

// Pool is the reader-side "Pool" strategy: every distinct archive offset
// reachable through a shared pointer deserializes to exactly one owned Go
// value, which every pointer to that offset then shares.
//
// Pool is not safe for concurrent use; callers needing concurrent
// deserialization of independent subtrees should partition offsets across
// per-goroutine pools, or synchronize externally.
type Pool struct {
	entries map[int]*poolEntry
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{entries: make(map[int]*poolEntry)}
}

// Get returns the previously-deserialized value at offset, if any. The
// caller supplies T so the pool can detect a conflicting deserialization of
// the same offset as two incompatible types, which signals a malformed or
// adversarial archive (two RelPtr[T]/RelPtr[U] with T != U resolving to the
// same position).
func Get[T any](p *Pool, offset int) (value T, found bool, err error) {
	e, ok := p.entries[offset]
	if !ok {
		return value, false, nil
	}

	want := reflect.TypeFor[T]()
	if e.typ != want {
		return value, false, zkyverr.New(zkyverr.ErrSharedTypeConflict, offset,
			"shared pointer at offset %d previously deserialized as %v, now requested as %v",
			offset, e.typ, want)
	}

	return e.value.(T), true, nil
}

// Put records value as the owned deserialization of offset, so later Get
// calls for the same offset return it instead of deserializing again.
//
// Put panics if offset was already populated: callers must always Get
// first and only deserialize (then Put) on a miss, since a duplicate Put
// indicates the caller deserialized the same shared target twice.
func Put[T any](p *Pool, offset int, value T) {
	if _, ok := p.entries[offset]; ok {
		panic("zkyv: shared: duplicate Put for an already-pooled offset")
	}
	p.entries[offset] = &poolEntry{typ: reflect.TypeFor[T](), value: value}
}
