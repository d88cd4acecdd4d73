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

package zkyv

import (
	"unsafe"

	"github.com/flowzero/zkyv/internal/sync2"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/zkyverr"
)

// writerPool recycles Writer buffers across unrelated ToBytes calls, the
// same scratch-reuse idea as a per-goroutine frame-stack pool for a parse
// loop: the buffer's backing array is reused, but ToBytes still returns an
// owned copy, since the pooled buffer is reset (and may be handed to an
// unrelated caller) the moment ToBytes returns.
var writerPool = sync2.Pool[writer.Writer]{
	New:   func() *writer.Writer { return writer.New(256) },
	Reset: func(w *writer.Writer) { w.Reset() },
}

// ToBytes runs the three-phase layout algorithm against v using arc,
// returning the finished buffer with v's archived root at the tail: descend
// (arc.Serialize, recursively appending every dependency), align to A's
// alignment, then emplace (arc.Resolve fills the reserved root Place).
//
// Nothing written after the root could ever refer into it, so the returned
// buffer's last LayoutOf[A]() bytes are always exactly the root.
func ToBytes[T, A, R any](v *T, arc Archiver[T, A, R]) ([]byte, error) {
	w, drop := writerPool.Get()
	defer drop()

	s := NewSerializer(w)
	defer s.Free()

	resolver, err := arc.Serialize(v, s)
	if err != nil {
		return nil, err
	}

	size, align := writer.LayoutOf[A]()
	writer.ResolveAligned(w, size, align, func(place writer.Place) {
		arc.Resolve(v, resolver, place)
	})

	out := make([]byte, w.Pos())
	copy(out, w.Bytes())
	return out, nil
}

// Access validates buf and returns a pointer to its archived root of type
// A, per the "root at tail" convention: the root occupies the last
// LayoutOf[A]() bytes of buf.
//
// check walks the root's own fields, recursively validating every nested
// pointee; it is supplied by the caller (hand-written the way the scenario
// test in this package is) rather
// than discovered through a type assertion, since Go cannot express "the
// type argument A implements this method set" as a generic constraint on
// its own.
func Access[A any](buf []byte, check func(root *A, selfPos int, ctx *validate.Context) error) (*A, error) {
	size, align := writer.LayoutOf[A]()
	if len(buf) < size {
		return nil, zkyverr.New(zkyverr.ErrOutOfBounds, 0,
			"buffer of length %d is too small for an archived root of size %d", len(buf), size)
	}

	rootPos := len(buf) - size
	ctx := validate.NewContext(len(buf))
	if err := ctx.CheckAlign(rootPos, align); err != nil {
		return nil, err
	}

	root := (*A)(unsafe.Pointer(&buf[rootPos]))
	if err := check(root, rootPos, ctx); err != nil {
		return nil, err
	}
	return root, nil
}

// UnsafeAccess returns a pointer to buf's archived root without running
// any validation. The caller is responsible for knowing buf was produced
// by a trusted ToBytes call (or is otherwise known-good); reads through
// the returned pointer are undefined behavior if buf is malformed.
func UnsafeAccess[A any](buf []byte) *A {
	size, _ := writer.LayoutOf[A]()
	rootPos := len(buf) - size
	return (*A)(unsafe.Pointer(&buf[rootPos]))
}

// Deserialize reconstructs a T from archived using arc and the shared-
// pointer pool carried by d.
func Deserialize[A, T any](archived *A, d *Deserializer, arc Unarchiver[A, T]) (T, error) {
	return arc.Deserialize(archived, d)
}

// UnsafeDeserialize is Deserialize under the name matching UnsafeAccess;
// deserialization itself never re-validates (validation only ever happens
// in Access), so this performs no less checking than Deserialize — it
// exists so callers pairing UnsafeAccess with a deserialize step have a
// matching name to reach for.
func UnsafeDeserialize[A, T any](archived *A, d *Deserializer, arc Unarchiver[A, T]) (T, error) {
	return arc.Deserialize(archived, d)
}
