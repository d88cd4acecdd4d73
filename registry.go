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

	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/internal/xsync"
)

// DynamicEntry describes one archived type registered for trait-object-
// style polymorphic dispatch: its layout, plus a validation routine closed
// over the type parameter so a caller holding only a type-id can still walk
// an instance of it.
type DynamicEntry struct {
	Size, Align int
	CheckBytes  func(buf []byte, selfPos int, ctx *validate.Context) error
}

// dynamicTypes is the process-wide, init-once registry mapping a type-id to
// its DynamicEntry. Go has no startup-time registration facility the way a
// derive macro's static constructor does, so population is explicit, via
// RegisterDynamic.
var dynamicTypes xsync.Map[uint64, DynamicEntry]

// RegisterDynamic registers A, the archived form of some concrete type, as
// the target of a polymorphic pointer carrying typeID. checkBytes validates
// one instance of A at a given position.
//
// Intended to run from an init func, once per concrete type a program's
// polymorphic fields may resolve to; registering the same typeID twice
// silently replaces the previous entry; callers are responsible for typeID
// uniqueness across their program.
func RegisterDynamic[A any](typeID uint64, checkBytes func(a *A, selfPos int, ctx *validate.Context) error) {
	size, align := writer.LayoutOf[A]()
	dynamicTypes.Store(typeID, DynamicEntry{
		Size:  size,
		Align: align,
		CheckBytes: func(buf []byte, selfPos int, ctx *validate.Context) error {
			a := (*A)(unsafe.Pointer(&buf[selfPos]))
			return checkBytes(a, selfPos, ctx)
		},
	})
}

// LookupDynamic returns the entry registered for typeID, if any.
func LookupDynamic(typeID uint64) (DynamicEntry, bool) {
	return dynamicTypes.Load(typeID)
}
