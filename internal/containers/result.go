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
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/zkyverr"
)

const (
	resultOk  byte = 0
	resultErr byte = 1
)

// ArchivedResult is the archived form of a two-variant tagged union: either
// a T (Ok) or an E (Err). The struct stores the tag followed by separate
// fields for both payloads, so its size covers a T and an E side by side;
// the payloads do not share storage. Only the payload the tag selects is
// written, and the other stays zeroed.
type ArchivedResult[T, E any] struct {
	tag byte
	ok  T
	err E
}

// IsOk reports whether the result holds a T.
func (r *ArchivedResult[T, E]) IsOk() bool { return r.tag == resultOk }

// Ok returns a pointer to the Ok payload, or nil, false if this is an Err.
func (r *ArchivedResult[T, E]) Ok() (*T, bool) {
	if r.tag != resultOk {
		return nil, false
	}
	return &r.ok, true
}

// Err returns a pointer to the Err payload, or nil, false if this is Ok.
func (r *ArchivedResult[T, E]) Err() (*E, bool) {
	if r.tag != resultErr {
		return nil, false
	}
	return &r.err, true
}

// ResolveOk fills the Place reserved for an ArchivedResult[T, E] as the Ok
// variant.
func ResolveOk[T, E any](out writer.Place, resolveValue func(*T)) {
	var hdr ArchivedResult[T, E]
	hdr.tag = resultOk
	resolveValue(&hdr.ok)
	out.Set(unsafe2.Bytes(&hdr))
}

// ResolveErr fills the Place reserved for an ArchivedResult[T, E] as the
// Err variant.
func ResolveErr[T, E any](out writer.Place, resolveValue func(*E)) {
	var hdr ArchivedResult[T, E]
	hdr.tag = resultErr
	resolveValue(&hdr.err)
	out.Set(unsafe2.Bytes(&hdr))
}

// CheckBytes validates the tag and delegates to whichever of checkOk or
// checkErr matches the active variant.
func (r *ArchivedResult[T, E]) CheckBytes(selfPos int, checkOk func(*T) error, checkErr func(*E) error) error {
	switch r.tag {
	case resultOk:
		return checkOk(&r.ok)
	case resultErr:
		return checkErr(&r.err)
	default:
		return zkyverr.New(zkyverr.ErrBadDiscriminant, selfPos, "result tag %#x is neither Ok nor Err", r.tag)
	}
}
