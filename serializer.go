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
	"github.com/flowzero/zkyv/internal/arena"
	"github.com/flowzero/zkyv/internal/shared"
	"github.com/flowzero/zkyv/internal/writer"
)

// Serializer is the default serializer every ToBytes call builds: a Writer
// to append to, a shared-pointer registry for types that opt into
// deduplication, and a scratch arena for resolver data that does not need
// to outlive one Serialize call.
type Serializer struct {
	W      *writer.Writer
	Shared *shared.Registry
	Arena  *arena.Arena
}

// NewSerializer returns a Serializer writing into w, with a lenient
// (cycles-allowed) shared-pointer registry and a fresh scratch arena.
//
// Use StrictSerializer for types whose sharing semantics forbid cycles
// (e.g. a strict reference count), which turns a pending share into
// zkyverr.ErrCyclicShare instead of silently permitting it.
func NewSerializer(w *writer.Writer) *Serializer {
	return &Serializer{
		W:      w,
		Shared: shared.NewRegistry(false),
		Arena:  new(arena.Arena),
	}
}

// StrictSerializer is NewSerializer, but with a strict (cycles-forbidden)
// shared-pointer registry.
func StrictSerializer(w *writer.Writer) *Serializer {
	s := NewSerializer(w)
	s.Shared = shared.NewRegistry(true)
	return s
}

// Free releases the Serializer's scratch arena. Callers that build many
// buffers in a loop should call this (or discard the Serializer) between
// iterations so the arena's memory does not accumulate.
func (s *Serializer) Free() {
	s.Arena.Free()
}
