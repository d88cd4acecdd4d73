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

// Package shared implements the "Share"/"Pool" strategies that preserve
// reference identity across a serialize/deserialize round trip: the
// writer-side Registry deduplicates shared targets by source address, and
// the reader-side Pool unifies archived pointers back into a single owned
// value.
//
// Both live exactly as long as one to_bytes/deserialize call: neither type
// is safe to reuse across unrelated operations, since addresses and
// offsets are only meaningful within the buffer they were recorded for.
package shared

import "github.com/flowzero/zkyv/zkyverr"

// State is the result of calling Registry.StartSharing for some address.
type State int

const (
	// NotStarted means this is the first time the address has been seen;
	// the caller must proceed to serialize it and call FinishSharing.
	NotStarted State = iota
	// Pending means another frame higher on the call stack is currently
	// serializing this address. Only valid for graphs that allow pending
	// shares (the "cycles allowed" flavor); see Registry.Strict.
	Pending
	// Finished means the address has already been fully serialized; the
	// caller should reuse Pos instead of serializing again.
	Finished
)

// Status is the result of a StartSharing call.
type Status struct {
	State State
	Pos   int // valid only when State == Finished
}

type entry struct {
	state State
	pos   int
}

// Registry is the writer-side "Share" strategy: a mapping from the address
// of a source value to the buffer position of its archived form.
type Registry struct {
	// Strict, when true, makes StartSharing return an error instead of
	// Pending: this is the "cycles forbidden" flavor required for strict
	// reference-counted types, where a pending share always indicates a
	// cycle.
	Strict bool

	entries map[uintptr]*entry
}

// NewRegistry returns an empty Registry for the Share strategy. strict
// selects whether pending shares (cycles) are permitted or rejected.
func NewRegistry(strict bool) *Registry {
	return &Registry{Strict: strict, entries: make(map[uintptr]*entry)}
}

// StartSharing records that addr is about to be serialized, returning
// whether this is the first time (NotStarted), it is already in progress
// (Pending), or it is already finished (Finished, with its position).
//
// If the Registry is Strict and addr is already Pending, this returns an
// error instead of Pending, per the "cycles forbidden" rule: a strict
// reference-counted type can never legitimately be revisited before its
// first serialization completes.
func (r *Registry) StartSharing(addr uintptr) (Status, error) {
	e, ok := r.entries[addr]
	if !ok {
		r.entries[addr] = &entry{state: Pending}
		return Status{State: NotStarted}, nil
	}

	switch e.state {
	case Finished:
		return Status{State: Finished, Pos: e.pos}, nil
	case Pending:
		if r.Strict {
			return Status{}, zkyverr.New(zkyverr.ErrCyclicShare, 0,
				"address %#x revisited while its first serialization is still pending", addr)
		}
		return Status{State: Pending}, nil
	default:
		panic("zkyv: shared: unreachable registry state")
	}
}

// FinishSharing records the buffer position of addr's now-complete archived
// form, so that later StartSharing calls for the same address return
// Finished.
func (r *Registry) FinishSharing(addr uintptr, pos int) {
	r.entries[addr] = &entry{state: Finished, pos: pos}
}
