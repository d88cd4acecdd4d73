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

// Package zkyv is a zero-copy serialization framework: its archived
// representation is directly dereferenceable from a byte slice, without a
// decode step. A value is turned into bytes once, by [ToBytes]; every
// subsequent read walks the bytes in place through [Access], at the cost of
// one validation pass (or zero, via [UnsafeAccess]).
//
// A type participates by implementing [Archiver] for its own archived form
// A and resolver R. Composite types implement it by delegating to each
// field's own Archiver, the way every type in internal/containers does for
// the shapes it owns. These implementations are written by hand; there is
// no code generator for them.
package zkyv

import "github.com/flowzero/zkyv/internal/writer"

// Archiver is the capability a type T provides to be archived as A, with R
// carrying the positions Serialize discovers so Resolve can emplace them.
//
// Go has no associated types, so A and R are explicit type parameters
// rather than members of a single trait; otherwise the three-phase protocol
// is unchanged. A call site never
// constructs an Archiver value from T itself (most implementations are
// stateless); instead, implementations are ordinary functions grouped into
// a value satisfying this interface, usually named <Type>Archiver.
type Archiver[T, A, R any] interface {
	// Serialize descends into value's dependencies, appending any
	// referenced subtrees to s, and returns a resolver carrying whatever
	// positions Resolve will need.
	Serialize(value *T, s *Serializer) (R, error)

	// Resolve fully initializes out, the place reserved for value's
	// archived form, using positions carried in resolver.
	Resolve(value *T, resolver R, out writer.Place)
}

// Unarchiver is the capability to reconstruct a T from its archived form A,
// given a Deserializer carrying whatever shared-pointer pool the caller
// supplied.
type Unarchiver[A, T any] interface {
	Deserialize(archived *A, d *Deserializer) (T, error)
}
