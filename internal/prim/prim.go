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

// Package prim defines the canonical, endian-fixed byte representation of
// every scalar this module can archive: the building block every container
// in internal/containers and internal/swiss is ultimately made of.
//
// Every archived primitive is little-endian, regardless of host byte order
// (see the package-level Non-goal on endian-adaptive reading). One-byte
// primitives and zero-sized primitives are their own archived form, since
// there is no byte order to fix.
package prim

import "encoding/binary"

// Order is the byte order used by every multi-byte archived primitive.
//
// Fixed at little-endian; there is no runtime or per-archive override, since
// this module treats endianness as a closed compile-time choice.
var Order = binary.LittleEndian

// FixedUsize is the unsigned counterpart of FixedIsize: the type used for
// archived lengths, capacities, and other non-negative quantities whose
// width tracks the configured offset width.
type FixedUsize = uint32

// FixedIsize is the signed, fixed-width integer used by every relative
// pointer in this module. Its width is a format-level choice (16/32/64
// bits in the abstract spec); this module freezes it at 32 bits, matching
// the "default offset width 32" external interface.
//
// A build tag variant is not provided: unlike a derive-macro-based
// implementation, Go has only one relptr.RelPtr[T] instantiation process-
// wide, so picking a width here is equivalent to picking it globally.
type FixedIsize = int32

// Bool is the archived form of bool: exactly one byte, required to be 0x00
// or 0x01. Any other byte is an invalid bit pattern (see zkyverr).
type Bool = byte

const (
	False Bool = 0
	True  Bool = 1
)

// ValidBool reports whether b is a valid archived Bool.
func ValidBool(b Bool) bool {
	return b == False || b == True
}

// Char is the archived form of a Unicode scalar value: 4 bytes, little
// endian, excluding the surrogate range (U+D800..U+DFFF) and anything
// beyond U+10FFFF.
type Char = uint32

// ValidChar reports whether c is a valid archived Char: not a surrogate,
// and within the Unicode range.
func ValidChar(c Char) bool {
	if c > 0x10FFFF {
		return false
	}
	return c < 0xD800 || c > 0xDFFF
}

// Duration is the archived form of a wall-clock duration: a 12-byte pair of
// u64 seconds and u32 nanoseconds, with nanos required to be less than 1e9.
type Duration struct {
	Seconds uint64
	Nanos   uint32
}

// ValidDuration reports whether d carries a normalized nanosecond count.
func ValidDuration(d Duration) bool {
	return d.Nanos < 1_000_000_000
}
