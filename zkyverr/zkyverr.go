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

// Package zkyverr defines the error taxonomy shared by serialization,
// validation, and deserialization: a small closed set of sentinel causes,
// each wrapped in a concrete *Error carrying the buffer offset at which it
// was detected.
//
// Errors are surfaced, never swallowed: there is no retry at this layer,
// and a single failure aborts the whole operation (the caller's buffer, if
// any, is left exactly as far along as it got).
package zkyverr

import "fmt"

// Cause is a sentinel identifying which failure-taxonomy entry an Error
// wraps. Compare against the package-level Err* values with errors.Is.
type Cause struct {
	name string
}

func (c *Cause) Error() string { return c.name }

// Writer-side causes.
var (
	ErrWriter          = &Cause{"writer failure"}
	ErrOffsetOverflow  = &Cause{"relative offset does not fit in the configured width"}
	ErrScratchExhausted = &Cause{"scratch arena exhausted"}
	ErrBadLayout       = &Cause{"layout impossible: size/align cannot be expressed"}
	ErrCyclicShare     = &Cause{"shared pointer cycle forbidden under strict reference counting"}
)

// Validation causes.
var (
	ErrMisaligned       = &Cause{"buffer or pointee misaligned"}
	ErrOutOfBounds      = &Cause{"offset targets out-of-bounds range"}
	ErrInvalidBitPattern = &Cause{"invalid bit pattern"}
	ErrOverlappingClaim = &Cause{"overlapping subtree claim"}
	ErrSharedTypeConflict = &Cause{"shared pointer re-registered with a conflicting type"}
	ErrBadDiscriminant  = &Cause{"invalid enum discriminant"}
)

// Deserialization causes.
var (
	ErrDuplicateShared  = &Cause{"duplicate shared pointer in pool"}
	ErrAllocFailed      = &Cause{"allocation failed"}
)

// Error is a failure detected at a specific byte offset in a buffer (or, on
// the writer side, in the output being built). It always wraps exactly one
// Cause.
type Error struct {
	cause  *Cause
	offset int
	detail string
}

// New constructs an Error for the given cause at the given offset, with an
// optional formatted detail message.
func New(cause *Cause, offset int, format string, args ...any) *Error {
	return &Error{
		cause:  cause,
		offset: offset,
		detail: fmt.Sprintf(format, args...),
	}
}

// Offset returns the byte offset at which this error was detected.
func (e *Error) Offset() int { return e.offset }

// Unwrap returns the sentinel Cause, so errors.Is(err, zkyverr.ErrOutOfBounds)
// works regardless of the detail text.
func (e *Error) Unwrap() error { return e.cause }

// Error implements the error interface.
func (e *Error) Error() string {
	if e.detail == "" {
		return fmt.Sprintf("zkyv: %s (at offset %d)", e.cause.Error(), e.offset)
	}
	return fmt.Sprintf("zkyv: %s (at offset %d): %s", e.cause.Error(), e.offset, e.detail)
}
