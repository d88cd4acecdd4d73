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
	"math"

	"github.com/flowzero/zkyv/internal/prim"
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/relptr"
	"github.com/flowzero/zkyv/zkyverr"
)

const (
	optionNone byte = 0
	optionSome byte = 1
)

// ArchivedOption is the archived form of an Option that needs a separate
// discriminant, because T has no spare bit pattern to niche None into.
type ArchivedOption[T any] struct {
	tag   byte
	value T
}

// IsSome reports whether the option holds a value.
func (o *ArchivedOption[T]) IsSome() bool { return o.tag == optionSome }

// Get returns a pointer to the contained value, or nil, false if none.
func (o *ArchivedOption[T]) Get() (*T, bool) {
	if o.tag != optionSome {
		return nil, false
	}
	return &o.value, true
}

// ResolveOption fills the Place reserved for an ArchivedOption[T]: when
// some is false, resolveValue is never called and the value bytes stay
// zeroed.
func ResolveOption[T any](out writer.Place, some bool, resolveValue func(*T)) {
	var hdr ArchivedOption[T]
	if some {
		hdr.tag = optionSome
		resolveValue(&hdr.value)
	} else {
		hdr.tag = optionNone
	}
	out.Set(unsafe2.Bytes(&hdr))
}

// CheckBytes validates the tag and, if Some, delegates to checkValue for
// the payload's own validation.
func (o *ArchivedOption[T]) CheckBytes(selfPos int, checkValue func(*T) error) error {
	if o.tag != optionNone && o.tag != optionSome {
		return zkyverr.New(zkyverr.ErrBadDiscriminant, selfPos, "option tag %#x is neither None nor Some", o.tag)
	}
	if o.tag == optionSome {
		return checkValue(&o.value)
	}
	return nil
}

// Niche identifies a sentinel bit pattern of T that doubles as "None",
// letting ArchivedNichedOption[T, N] skip a separate discriminant byte
// entirely: the archived size is exactly sizeof(T).
type Niche[T any] interface {
	// IsNiche reports whether *v is currently the None sentinel.
	IsNiche(v *T) bool
	// SetNiche overwrites *v with the None sentinel.
	SetNiche(v *T)
}

// ArchivedNichedOption is the archived form of an Option[T] where T has a
// spare bit pattern (a Niche) that can represent None without a separate
// tag byte. No Niche implementation is provided for an
// ArchivedNichedOption itself, so two niched Option layers cannot share one
// payload; an outer Option over a niched one uses ArchivedOption and its
// tag byte.
type ArchivedNichedOption[T any, N Niche[T]] struct {
	value T
}

// Get returns a pointer to the contained value, or nil, false if the
// value is currently the niche sentinel.
func (o *ArchivedNichedOption[T, N]) Get() (*T, bool) {
	var n N
	if n.IsNiche(&o.value) {
		return nil, false
	}
	return &o.value, true
}

// ResolveNichedOption fills the Place reserved for an
// ArchivedNichedOption[T, N].
func ResolveNichedOption[T any, N Niche[T]](out writer.Place, some bool, resolveValue func(*T)) {
	var hdr ArchivedNichedOption[T, N]
	if some {
		resolveValue(&hdr.value)
	} else {
		var n N
		n.SetNiche(&hdr.value)
	}
	out.Set(unsafe2.Bytes(&hdr))
}

// CheckBytes validates the payload: if it is not the niche sentinel,
// checkValue validates it as a real T.
func (o *ArchivedNichedOption[T, N]) CheckBytes(checkValue func(*T) error) error {
	var n N
	if n.IsNiche(&o.value) {
		return nil
	}
	return checkValue(&o.value)
}

// NonZeroNiche niches a NonZero[T] Option on the value 0, which is already
// an invalid bit pattern for NonZero[T] on its own.
type NonZeroNiche[T prim.Unsigned] struct{}

func (NonZeroNiche[T]) IsNiche(v *prim.NonZero[T]) bool { return v.Value == 0 }
func (NonZeroNiche[T]) SetNiche(v *prim.NonZero[T])     { v.Value = 0 }

// RelPtrNiche niches a RelPtr[T] Option on the null pointer, which a
// pointer field needs no extra bits to represent.
type RelPtrNiche[T any] struct{}

func (RelPtrNiche[T]) IsNiche(v *relptr.RelPtr[T]) bool { return v.IsNull() }
func (RelPtrNiche[T]) SetNiche(v *relptr.RelPtr[T])     { *v = relptr.Null[T]() }

// Float32NaNNiche niches a float32 Option on a canonical NaN bit pattern.
type Float32NaNNiche struct{}

func (Float32NaNNiche) IsNiche(v *float32) bool { return math.Float32bits(*v) == math.Float32bits(float32(math.NaN())) }
func (Float32NaNNiche) SetNiche(v *float32)     { *v = float32(math.NaN()) }

// Float64NaNNiche niches a float64 Option on a canonical NaN bit pattern.
type Float64NaNNiche struct{}

func (Float64NaNNiche) IsNiche(v *float64) bool { return math.Float64bits(*v) == math.Float64bits(math.NaN()) }
func (Float64NaNNiche) SetNiche(v *float64)     { *v = math.NaN() }
