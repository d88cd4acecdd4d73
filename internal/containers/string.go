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
	"unicode/utf8"
	"unsafe"

	"github.com/flowzero/zkyv/internal/prim"
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/relptr"
	"github.com/flowzero/zkyv/zkyverr"
)

// inlineLimit is the longest string storable inline in an ArchivedString's
// body field, rather than out-of-line via a relative pointer:
// sizeof(RelPtr) + sizeof(FixedUsize) - 1, the byte budget the ptr+len pair
// would otherwise occupy in the out-of-line representation, minus one byte
// so the remaining tag/length byte still fits in the same fixed footprint.
const inlineLimit = 4 + 4 - 1 // sizeof(FixedIsize) + sizeof(FixedUsize) - 1

// InlineLimit is the longest string an ArchivedString stores inline; callers
// building one from outside this package (to decide whether
// BuildStringBytes is needed) use this rather than duplicating the
// computation.
const InlineLimit = inlineLimit

// inlineTag marks the body as holding an out-of-line {ptr, len} pair rather
// than inline bytes. It is one past the largest valid inline length, so a
// single byte comparison distinguishes the two representations.
const inlineTag = byte(inlineLimit + 1)

// ArchivedString is the archived form of a string.
//
// body is deliberately a raw byte array rather than a struct of typed
// fields: the out-of-line {ptr int32, len uint32} pair it sometimes holds
// starts at body[0], one byte past ArchivedString's own start, so it is
// never 4-byte aligned relative to the containing buffer. Decoding it with
// prim.Order byte-at-a-time (rather than a pointer cast) sidesteps that
// entirely, at the cost of needing explicit encode/decode helpers below.
type ArchivedString struct {
	lenOrTag byte
	body     [inlineLimit + 1]byte
}

// Len returns the string's length in bytes.
func (s *ArchivedString) Len() int {
	if s.lenOrTag != inlineTag {
		return int(s.lenOrTag)
	}
	return int(prim.Order.Uint32(s.body[4:8]))
}

// String returns the string's contents. For an inline string the result is
// a copy; for an out-of-line string it aliases the archive buffer
// directly, and must not outlive it.
func (s *ArchivedString) String() string {
	if s.lenOrTag != inlineTag {
		return string(s.body[:s.lenOrTag])
	}
	n := s.Len()
	if n == 0 {
		return ""
	}
	data := s.outOfLineData()
	return unsafe2.String(data, n)
}

// outOfLineData recovers the pointer to an out-of-line string's bytes by
// reading the raw little-endian offset out of body[0:4] and applying it to
// body[0]'s own address, exactly mirroring what relptr.Follow does for a
// properly aligned RelPtr field.
func (s *ArchivedString) outOfLineData() *byte {
	offset := prim.FixedIsize(prim.Order.Uint32(s.body[0:4]))
	return unsafe2.ByteAdd(&s.body[0], offset)
}

// EncodeStringBytes returns the raw archived bytes for a string header,
// for a caller assembling its own surrounding region as raw bytes (e.g. a
// string-keyed hash table's key array, built in a scratch buffer rather
// than a reserved writer.Place) instead of calling ResolveString directly.
func EncodeStringBytes(headerPos int, value string, outOfLinePos int) ([]byte, error) {
	var hdr ArchivedString
	if len(value) <= inlineLimit {
		hdr.lenOrTag = byte(len(value))
		copy(hdr.body[:], value)
		return unsafe2.Bytes(&hdr), nil
	}

	// The out-of-line pointer's own position is one byte into the header
	// (past lenOrTag), since that is where body[0:4] lives.
	ptr, err := relptr.Emplace[byte](headerPos+1, outOfLinePos)
	if err != nil {
		return nil, err
	}
	hdr.lenOrTag = inlineTag
	prim.Order.PutUint32(hdr.body[0:4], uint32(ptr.Offset()))
	prim.Order.PutUint32(hdr.body[4:8], uint32(len(value)))
	return unsafe2.Bytes(&hdr), nil
}

// ResolveString fills the Place reserved for an ArchivedString, given the
// source string value, the position the string header itself occupies,
// and (for strings longer than inlineLimit) the position its bytes were
// already written to via BuildStringBytes.
func ResolveString(out writer.Place, headerPos int, value string, outOfLinePos int) error {
	b, err := EncodeStringBytes(headerPos, value, outOfLinePos)
	if err != nil {
		return err
	}
	out.Set(b)
	return nil
}

// BuildStringBytes writes value's raw bytes out-of-line, for strings longer
// than inlineLimit, and returns their position. Not needed (and not
// called) for strings short enough to store inline.
func BuildStringBytes(w *writer.Writer, value string) int {
	return w.Write(unsafe.Slice(unsafe.StringData(value), len(value)))
}

// CheckBytes validates an ArchivedString: inline strings need no further
// checks beyond their own already-claimed header bytes, while out-of-line
// strings must claim their backing byte run. Either way, the decoded
// content must be valid UTF-8.
func (s *ArchivedString) CheckBytes(selfPos int, ctx *validate.Context) error {
	if s.lenOrTag == inlineTag {
		n := s.Len()
		if n > 0 {
			offset := int(prim.FixedIsize(prim.Order.Uint32(s.body[0:4])))
			pos := selfPos + 1 + offset
			if err := ctx.Claim(pos, n); err != nil {
				return err
			}
		}
	} else if int(s.lenOrTag) > inlineLimit {
		return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos,
			"inline string length %d exceeds the inline limit %d", s.lenOrTag, inlineLimit)
	}

	if !utf8.ValidString(s.String()) {
		return zkyverr.New(zkyverr.ErrInvalidBitPattern, selfPos, "archived string is not valid UTF-8")
	}
	return nil
}
