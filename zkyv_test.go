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

package zkyv_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/flowzero/zkyv"
	"github.com/flowzero/zkyv/internal/containers"
	"github.com/flowzero/zkyv/internal/unsafe2"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
	"github.com/flowzero/zkyv/relptr"
)

// Test is a nested composite: an int, a string, and an optional slice of
// ints.
type Test struct {
	Int    int32
	String string
	Option []int32
}

// ArchivedTest is Test's archived form. String is embedded inline (it is
// itself inline-or-out-of-line, the same as any other archived string);
// Option is reached through a relative pointer rather than embedded inline,
// since composing an Option<Vec<T>> by value here would require reaching
// into containers.ArchivedOption's unexported layout from outside the
// package.
type ArchivedTest struct {
	Int    int32
	String containers.ArchivedString
	Option relptr.RelPtr[containers.ArchivedOption[containers.ArchivedVec[int32]]]
}

// TestResolver carries the positions Test's dependencies were serialized
// to, for testArchiver.Resolve to emplace.
type TestResolver struct {
	stringOutOfLine int
	optionPos       int
}

type testArchiver struct{}

func encodeInt32(v int32) []byte {
	b := make([]byte, 4)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return b
}

// optionValueOffset returns the byte offset of an ArchivedOption[T]'s value
// field: a single tag byte, then value rounded up to its own alignment,
// exactly how the Go compiler lays out a two-field struct.
func optionValueOffset(valueAlign int) int {
	return (1 + valueAlign - 1) &^ (valueAlign - 1)
}

func (testArchiver) Serialize(v *Test, s *zkyv.Serializer) (TestResolver, error) {
	var r TestResolver
	if len(v.String) > containers.InlineLimit {
		r.stringOutOfLine = containers.BuildStringBytes(s.W, v.String)
	}

	hasOption := v.Option != nil
	var vecFirst, vecLen int
	if hasOption {
		vecLen = len(v.Option)
		vecFirst = containers.BuildVec[int32](s.W, vecLen, func(i int, place writer.Place) {
			place.Set(encodeInt32(v.Option[i]))
		})
	}

	optSize, optAlign := writer.LayoutOf[containers.ArchivedOption[containers.ArchivedVec[int32]]]()
	optPos, optPlace := s.W.Reserve(optSize, optAlign)
	_, vecAlign := writer.LayoutOf[containers.ArchivedVec[int32]]()
	valueOffset := optionValueOffset(vecAlign)

	var emplaceErr error
	containers.ResolveOption[containers.ArchivedVec[int32]](optPlace, hasOption, func(vec *containers.ArchivedVec[int32]) {
		ptr, err := relptr.Emplace[int32](optPos+valueOffset, vecFirst)
		if err != nil {
			emplaceErr = err
			return
		}
		*vec = containers.NewArchivedVec[int32](ptr, vecLen)
	})
	if emplaceErr != nil {
		return r, emplaceErr
	}

	r.optionPos = optPos
	return r, nil
}

func (testArchiver) Resolve(v *Test, r TestResolver, out writer.Place) {
	var hdr ArchivedTest
	hdr.Int = v.Int

	stringPos := out.Pos() + int(unsafe.Offsetof(hdr.String))
	sw := writer.New(9)
	_, stringPlace := sw.Reserve(9, 1)
	if err := containers.ResolveString(stringPlace, stringPos, v.String, r.stringOutOfLine); err != nil {
		panic(err)
	}
	hdr.String = *(*containers.ArchivedString)(unsafe.Pointer(&sw.Bytes()[0]))

	optionFieldPos := out.Pos() + int(unsafe.Offsetof(hdr.Option))
	ptr, err := relptr.Emplace[containers.ArchivedOption[containers.ArchivedVec[int32]]](optionFieldPos, r.optionPos)
	if err != nil {
		panic(err)
	}
	hdr.Option = ptr

	out.Set(unsafe2.Bytes(&hdr))
}

func (testArchiver) Deserialize(a *ArchivedTest, d *zkyv.Deserializer) (Test, error) {
	v := Test{Int: a.Int, String: a.String.String()}
	opt := relptr.Follow(a.Option, &a.Option)
	if vec, ok := opt.Get(); ok {
		v.Option = make([]int32, vec.Len())
		for i, e := range vec.All() {
			v.Option[i] = *e
		}
	}
	return v, nil
}

func (testArchiver) CheckBytes(a *ArchivedTest, selfPos int, ctx *validate.Context) error {
	stringPos := selfPos + int(unsafe.Offsetof(a.String))
	if err := a.String.CheckBytes(stringPos, ctx); err != nil {
		return err
	}

	optionFieldPos := selfPos + int(unsafe.Offsetof(a.Option))
	optionPos := a.Option.TargetPos(optionFieldPos)
	optSize, optAlign := writer.LayoutOf[containers.ArchivedOption[containers.ArchivedVec[int32]]]()
	if err := ctx.CheckAlign(optionPos, optAlign); err != nil {
		return err
	}
	if err := ctx.Claim(optionPos, optSize); err != nil {
		return err
	}

	_, vecAlign := writer.LayoutOf[containers.ArchivedVec[int32]]()
	valueOffset := optionValueOffset(vecAlign)

	opt := relptr.Follow(a.Option, &a.Option)
	return opt.CheckBytes(optionPos, func(vec *containers.ArchivedVec[int32]) error {
		vecPos := optionPos + valueOffset
		return vec.CheckBytes(vecPos, ctx, func(i, elemPos int) error { return nil })
	})
}

func TestNestedCompositeRoundTrip(t *testing.T) {
	t.Parallel()

	in := Test{Int: 42, String: "hello world", Option: []int32{1, 2, 3, 4}}

	buf, err := zkyv.ToBytes[Test, ArchivedTest](&in, testArchiver{})
	require.NoError(t, err)

	arc, err := zkyv.Access[ArchivedTest](buf, testArchiver{}.CheckBytes)
	require.NoError(t, err)

	require.Equal(t, in.Int, arc.Int)
	require.Equal(t, in.String, arc.String.String())

	out, err := zkyv.Deserialize[ArchivedTest, Test](arc, zkyv.NewDeserializer(), testArchiver{})
	require.NoError(t, err)
	require.Equal(t, in, out)
}
