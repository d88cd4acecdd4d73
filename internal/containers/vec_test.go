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

package containers_test

import (
	"testing"
	"unsafe"

	"github.com/flowzero/zkyv/internal/containers"
	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/internal/writer"
)

func TestVecRoundTrip(t *testing.T) {
	t.Parallel()

	values := []int32{10, 20, 30, 40, 50}

	w := writer.New(0)
	first := containers.BuildVec[int32](w, len(values), func(i int, place writer.Place) {
		b := make([]byte, 4)
		b[0] = byte(values[i])
		place.Set(b)
	})

	headerPos, headerPlace := w.Reserve(8, 4) // sizeof(RelPtr) + sizeof(FixedUsize)
	if err := containers.ResolveVec[int32](headerPlace, headerPos, first, len(values)); err != nil {
		t.Fatal(err)
	}

	buf := w.Bytes()
	vec := (*containers.ArchivedVec[int32])(unsafe.Pointer(&buf[headerPos]))
	if vec.Len() != len(values) {
		t.Fatalf("Len() = %d, want %d", vec.Len(), len(values))
	}
	for i, want := range values {
		if got := *vec.Get(i); got != want {
			t.Fatalf("Get(%d) = %d, want %d", i, got, want)
		}
	}

	ctx := validate.NewContext(len(buf))
	if err := vec.CheckBytes(headerPos, ctx, func(i, elemPos int) error { return nil }); err != nil {
		t.Fatalf("CheckBytes: %v", err)
	}
}

func TestEmptyVec(t *testing.T) {
	t.Parallel()

	w := writer.New(0)
	headerPos, headerPlace := w.Reserve(8, 4)
	if err := containers.ResolveVec[int32](headerPlace, headerPos, 0, 0); err != nil {
		t.Fatal(err)
	}

	buf := w.Bytes()
	vec := (*containers.ArchivedVec[int32])(unsafe.Pointer(&buf[headerPos]))
	if vec.Len() != 0 || !vec.IsEmpty() {
		t.Fatalf("expected an empty vec, got Len()=%d", vec.Len())
	}

	ctx := validate.NewContext(len(buf))
	if err := vec.CheckBytes(headerPos, ctx, func(i, elemPos int) error {
		t.Fatal("checkElem should not be called for an empty vec")
		return nil
	}); err != nil {
		t.Fatalf("CheckBytes: %v", err)
	}
}
