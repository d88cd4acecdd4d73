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
	"github.com/flowzero/zkyv/internal/writer"
)

func TestBoxRoundTrip(t *testing.T) {
	t.Parallel()

	w := writer.New(0)
	valuePos, valuePlace := w.Reserve(4, 4)
	valuePlace.Set([]byte{42, 0, 0, 0})

	headerPos, headerPlace := w.Reserve(4, 4) // sizeof(RelPtr)
	if err := containers.ResolveBox[int32](headerPlace, headerPos, valuePos); err != nil {
		t.Fatal(err)
	}

	buf := w.Bytes()
	box := (*containers.ArchivedBox[int32])(unsafe.Pointer(&buf[headerPos]))
	got := *box.Get()
	if got != 42 {
		t.Fatalf("Get() = %d, want 42", got)
	}
}
