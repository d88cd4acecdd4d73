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

func TestResultOk(t *testing.T) {
	t.Parallel()

	w := writer.New(0)
	pos, place := w.Reserve(12, 4) // tag + padding + max(int32, int32)*2 conservatively
	containers.ResolveOk[int32, int32](place, func(v *int32) { *v = 9 })
	buf := w.Bytes()

	res := (*containers.ArchivedResult[int32, int32])(unsafe.Pointer(&buf[pos]))
	if !res.IsOk() {
		t.Fatal("expected IsOk() == true")
	}
	v, ok := res.Ok()
	if !ok || *v != 9 {
		t.Fatalf("Ok() = (%v, %v), want (9, true)", v, ok)
	}
	if _, ok := res.Err(); ok {
		t.Fatal("expected Err() to report ok=false for an Ok result")
	}
}

func TestResultErr(t *testing.T) {
	t.Parallel()

	w := writer.New(0)
	pos, place := w.Reserve(12, 4)
	containers.ResolveErr[int32, int32](place, func(e *int32) { *e = -1 })
	buf := w.Bytes()

	res := (*containers.ArchivedResult[int32, int32])(unsafe.Pointer(&buf[pos]))
	if res.IsOk() {
		t.Fatal("expected IsOk() == false")
	}
	e, ok := res.Err()
	if !ok || *e != -1 {
		t.Fatalf("Err() = (%v, %v), want (-1, true)", e, ok)
	}
}
