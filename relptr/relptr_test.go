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

package relptr_test

import (
	"testing"

	"github.com/flowzero/zkyv/relptr"
)

func TestNullIsZero(t *testing.T) {
	t.Parallel()

	var r relptr.RelPtr[int]
	if !r.IsNull() {
		t.Fatal("zero value must be null")
	}
	if relptr.Null[int]() != r {
		t.Fatal("Null() must equal the zero value")
	}
}

func TestEmplaceInverse(t *testing.T) {
	t.Parallel()

	// Emplacing a pointer from p to q, then recomputing q from p and the
	// offset, must round-trip for any representable distance.
	cases := []struct{ from, to int }{
		{0, 128},
		{128, 0},
		{1000, 1},
		{1, 1000},
	}
	for _, c := range cases {
		r, err := relptr.Emplace[byte](c.from, c.to)
		if err != nil {
			t.Fatalf("Emplace(%d, %d): %v", c.from, c.to, err)
		}
		if got := r.TargetPos(c.from); got != c.to {
			t.Errorf("TargetPos: got %d, want %d", got, c.to)
		}
	}
}

func TestEmplaceOverflow(t *testing.T) {
	t.Parallel()

	_, err := relptr.Emplace[byte](0, 1<<40)
	if err == nil {
		t.Fatal("expected an overflow error")
	}
}

func TestEmplaceSelfPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a self-referential offset")
		}
	}()
	_, _ = relptr.Emplace[byte](42, 42)
}
