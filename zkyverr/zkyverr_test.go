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

package zkyverr_test

import (
	"errors"
	"testing"

	"github.com/flowzero/zkyv/zkyverr"
)

func TestUnwrapMatchesCause(t *testing.T) {
	t.Parallel()

	err := zkyverr.New(zkyverr.ErrOutOfBounds, 42, "target %d exceeds buffer length %d", 100, 64)
	if !errors.Is(err, zkyverr.ErrOutOfBounds) {
		t.Fatal("expected errors.Is to match the wrapped cause")
	}
	if errors.Is(err, zkyverr.ErrMisaligned) {
		t.Fatal("expected errors.Is to reject an unrelated cause")
	}
	if err.Offset() != 42 {
		t.Fatalf("Offset() = %d, want 42", err.Offset())
	}
}
