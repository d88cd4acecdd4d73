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

func buildString(t *testing.T, value string) (buf []byte, headerPos int) {
	t.Helper()

	w := writer.New(0)
	var outOfLinePos int
	if len(value) > 7 {
		outOfLinePos = containers.BuildStringBytes(w, value)
	}

	pos, place := w.Reserve(9, 1)
	if err := containers.ResolveString(place, pos, value, outOfLinePos); err != nil {
		t.Fatal(err)
	}
	return w.Bytes(), pos
}

func TestStringInline(t *testing.T) {
	t.Parallel()

	buf, pos := buildString(t, "hi")
	s := (*containers.ArchivedString)(unsafe.Pointer(&buf[pos]))
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.String() != "hi" {
		t.Fatalf("String() = %q, want %q", s.String(), "hi")
	}

	ctx := validate.NewContext(len(buf))
	if err := s.CheckBytes(pos, ctx); err != nil {
		t.Fatalf("CheckBytes: %v", err)
	}
}

func TestStringInlineLimit(t *testing.T) {
	t.Parallel()

	value := "1234567" // exactly 7 bytes, the inline limit
	buf, pos := buildString(t, value)
	s := (*containers.ArchivedString)(unsafe.Pointer(&buf[pos]))
	if s.String() != value {
		t.Fatalf("String() = %q, want %q", s.String(), value)
	}
}

func TestStringOutOfLine(t *testing.T) {
	t.Parallel()

	value := "this string is definitely longer than the inline limit"
	buf, pos := buildString(t, value)
	s := (*containers.ArchivedString)(unsafe.Pointer(&buf[pos]))
	if s.Len() != len(value) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(value))
	}
	if s.String() != value {
		t.Fatalf("String() = %q, want %q", s.String(), value)
	}

	ctx := validate.NewContext(len(buf))
	if err := s.CheckBytes(pos, ctx); err != nil {
		t.Fatalf("CheckBytes: %v", err)
	}
}

func TestStringEmpty(t *testing.T) {
	t.Parallel()

	buf, pos := buildString(t, "")
	s := (*containers.ArchivedString)(unsafe.Pointer(&buf[pos]))
	if s.Len() != 0 || s.String() != "" {
		t.Fatalf("expected an empty string, got %q", s.String())
	}
}
