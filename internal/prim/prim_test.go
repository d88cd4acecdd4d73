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

package prim_test

import (
	"testing"

	"github.com/flowzero/zkyv/internal/prim"
)

func TestValidBool(t *testing.T) {
	t.Parallel()

	if !prim.ValidBool(prim.False) || !prim.ValidBool(prim.True) {
		t.Fatal("expected 0x00 and 0x01 to be valid")
	}
	for _, b := range []prim.Bool{2, 0xff, 0x80} {
		if prim.ValidBool(b) {
			t.Fatalf("expected %#x to be invalid", b)
		}
	}
}

func TestValidChar(t *testing.T) {
	t.Parallel()

	cases := []struct {
		c     prim.Char
		valid bool
	}{
		{'a', true},
		{0x10FFFF, true},
		{0x110000, false},
		{0xD800, false},
		{0xDFFF, false},
		{0xDFFF + 1, true},
	}
	for _, c := range cases {
		if got := prim.ValidChar(c.c); got != c.valid {
			t.Errorf("ValidChar(%#x) = %v, want %v", c.c, got, c.valid)
		}
	}
}

func TestValidDuration(t *testing.T) {
	t.Parallel()

	if !prim.ValidDuration(prim.Duration{Seconds: 1, Nanos: 999_999_999}) {
		t.Fatal("expected max valid nanos to be accepted")
	}
	if prim.ValidDuration(prim.Duration{Seconds: 1, Nanos: 1_000_000_000}) {
		t.Fatal("expected 1e9 nanos to be rejected")
	}
}

func TestValidNonZero(t *testing.T) {
	t.Parallel()

	if prim.ValidNonZero(prim.NonZero[uint32]{Value: 0}) {
		t.Fatal("expected zero to be invalid")
	}
	if !prim.ValidNonZero(prim.NonZero[uint32]{Value: 1}) {
		t.Fatal("expected one to be valid")
	}
}
