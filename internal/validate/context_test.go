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

package validate_test

import (
	"errors"
	"testing"

	"github.com/flowzero/zkyv/internal/validate"
	"github.com/flowzero/zkyv/zkyverr"
)

func TestCheckAlign(t *testing.T) {
	t.Parallel()

	c := validate.NewContext(64)
	if err := c.CheckAlign(8, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.CheckAlign(7, 4); !errors.Is(err, zkyverr.ErrMisaligned) {
		t.Fatalf("err = %v, want ErrMisaligned", err)
	}
}

func TestCheckRangeOutOfBounds(t *testing.T) {
	t.Parallel()

	c := validate.NewContext(16)
	if err := c.CheckRange(0, 16); err != nil {
		t.Fatalf("unexpected error for exact fit: %v", err)
	}
	if err := c.CheckRange(8, 16); !errors.Is(err, zkyverr.ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	if err := c.CheckRange(-1, 4); !errors.Is(err, zkyverr.ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds for negative offset", err)
	}
}

func TestClaimRejectsOverlap(t *testing.T) {
	t.Parallel()

	c := validate.NewContext(64)
	if err := c.Claim(0, 16); err != nil {
		t.Fatal(err)
	}
	if err := c.Claim(16, 16); err != nil {
		t.Fatalf("adjacent, non-overlapping claim should succeed: %v", err)
	}
	if err := c.Claim(8, 8); !errors.Is(err, zkyverr.ErrOverlappingClaim) {
		t.Fatalf("err = %v, want ErrOverlappingClaim", err)
	}
	if err := c.Claim(31, 2); !errors.Is(err, zkyverr.ErrOverlappingClaim) {
		t.Fatalf("err = %v, want ErrOverlappingClaim spanning into existing claim", err)
	}
}

func TestClaimOutOfOrderInsertion(t *testing.T) {
	t.Parallel()

	c := validate.NewContext(64)
	if err := c.Claim(32, 8); err != nil {
		t.Fatal(err)
	}
	if err := c.Claim(0, 8); err != nil {
		t.Fatal(err)
	}
	if err := c.Claim(16, 8); err != nil {
		t.Fatal(err)
	}
	if err := c.Claim(8, 8); err != nil {
		t.Fatalf("non-overlapping gap-fill claim should succeed: %v", err)
	}
}

func TestRegisterSharedFirstThenSameType(t *testing.T) {
	t.Parallel()

	c := validate.NewContext(64)
	first, err := validate.RegisterShared[int](c, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !first {
		t.Fatal("expected first registration to report first=true")
	}

	first, err = validate.RegisterShared[int](c, 8)
	if err != nil {
		t.Fatal(err)
	}
	if first {
		t.Fatal("expected second registration of the same type to report first=false")
	}
}

func TestRegisterSharedConflict(t *testing.T) {
	t.Parallel()

	c := validate.NewContext(64)
	if _, err := validate.RegisterShared[int](c, 8); err != nil {
		t.Fatal(err)
	}
	if _, err := validate.RegisterShared[string](c, 8); !errors.Is(err, zkyverr.ErrSharedTypeConflict) {
		t.Fatalf("err = %v, want ErrSharedTypeConflict", err)
	}
}
