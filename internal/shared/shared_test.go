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

package shared_test

import (
	"errors"
	"iter"
	"testing"

	"github.com/flowzero/zkyv/internal/shared"
	"github.com/flowzero/zkyv/zkyverr"
)

func TestRegistryFirstVisitIsNotStarted(t *testing.T) {
	t.Parallel()

	r := shared.NewRegistry(false)
	st, err := r.StartSharing(0x1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.State != shared.NotStarted {
		t.Fatalf("State = %v, want NotStarted", st.State)
	}
}

func TestRegistryFinishedIsReused(t *testing.T) {
	t.Parallel()

	r := shared.NewRegistry(false)
	if _, err := r.StartSharing(0x1000); err != nil {
		t.Fatal(err)
	}
	r.FinishSharing(0x1000, 42)

	st, err := r.StartSharing(0x1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.State != shared.Finished || st.Pos != 42 {
		t.Fatalf("Status = %+v, want Finished at 42", st)
	}
}

func TestRegistryLenientAllowsPending(t *testing.T) {
	t.Parallel()

	r := shared.NewRegistry(false)
	if _, err := r.StartSharing(0x1000); err != nil {
		t.Fatal(err)
	}

	st, err := r.StartSharing(0x1000)
	if err != nil {
		t.Fatalf("unexpected error in non-strict mode: %v", err)
	}
	if st.State != shared.Pending {
		t.Fatalf("State = %v, want Pending", st.State)
	}
}

func TestRegistryStrictRejectsPending(t *testing.T) {
	t.Parallel()

	r := shared.NewRegistry(true)
	if _, err := r.StartSharing(0x1000); err != nil {
		t.Fatal(err)
	}

	_, err := r.StartSharing(0x1000)
	if !errors.Is(err, zkyverr.ErrCyclicShare) {
		t.Fatalf("err = %v, want ErrCyclicShare", err)
	}
}

func TestPoolGetMissThenPut(t *testing.T) {
	t.Parallel()

	p := shared.NewPool()
	if _, found, err := shared.Get[int](p, 8); found || err != nil {
		t.Fatalf("expected a clean miss, got found=%v err=%v", found, err)
	}

	shared.Put(p, 8, 123)

	got, found, err := shared.Get[int](p, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !found || got != 123 {
		t.Fatalf("Get = (%v, %v), want (123, true)", got, found)
	}
}

func TestPoolTypeConflict(t *testing.T) {
	t.Parallel()

	p := shared.NewPool()
	shared.Put(p, 8, "a string")

	_, _, err := shared.Get[int](p, 8)
	if !errors.Is(err, zkyverr.ErrSharedTypeConflict) {
		t.Fatalf("err = %v, want ErrSharedTypeConflict", err)
	}
}

func TestPoolDuplicatePutPanics(t *testing.T) {
	t.Parallel()

	p := shared.NewPool()
	shared.Put(p, 8, 1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on duplicate Put")
		}
	}()
	shared.Put(p, 8, 2)
}

func graphOf(edges map[uintptr][]uintptr) func(uintptr) iter.Seq[uintptr] {
	return func(n uintptr) iter.Seq[uintptr] {
		return func(yield func(uintptr) bool) {
			for _, dep := range edges[n] {
				if !yield(dep) {
					return
				}
			}
		}
	}
}

func TestCheckAcyclicAcceptsDAG(t *testing.T) {
	t.Parallel()

	g := graphOf(map[uintptr][]uintptr{
		1: {2, 3},
		2: {3},
		3: {},
	})
	if err := shared.CheckAcyclic(1, g); err != nil {
		t.Fatalf("unexpected error on a DAG: %v", err)
	}
}

func TestCheckAcyclicRejectsCycle(t *testing.T) {
	t.Parallel()

	g := graphOf(map[uintptr][]uintptr{
		1: {2},
		2: {3},
		3: {1},
	})
	if err := shared.CheckAcyclic(1, g); !errors.Is(err, zkyverr.ErrCyclicShare) {
		t.Fatalf("err = %v, want ErrCyclicShare", err)
	}
}

func TestCheckAcyclicRejectsSelfLoop(t *testing.T) {
	t.Parallel()

	g := graphOf(map[uintptr][]uintptr{
		1: {1},
	})
	if err := shared.CheckAcyclic(1, g); !errors.Is(err, zkyverr.ErrCyclicShare) {
		t.Fatalf("err = %v, want ErrCyclicShare", err)
	}
}
