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

package arena

import "sync/atomic"

// global holds the process-wide scratch arena used by WithArena when a
// caller does not supply its own. It starts out nil; the first checkout
// allocates one lazily.
var global atomic.Pointer[Arena]

// WithArena checks out the process-wide scratch arena, runs f with it, then
// frees it and reinstalls it for the next caller.
//
// The checkout is a compare-and-swap, not a mutex: a call racing with
// another concurrent WithArena will find the global slot empty and fall
// back to a fresh Arena of its own. Once f returns, a call reinstalls its
// arena (fresh or not) if the global slot is empty at that moment; a call
// that finds the slot already refilled by another caller drops its arena.
func WithArena(f func(a *Arena)) {
	a := global.Swap(nil)
	if a == nil {
		a = new(Arena)
	}

	defer func() {
		a.Free()
		// Only reinstall if nobody beat us to it; otherwise this arena is
		// simply dropped, matching the "losing racer drops its arena" rule.
		global.CompareAndSwap(nil, a)
	}()

	f(a)
}
