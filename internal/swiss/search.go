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

package swiss

import (
	"github.com/flowzero/zkyv/internal/dbg"
	"github.com/flowzero/zkyv/internal/unsafe2"
)

// search probes a region of cap/8 control-byte groups for k, starting from
// the group h.h1() selects via triangular probing. It returns the index of
// either the occupied slot holding k, or the first empty slot where k could
// be inserted, and whether that slot is already occupied.
//
// This is shared between Build (construction) and Archived.Get (lookup):
// both walk the identical probe sequence, so keeping one implementation
// guarantees a value built by Build is always found again by Get.
func search[K Key](ctrlBase *byte, keys *unsafe2.VLA[K], cap int, h hash, k K) (idx int, occupied bool) {
	h2 := broadcast(h.h2())
	emptyMask := broadcast(empty)

	groups := ctrlAt(ctrlBase)
	p := newProber(groups, cap/8, h)
	for {
		dbg.Assert(p.i <= p.mask, "full table")

		var i int
		var c ctrl
		p, i, c = p.next()

		mask := c.matches(h2)
		if mask.x0 != 0 {
			n := i * 8
			for j := range 8 {
				if mask.x0>>(8*j)&0x80 != 0 && *keys.Get(n + j) == k {
					return n + j, true
				}
			}
		}

		j := c.first(emptyMask)
		if j < 8 {
			return i*8 + j, false
		}
	}
}
