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

package shared

import (
	"iter"

	"github.com/flowzero/zkyv/internal/scc"
	"github.com/flowzero/zkyv/zkyverr"
)

// CheckAcyclic walks the shared-pointer graph rooted at root (deps gives the
// addresses a node directly points to) and returns an error if any address
// is reachable from itself, including through an intermediate shared
// pointer.
//
// This is the whole-graph alternative to Registry's incremental Pending
// check: a caller that can cheaply enumerate the full dependency graph up
// front (rather than discovering it while serializing) can call this once
// instead of configuring the Registry as Strict.
func CheckAcyclic(root uintptr, deps func(uintptr) iter.Seq[uintptr]) error {
	dag := scc.Sort(root, scc.Graph[uintptr](deps))
	for c := range dag.Topological() {
		if c.Cyclic(scc.Graph[uintptr](deps)) {
			members := c.Members()
			return zkyverr.New(zkyverr.ErrCyclicShare, 0,
				"cycle of length %d rooted at address %#x", len(members), members[0])
		}
	}
	return nil
}
