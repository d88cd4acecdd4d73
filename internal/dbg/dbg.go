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

// Package dbg includes debugging helpers shared by the rest of the module:
// assertions that only fire in debug builds, and structured trace logging
// keyed by goroutine.
package dbg

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/timandy/routine"
)

// Enabled controls whether Log actually writes anything and whether Assert
// panics. It is a variable rather than a build-tag constant so that tests
// can flip it on for a single run without a separate build; production
// callers leave it false, at which point Log and Assert compile down to a
// single branch.
var Enabled = os.Getenv("ZKYV_DEBUG") != ""

// sessions holds a process-local id for the current goroutine's debug
// session, used to correlate log lines emitted by one serialize/access/
// deserialize call. It is lazily minted the first time a goroutine logs.
var sessions routine.ThreadLocal[string] = routine.NewInheritableThreadLocal[string]()

func sessionID() string {
	id := sessions.Get()
	if id == "" {
		id = uuid.NewString()[:8]
		sessions.Set(id)
	}
	return id
}

// Log prints a structured debug line to stderr when Enabled is true.
//
// op names the operation (e.g. "resolve", "probe"); format/args describe it.
func Log(op string, format string, args ...any) {
	if !Enabled {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "zkyv[%s] %s: %s\n", sessionID(), op, strings.TrimSpace(msg))
}

// Assert panics if cond is false, but only when Enabled is true. Use this
// for invariants that are expensive to check, or that would otherwise only
// matter to a maintainer of this package.
func Assert(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf("zkyv: internal assertion failed: "+format, args...))
	}
}
