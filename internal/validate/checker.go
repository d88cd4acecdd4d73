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

package validate

// Checker is implemented by every archived type reachable from a root
// value: CheckBytes must Claim every out-of-line range its relative
// pointers target and recursively validate any nested archived field
// before returning nil; the bytes of the value itself are claimed by
// whatever points to it.
//
// selfPos is the buffer position the checker's own archived representation
// starts at, not a live pointer: validators work in terms of positions
// within the buffer a Context was constructed for, since a position (unlike
// a pointer) survives being recomputed from a RelPtr offset without ever
// dereferencing one until it has been range-checked.
type Checker interface {
	CheckBytes(selfPos int, ctx *Context) error
}
