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

package zkyv

import "github.com/flowzero/zkyv/internal/shared"

// Deserializer is the context threaded through every Deserialize call: a
// Pool for types that want shared-pointer unification, keyed by the
// archive offset of the shared target.
//
// The zero Deserializer has a nil Pool, which deserializes every shared
// pointer afresh, with no identity unification across multiple references
// to the same target.
type Deserializer struct {
	Pool *shared.Pool
}

// NewDeserializer returns a Deserializer with a fresh, unifying Pool.
func NewDeserializer() *Deserializer {
	return &Deserializer{Pool: shared.NewPool()}
}

// PoolGet looks up a previously-deserialized shared value of type T at the
// given archive offset.
func PoolGet[T any](d *Deserializer, offset int) (value T, found bool, err error) {
	if d.Pool == nil {
		var zero T
		return zero, false, nil
	}
	return shared.Get[T](d.Pool, offset)
}

// PoolPut registers value as the deserialized form of the shared target at
// offset, so later PoolGet calls at the same offset return it.
func PoolPut[T any](d *Deserializer, offset int, value T) {
	if d.Pool == nil {
		return
	}
	shared.Put(d.Pool, offset, value)
}
