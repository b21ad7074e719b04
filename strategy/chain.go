/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strategy

import (
	"reflect"

	"dirpx.dev/mmx/apis"
)

// Chain constructs an apis.Classifier that tries the given strategies in order.
// Nil strategies are ignored. The returned classifier is safe for concurrent use
// provided strategies themselves are safe for concurrent calls.
func Chain(strategies ...apis.Strategy) apis.Classifier {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// chain is an immutable, order-preserving classifier over a set of strategies.
type chain struct {
	strats []apis.Strategy
}

// TypeOf runs strategies in order until one handles the value.
func (c chain) TypeOf(v any, cfg apis.Config) (apis.TypeID, bool) {
	for _, s := range c.strats {
		if id, ok := s.TryTypeOf(v, cfg); ok {
			return id, true
		}
	}
	return 0, false
}

// TypeFor runs strategies in order until one handles the type.
func (c chain) TypeFor(t reflect.Type, cfg apis.Config) (apis.TypeID, bool) {
	for _, s := range c.strats {
		if id, ok := s.TryType(t, cfg); ok {
			return id, true
		}
	}
	return 0, false
}
