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

// NewRegistryStrategy creates an apis.Strategy that uses an apis.TypeRegistry.
func NewRegistryStrategy(reg apis.TypeRegistry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults explicit Go type bindings.
type registryStrategy struct {
	reg apis.TypeRegistry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryTypeOf looks up v's type in the registry.
func (s *registryStrategy) TryTypeOf(v any, _ apis.Config) (apis.TypeID, bool) {
	if v == nil || s.reg == nil {
		return 0, false
	}
	return s.reg.Lookup(reflect.TypeOf(v))
}

// TryType looks up t in the registry.
func (s *registryStrategy) TryType(t reflect.Type, _ apis.Config) (apis.TypeID, bool) {
	if t == nil || s.reg == nil {
		return 0, false
	}
	return s.reg.Lookup(t)
}
