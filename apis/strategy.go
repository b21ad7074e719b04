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

package apis

import (
	"reflect"
)

// Strategy is a pluggable classification step. A Classifier chains
// strategies in order (e.g., Typed -> Registry -> Reflect).
type Strategy interface {
	// TryTypeOf attempts to classify value v according to cfg.
	// It returns (id, true) if handled; otherwise (0, false) to fall through.
	TryTypeOf(v any, cfg Config) (id TypeID, handled bool)

	// TryType attempts to classify the reflect.Type t.
	TryType(t reflect.Type, cfg Config) (id TypeID, handled bool)
}

// Classifier derives the TypeID of values and Go types.
type Classifier interface {
	// TypeOf returns the TypeID of v's runtime type.
	TypeOf(v any, cfg Config) (TypeID, bool)
	// TypeFor returns the TypeID bound to t.
	TypeFor(t reflect.Type, cfg Config) (TypeID, bool)
}

// TypeRegistry binds Go types to hierarchy tags.
type TypeRegistry interface {
	// Register binds the (pointer-normalized) type t to id.
	// Re-binding t to the same id is a no-op; a different id is a conflict.
	Register(t reflect.Type, id TypeID) error
	// Lookup returns the TypeID bound to t.
	Lookup(t reflect.Type) (id TypeID, ok bool)
	// Entries returns a snapshot of bindings (order is unspecified).
	Entries() []Binding
	// Count returns the number of bindings.
	Count() int
	// Reset clears all bindings.
	Reset()
}

// Binding is a single (type, id) association in a TypeRegistry snapshot.
type Binding struct {
	// Type is the bound reflect.Type.
	Type reflect.Type
	// ID is the associated hierarchy tag.
	ID TypeID
}
