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

// TypeID is a small, stable tag identifying a runtime type inside a Hierarchy.
type TypeID uint32

// Hierarchy is a closed, single-rooted tree of runtime types.
// Implementations must be safe for concurrent reads once setup is complete.
type Hierarchy interface {
	// Root returns the universal root type. Every other type descends from it.
	Root() TypeID
	// IsAncestorOrEqual reports whether ancestor is candidate itself or one
	// of candidate's ancestors. The relation is reflexive and transitive.
	IsAncestorOrEqual(candidate, ancestor TypeID) bool
	// Name returns the display name of id, or "" if id is unknown.
	Name(id TypeID) string
	// Lookup returns the type registered under name.
	Lookup(name string) (id TypeID, ok bool)
}

// Typed is the zero-reflection fast path for classifying a value.
// A value implementing Typed is dispatched on the TypeID it reports.
type Typed interface {
	// TypeID returns the hierarchy tag of the value's runtime type.
	// It must not depend on mutable instance state.
	TypeID() TypeID
}
