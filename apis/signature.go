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

import "strconv"

// Signature is the dispatch key: one TypeID per argument position.
//
// Two signatures are equal when both slots hold identical TypeIDs; the
// hierarchy plays no part in equality. Signature is comparable and hashes
// over both slots, so it is used directly as a map key.
type Signature struct {
	// First is the type of the first argument.
	First TypeID
	// Second is the type of the second argument.
	Second TypeID
}

// NewSignature constructs a Signature from two TypeIDs.
func NewSignature(first, second TypeID) Signature {
	return Signature{First: first, Second: second}
}

// Top returns the least specific signature, with both slots set to root.
func Top(root TypeID) Signature {
	return Signature{First: root, Second: root}
}

// Swap returns the signature with its slots exchanged.
func (s Signature) Swap() Signature {
	return Signature{First: s.Second, Second: s.First}
}

// String renders the signature using raw tags, e.g. "(3, 1)".
func (s Signature) String() string {
	return "(" + strconv.FormatUint(uint64(s.First), 10) + ", " + strconv.FormatUint(uint64(s.Second), 10) + ")"
}

// Format renders the signature using the type names known to h,
// falling back to raw tags for unknown types.
func (s Signature) Format(h Hierarchy) string {
	if h == nil {
		return s.String()
	}
	return "(" + typeName(h, s.First) + ", " + typeName(h, s.Second) + ")"
}

func typeName(h Hierarchy, id TypeID) string {
	if n := h.Name(id); n != "" {
		return n
	}
	return strconv.FormatUint(uint64(id), 10)
}
