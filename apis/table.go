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

// Table maps signatures to handlers.
//
// Entries are either primary (added by Register) or aliases (added by
// StoreCache on behalf of a Resolver). An alias refers to a handler owned
// by some primary entry and never replaces a primary.
type Table interface {
	// Register inserts or overwrites the primary entry for sig.
	Register(sig Signature, h Handler) error
	// LookupExact returns the primary or alias entry stored under sig.
	LookupExact(sig Signature) (h Handler, ok bool)
	// StoreCache records h as an alias for sig. It is best-effort and idempotent.
	StoreCache(sig Signature, h Handler)
	// Entries returns a snapshot of primary and alias entries (order is unspecified).
	Entries() []Entry
	// Count returns the number of primary entries.
	Count() int
	// Aliases returns the number of alias entries.
	Aliases() int
}

// Entry is a single (signature, handler) association in a Table snapshot.
type Entry struct {
	// Signature is the key the entry is stored under.
	Signature Signature
	// Handler is the associated handler.
	Handler Handler
	// Alias marks entries inserted by StoreCache.
	Alias bool
}
