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

// Package mmx provides binary multiple dispatch: a two-argument operation
// whose implementation is chosen by the runtime types of both arguments.
//
// Types live in a closed, single-rooted hierarchy (apis.Hierarchy; the
// hierarchy package provides one). Implementations are registered against
// pairs of types, and a subtype may stand in wherever an ancestor is
// expected:
//
//	h := hierarchy.New("Shape")
//	stone := h.MustAdd("Stone", "Shape")
//	scissors := h.MustAdd("Scissors", "Shape")
//	h.MustAdd("GrindStone", "Stone")
//
//	d := mmx.New(h).
//		Method(stone, stone, func(a, b any) int { return 0 }).
//		Method(stone, scissors, func(a, b any) int { return +1 })
//	if err := d.Err(); err != nil {
//		// registration failed
//	}
//
//	n, err := d.Call(GrindStone{}, Stone{}) // 0, via (Stone, Stone)
//
// # Resolution
//
// A call derives a query signature from the arguments' types. If the table
// holds an entry for exactly that signature, it is used without consulting
// the hierarchy. Otherwise every registered signature whose two slots are
// ancestors-or-equal of the query is a candidate; the most specific type is
// picked per slot, and the resulting pair must itself be registered. If it
// is, that handler wins and is cached under the query so the next identical
// call takes the exact path. If no candidate exists the call fails with
// ErrMissingSignature; if the per-slot winners come from different,
// incomparable registrations it fails with ErrAmbiguousSignature. Failures
// are never folded into the integer result.
//
// # Classification
//
// Argument values are mapped to TypeIDs by a chain of strategies, in order:
//
//  1. The value implements apis.Typed.
//  2. Its Go type (pointers unwrapped) was bound with Dispatcher.Bind.
//  3. The hierarchy has a type named "pkg.Type" or "Type" after the Go type.
//
// # Concurrency model
//
// Call, Resolve and TypeOf load the current snapshot atomically and never
// take the build lock. Table writes, both registrations and cached
// resolutions, are serialized inside the table, and readers never observe a
// partially written entry. SetConfig and SetBuilder build a new snapshot
// under a build mutex and publish it with an atomic swap, carrying primary
// registrations over. A table or resolver installed with SetTable,
// SetResolver or SetAll, or pinned with PinTable or PinResolver, is kept
// across those rebuilds.
//
// Registering after calls have started is allowed but discards every cached
// resolution, since a new registration may be more specific than what the
// earlier scans found.
package mmx
