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

package registry_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/config"
	"dirpx.dev/mmx/registry"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}
type T4 struct{}
type T5 struct{}
type T6 struct{}
type T7 struct{}
type T8 struct{}
type T9 struct{}

// TestConcurrentRegisterAndLookup verifies that Register/Lookup/Entries/Count
// are race-free and consistent under concurrent use.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	types := []reflect.Type{
		reflect.TypeOf(T0{}), reflect.TypeOf(T1{}), reflect.TypeOf(T2{}),
		reflect.TypeOf(T3{}), reflect.TypeOf(T4{}), reflect.TypeOf(T5{}),
		reflect.TypeOf(T6{}), reflect.TypeOf(T7{}), reflect.TypeOf(T8{}),
		reflect.TypeOf(T9{}),
	}
	ids := make([]apis.TypeID, len(types))
	for i := range ids {
		ids[i] = apis.TypeID(i + 1)
	}

	for i, tt := range types {
		if err := reg.Register(tt, ids[i]); err != nil {
			t.Fatalf("register %s: %v", tt, err)
		}
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				k := i % len(types)
				if got, ok := reg.Lookup(types[k]); !ok || got != ids[k] {
					t.Errorf("lookup failed for %v: ok=%v got=%d", types[k], ok, got)
					return
				}
				_ = reg.Count()
				_ = reg.Entries()
			}
		}()
	}

	// Writers (idempotent re-register)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(types)
				if err := reg.Register(types[j], ids[j]); err != nil {
					t.Errorf("re-register %v: %v", types[j], err)
					return
				}
			}
		}(w)
	}

	wg.Wait()

	if reg.Count() != len(types) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(types))
	}
	got := map[reflect.Type]apis.TypeID{}
	for _, e := range reg.Entries() {
		got[e.Type] = e.ID
	}
	for i, tt := range types {
		if got[tt] != ids[i] {
			t.Fatalf("entry mismatch for %v: got %d want %d", tt, got[tt], ids[i])
		}
	}
}

// TestResetSnapshot ensures Reset is safe and Entries returns a stable snapshot.
func TestResetSnapshot(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	_ = reg.Register(reflect.TypeOf(T0{}), 1)
	_ = reg.Register(reflect.TypeOf(T1{}), 2)

	snap := reg.Entries()
	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("count after reset: got %d want 0", reg.Count())
	}
	if len(snap) != 2 {
		t.Fatalf("snapshot length changed unexpectedly: %d", len(snap))
	}
	if snap[0].ID == 0 || snap[1].ID == 0 {
		t.Fatalf("snapshot contents invalid after reset")
	}
}

var _ apis.TypeRegistry = registry.New(config.DefaultConfig())
