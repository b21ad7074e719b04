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

// Package registry binds Go types to hierarchy tags so that plain values,
// which do not implement apis.Typed, can be classified.
package registry

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/config"
	uref "dirpx.dev/mmx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("mmx(registry): nil reflect.Type provided")
	// ErrConflictingRegistration indicates an attempt to re-bind
	// a type to a different TypeID.
	ErrConflictingRegistration = errors.New("mmx(registry): conflicting type registration")
)

// New constructs a TypeRegistry that normalizes types according to cfg.
// Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.TypeRegistry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple TypeRegistry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to apis.TypeID.
	m sync.Map
	// count tracks the number of bindings.
	count int
}

// Register binds the named type underneath t to id.
// It is idempotent for the same (type,id) pair.
func (r *registry) Register(t reflect.Type, id apis.TypeID) error {
	if t == nil {
		return ErrNilType
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(b); ok {
		if old.(apis.TypeID) == id {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(b); ok {
		if old.(apis.TypeID) == id {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.m.Store(b, id)
	r.count++
	return nil
}

// Lookup returns the TypeID bound to t if present.
func (r *registry) Lookup(t reflect.Type) (apis.TypeID, bool) {
	if t == nil {
		return 0, false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return 0, false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(apis.TypeID), true
	}
	return 0, false
}

// Entries returns a snapshot of bindings (order is unspecified).
func (r *registry) Entries() []apis.Binding {
	entries := make([]apis.Binding, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Binding{
			Type: key.(reflect.Type),
			ID:   value.(apis.TypeID),
		})
		return true
	})
	return entries
}

// Count returns the number of bindings.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all bindings.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Range(func(key, _ any) bool {
		r.m.Delete(key)
		return true
	})
	r.count = 0
}
