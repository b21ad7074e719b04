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

package table

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/config"
	"dirpx.dev/mmx/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

var (
	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("mmx(table): nil handler provided")
	// ErrDuplicateSignature is returned by Register under OverwriteReject
	// when a primary entry already exists for the exact signature.
	ErrDuplicateSignature = errors.New("mmx(table): signature already registered")
)

// Option configures a table.
type Option func(*table)

// WithLogger sets the logger used for overwrite and invalidation events.
func WithLogger(logger *zap.Logger) Option {
	return func(t *table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMetrics sets the collectors updated on cache stores.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *table) {
		t.metrics = m
	}
}

// New constructs a Table governed by cfg.Overwrite and cfg.Cache.
func New(cfg apis.Config, opts ...Option) apis.Table {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = config.DefaultCacheSize
	}
	t := &table{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	if cfg.Cache == apis.CacheLRU {
		// lru.New only fails for a non-positive size.
		t.lru, _ = lru.New[apis.Signature, apis.Handler](cfg.CacheSize)
	}
	return t
}

// table is a Table backed by sync.Map.
//
// Readers go through the sync.Map (or the LRU, which has its own lock) and
// never observe a partially written entry. All writers, registration and
// cache stores alike, are serialized by mu.
type table struct {
	// cfg is the configuration fixed at construction.
	cfg apis.Config
	// logger receives debug events.
	logger *zap.Logger
	// metrics is optional.
	metrics *metrics.Metrics
	// mu guards write-side consistency and counters.
	mu sync.Mutex
	// m maps apis.Signature to slot.
	m sync.Map
	// count tracks the number of primary entries.
	count int
	// aliases tracks the number of alias entries held in m.
	aliases int
	// lru holds aliases when cfg.Cache is CacheLRU.
	lru *lru.Cache[apis.Signature, apis.Handler]
}

// slot is a single table value.
type slot struct {
	h     apis.Handler
	alias bool
}

// boxed gives a handler of a non-comparable type a comparable identity.
type boxed struct {
	apis.Handler
}

// Ensure table implements apis.Table.
var _ apis.Table = (*table)(nil)

// Register inserts or overwrites the primary entry for sig.
// A handler whose dynamic type is not comparable is stored behind a
// pointer, so lookups return that wrapper instead of h itself.
// Any alias held by the table is dropped, since a new primary may be more
// specific than what earlier scans found.
func (t *table) Register(sig apis.Signature, h apis.Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	if !reflect.TypeOf(h).Comparable() {
		h = &boxed{h}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.m.Load(sig); ok {
		old := v.(slot)
		switch {
		case old.alias:
			t.aliases--
			t.count++
		case t.cfg.Overwrite == apis.OverwriteReject:
			return fmt.Errorf("%w: %s", ErrDuplicateSignature, sig)
		default:
			t.logger.Debug("replacing handler", zap.Stringer("signature", sig))
		}
	} else {
		t.count++
	}
	t.m.Store(sig, slot{h: h})
	t.invalidate()
	return nil
}

// invalidate drops every alias. Caller must hold mu.
func (t *table) invalidate() {
	dropped := t.aliases
	if t.aliases > 0 {
		t.m.Range(func(key, value any) bool {
			if value.(slot).alias {
				t.m.Delete(key)
			}
			return true
		})
		t.aliases = 0
	}
	if t.lru != nil {
		dropped += t.lru.Len()
		t.lru.Purge()
	}
	if dropped > 0 {
		t.logger.Debug("dropped cached resolutions", zap.Int("count", dropped))
	}
}

// LookupExact returns the primary or alias entry for sig.
func (t *table) LookupExact(sig apis.Signature) (apis.Handler, bool) {
	if v, ok := t.m.Load(sig); ok {
		return v.(slot).h, true
	}
	if t.lru != nil {
		return t.lru.Get(sig)
	}
	return nil, false
}

// StoreCache records h as an alias for sig. Primary entries are left
// untouched, and h is ignored unless it is still the primary handler of
// its own signature.
func (t *table) StoreCache(sig apis.Signature, h apis.Handler) {
	if h == nil || t.cfg.Cache == apis.CacheNone {
		return
	}
	// Every primary is comparable, see Register.
	if !reflect.TypeOf(h).Comparable() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.m.Load(h.Signature()); !ok || v.(slot).alias || v.(slot).h != h {
		return
	}
	if t.lru != nil {
		if _, ok := t.m.Load(sig); !ok && !t.lru.Contains(sig) {
			t.lru.Add(sig, h)
			t.metrics.CacheStored()
		}
		return
	}
	if _, ok := t.m.Load(sig); ok {
		// Primary entries win; an existing alias already holds this resolution.
		return
	}
	t.m.Store(sig, slot{h: h, alias: true})
	t.aliases++
	t.metrics.CacheStored()
}

// Entries returns a snapshot of primary and alias entries (order is unspecified).
func (t *table) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, t.Count()+t.Aliases())
	t.m.Range(func(key, value any) bool {
		s := value.(slot)
		entries = append(entries, apis.Entry{
			Signature: key.(apis.Signature),
			Handler:   s.h,
			Alias:     s.alias,
		})
		return true
	})
	if t.lru != nil {
		for _, sig := range t.lru.Keys() {
			if h, ok := t.lru.Peek(sig); ok {
				entries = append(entries, apis.Entry{Signature: sig, Handler: h, Alias: true})
			}
		}
	}
	return entries
}

// Count returns the number of primary entries.
func (t *table) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Aliases returns the number of alias entries.
func (t *table) Aliases() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lru != nil {
		return t.lru.Len()
	}
	return t.aliases
}
