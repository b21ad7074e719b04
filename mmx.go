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

package mmx

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/builder"
	"dirpx.dev/mmx/config"
	"dirpx.dev/mmx/handler"
	"dirpx.dev/mmx/metrics"
	"dirpx.dev/mmx/registry"
	"dirpx.dev/mmx/resolver"
	"dirpx.dev/mmx/strategy"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrMissingSignature is returned by Call and Resolve when no registered
	// signature applies to the arguments.
	ErrMissingSignature = resolver.ErrMissingSignature
	// ErrAmbiguousSignature is returned by Call and Resolve when the
	// applicable signatures have no single most specific member.
	ErrAmbiguousSignature = resolver.ErrAmbiguousSignature
	// ErrUnclassified is returned when an argument or a declared Go type has
	// no TypeID in the hierarchy.
	ErrUnclassified = errors.New("mmx: cannot classify type")
	// ErrUnknownType is returned when a registration names a TypeID the
	// hierarchy does not know.
	ErrUnknownType = errors.New("mmx: type not in hierarchy")
	// ErrNilHierarchy is raised by New when no hierarchy is provided.
	ErrNilHierarchy = errors.New("mmx: nil hierarchy")
	// ErrNilTable is raised when a builder returns a nil table.
	ErrNilTable = errors.New("mmx: builder returned nil table")
	// ErrNilResolver is raised when a builder returns a nil resolver.
	ErrNilResolver = errors.New("mmx: builder returned nil resolver")
)

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	cfg        apis.Config
	bld        apis.Builder
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// WithConfig sets the initial configuration.
func WithConfig(cfg apis.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithBuilder replaces the default builder.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) {
		o.bld = b
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer sets where dispatch metrics are registered. The default is
// a private registry.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// Dispatcher is a dispatch context: a hierarchy, the Go type bindings used
// to classify values, and a published snapshot of table and resolver.
type Dispatcher struct {
	// hier is fixed for the lifetime of the dispatcher.
	hier apis.Hierarchy
	// types binds Go types to tags.
	types apis.TypeRegistry
	// logger is the root logger of the dispatcher.
	logger *zap.Logger
	// metrics is shared by every table and resolver built by the default builder.
	metrics *metrics.Metrics

	// buildMu serializes writers (reconfigurations/swaps) so we never publish
	// partially-built snapshots.
	buildMu sync.Mutex
	// st is the current snapshot.
	st atomic.Pointer[state]

	// errMu guards err.
	errMu sync.Mutex
	// err accumulates failures from the fluent registration API.
	err error
}

// state is a dispatcher snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the active configuration.
	cfg apis.Config
	// tbl is the dispatch table.
	tbl apis.Table
	// res is the resolver over tbl.
	res apis.Resolver
	// bld built tbl and res unless they are pinned.
	bld apis.Builder
	// cls classifies argument values.
	cls apis.Classifier
	// ptbl indicates whether tbl is pinned (kept across rebuilds).
	ptbl bool
	// pres indicates whether res is pinned (kept across rebuilds).
	pres bool
}

// New creates a Dispatcher over h. It panics with ErrNilHierarchy if h is nil.
func New(h apis.Hierarchy, opts ...Option) *Dispatcher {
	if h == nil {
		panic(ErrNilHierarchy)
	}
	o := options{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	d := &Dispatcher{
		hier:    h,
		types:   registry.New(o.cfg),
		logger:  o.logger,
		metrics: metrics.New(o.registerer),
	}
	if o.bld == nil {
		o.bld = builder.New(builder.WithLogger(o.logger), builder.WithMetrics(d.metrics))
	}
	d.st.Store(d.build(&state{cfg: o.cfg, bld: o.bld}))
	return d
}

// build completes next, a copy of the previous snapshot carrying the new
// configuration, builder and pins. Layers that are not pinned are rebuilt;
// a pinned resolver keeps its table too, since it reads from it.
func (d *Dispatcher) build(next *state) *state {
	b := next.bld
	if !next.ptbl && !next.pres {
		next.tbl = b.BuildTable(next.cfg, next.tbl)
	}
	if next.tbl == nil {
		panic(ErrNilTable)
	}
	if !next.pres {
		next.res = b.BuildResolver(next.cfg, d.hier, next.tbl, next.res)
	}
	if next.res == nil {
		panic(ErrNilResolver)
	}
	next.cls = strategy.Chain(
		strategy.NewTypedStrategy(),
		strategy.NewRegistryStrategy(d.types),
		strategy.NewReflectStrategy(d.hier, next.cfg),
	)
	return next
}

// swap publishes fn applied to a copy of the current snapshot.
func (d *Dispatcher) swap(fn func(next *state)) {
	d.buildMu.Lock()
	defer d.buildMu.Unlock()

	next := *d.st.Load()
	fn(&next)
	d.st.Store(&next)
}

// Hierarchy returns the hierarchy the dispatcher was created with.
func (d *Dispatcher) Hierarchy() apis.Hierarchy {
	return d.hier
}

// SetAll replaces several components at once.
//
// Nil arguments leave the corresponding component unchanged. A non-nil
// table or resolver is pinned; the remaining layers are rebuilt with the
// resulting configuration and builder.
func (d *Dispatcher) SetAll(cfg *apis.Config, tbl apis.Table, res apis.Resolver, bld apis.Builder) {
	d.swap(func(next *state) {
		if cfg != nil {
			next.cfg = *cfg
		}
		if bld != nil {
			next.bld = bld
		}
		if tbl != nil {
			next.tbl, next.ptbl = tbl, true
		}
		if res != nil {
			next.res, next.pres = res, true
		}
		d.build(next)
	})
}

// Config returns the active configuration.
func (d *Dispatcher) Config() apis.Config {
	return d.st.Load().cfg
}

// SetConfig rebuilds the layers that are not pinned for cfg. Primary
// registrations are carried over; cached resolutions are not.
func (d *Dispatcher) SetConfig(cfg apis.Config) {
	d.swap(func(next *state) {
		next.cfg = cfg
		d.build(next)
	})
	d.logger.Debug("configuration replaced",
		zap.Stringer("cache", cfg.Cache),
		zap.Stringer("overwrite", cfg.Overwrite),
	)
}

// Builder returns the active builder.
func (d *Dispatcher) Builder() apis.Builder {
	return d.st.Load().bld
}

// SetBuilder rebuilds the layers that are not pinned with b.
func (d *Dispatcher) SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	d.swap(func(next *state) {
		next.bld = b
		d.build(next)
	})
}

// SetTable pins t as the dispatch table and rebuilds the resolver over it,
// unless the resolver is pinned. Registrations already made are not copied
// into t.
func (d *Dispatcher) SetTable(t apis.Table) {
	if t == nil {
		return
	}
	d.swap(func(next *state) {
		next.tbl, next.ptbl = t, true
		d.build(next)
	})
}

// SetResolver pins r as the resolver.
func (d *Dispatcher) SetResolver(r apis.Resolver) {
	if r == nil {
		return
	}
	d.swap(func(next *state) {
		next.res, next.pres = r, true
	})
}

// IsTablePinned returns whether the table is kept across rebuilds.
func (d *Dispatcher) IsTablePinned() bool {
	return d.st.Load().ptbl
}

// PinTable keeps the current table across rebuilds.
func (d *Dispatcher) PinTable() {
	d.swap(func(next *state) { next.ptbl = true })
}

// UnpinTable lets the next rebuild replace the table.
func (d *Dispatcher) UnpinTable() {
	d.swap(func(next *state) { next.ptbl = false })
}

// IsResolverPinned returns whether the resolver is kept across rebuilds.
func (d *Dispatcher) IsResolverPinned() bool {
	return d.st.Load().pres
}

// PinResolver keeps the current resolver, and the table it reads, across
// rebuilds.
func (d *Dispatcher) PinResolver() {
	d.swap(func(next *state) { next.pres = true })
}

// UnpinResolver lets the next rebuild replace the resolver.
func (d *Dispatcher) UnpinResolver() {
	d.swap(func(next *state) { next.pres = false })
}

// Table returns the active dispatch table.
func (d *Dispatcher) Table() apis.Table {
	return d.st.Load().tbl
}

// Resolver returns the active resolver.
func (d *Dispatcher) Resolver() apis.Resolver {
	return d.st.Load().res
}

// Metrics returns the collectors updated by the default builder's components.
func (d *Dispatcher) Metrics() *metrics.Metrics {
	return d.metrics
}

// Bind associates the Go type of sample with id, so that values of that
// type (or pointers to it) classify as id.
func (d *Dispatcher) Bind(sample any, id apis.TypeID) error {
	return d.BindType(reflect.TypeOf(sample), id)
}

// BindType associates t with id. Use it for interface types, e.g.
// BindType(reflect.TypeFor[Shape](), root).
func (d *Dispatcher) BindType(t reflect.Type, id apis.TypeID) error {
	if err := d.known(id); err != nil {
		return err
	}
	return d.types.Register(t, id)
}

// Bindings returns a snapshot of the Go type bindings made with Bind and
// BindType (order is unspecified).
func (d *Dispatcher) Bindings() []apis.Binding {
	return d.types.Entries()
}

// ResetBindings removes every Go type binding. Values then classify through
// apis.Typed or by name only.
func (d *Dispatcher) ResetBindings() {
	n := d.types.Count()
	d.types.Reset()
	d.logger.Debug("type bindings reset", zap.Int("count", n))
}

// TypeOf classifies v.
func (d *Dispatcher) TypeOf(v any) (apis.TypeID, bool) {
	s := d.st.Load()
	return s.cls.TypeOf(v, s.cfg)
}

// TypeFor classifies the Go type t.
func (d *Dispatcher) TypeFor(t reflect.Type) (apis.TypeID, bool) {
	s := d.st.Load()
	return s.cls.TypeFor(t, s.cfg)
}

// Register adds fn as the handler for (first, second).
func (d *Dispatcher) Register(first, second apis.TypeID, fn apis.HandlerFunc) error {
	sig := apis.NewSignature(first, second)
	h, err := handler.New(sig, fn)
	if err != nil {
		return err
	}
	return d.RegisterHandler(h)
}

// RegisterHandler adds h under its own signature.
func (d *Dispatcher) RegisterHandler(h apis.Handler) error {
	if h == nil {
		return handler.ErrNilFunc
	}
	sig := h.Signature()
	if err := multierr.Append(d.known(sig.First), d.known(sig.Second)); err != nil {
		return err
	}
	if err := d.st.Load().tbl.Register(sig, h); err != nil {
		return err
	}
	d.logger.Debug("registered handler", zap.String("signature", sig.Format(d.hier)))
	return nil
}

// Method is the fluent form of Register. Failures are accumulated and
// reported by Err.
func (d *Dispatcher) Method(first, second apis.TypeID, fn apis.HandlerFunc) *Dispatcher {
	d.record(d.Register(first, second, fn))
	return d
}

// Err returns every failure recorded by the fluent registration API.
func (d *Dispatcher) Err() error {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	return d.err
}

func (d *Dispatcher) record(err error) {
	if err == nil {
		return
	}
	d.errMu.Lock()
	d.err = multierr.Append(d.err, err)
	d.errMu.Unlock()
}

func (d *Dispatcher) known(id apis.TypeID) error {
	if id != d.hier.Root() && d.hier.Name(id) == "" {
		return fmt.Errorf("%w: %d", ErrUnknownType, id)
	}
	return nil
}

// Resolve returns the handler the dispatcher would invoke for arguments of
// types first and second.
func (d *Dispatcher) Resolve(first, second apis.TypeID) (apis.Handler, error) {
	return d.st.Load().res.Resolve(apis.NewSignature(first, second))
}

// Call classifies a and b, resolves the most specific handler for their
// types and invokes it. Resolution failures unwrap to ErrMissingSignature
// or ErrAmbiguousSignature.
func (d *Dispatcher) Call(a, b any) (int, error) {
	s := d.st.Load()
	first, ok := s.cls.TypeOf(a, s.cfg)
	if !ok {
		return 0, fmt.Errorf("%w: first argument %T", ErrUnclassified, a)
	}
	second, ok := s.cls.TypeOf(b, s.cfg)
	if !ok {
		return 0, fmt.Errorf("%w: second argument %T", ErrUnclassified, b)
	}
	h, err := s.res.Resolve(apis.NewSignature(first, second))
	if err != nil {
		return 0, err
	}
	return h.Invoke(a, b)
}

// Entries returns a snapshot of the active table.
func (d *Dispatcher) Entries() []apis.Entry {
	return d.st.Load().tbl.Entries()
}
