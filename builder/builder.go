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

package builder

import (
	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/metrics"
	"dirpx.dev/mmx/resolver"
	"dirpx.dev/mmx/table"
	"go.uber.org/zap"
)

// Option configures the default builder.
type Option func(*builder)

// WithLogger sets the logger handed to every table and resolver built.
func WithLogger(logger *zap.Logger) Option {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics sets the collectors handed to every table and resolver built.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *builder) {
		b.metrics = m
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder carries the ambient dependencies of the components it builds.
type builder struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// BuildTable builds and returns a new apis.Table based on the provided configuration.
// If a previous table is provided, its primary entries are copied into the new table.
// Aliases are not migrated: they were computed under the previous configuration.
func (b *builder) BuildTable(cfg apis.Config, prev apis.Table) apis.Table {
	nt := table.New(cfg,
		table.WithLogger(b.logger.Named("table")),
		table.WithMetrics(b.metrics),
	)
	if prev != nil {
		for _, e := range prev.Entries() {
			if e.Alias {
				continue
			}
			if err := nt.Register(e.Signature, e.Handler); err != nil {
				b.logger.Warn("dropping entry during migration", zap.Stringer("signature", e.Signature), zap.Error(err))
			}
		}
	}
	return nt
}

// BuildResolver builds and returns a new apis.Resolver over h and t.
// The previous resolver holds no state worth carrying over.
func (b *builder) BuildResolver(_ apis.Config, h apis.Hierarchy, t apis.Table, _ apis.Resolver) apis.Resolver {
	return resolver.New(h, t,
		resolver.WithLogger(b.logger.Named("resolver")),
		resolver.WithMetrics(b.metrics),
	)
}
