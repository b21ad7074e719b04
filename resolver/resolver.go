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

// Package resolver implements most-specific signature selection over the
// product of two subtype orders.
//
// A query (T1, T2) is answered in two steps. The exact path looks the
// query up in the table and never consults the hierarchy. On a miss, the
// inexact path scans the primary entries for lower-bound candidates (both
// slots ancestor-or-equal of the query), joins their slots independently,
// and accepts the result only if that composite was itself registered.
// Successful inexact resolutions are written back to the table as aliases.
//
// Because the hierarchy is a tree, the candidate types for a slot always
// form a chain, so the per-slot join does not depend on scan order.
package resolver

import (
	"cmp"
	"errors"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/metrics"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNilHierarchy is returned by Resolve when the resolver has no hierarchy.
	ErrNilHierarchy = errors.New("mmx(resolver): nil hierarchy")
	// ErrNilTable is returned by Resolve when the resolver has no table.
	ErrNilTable = errors.New("mmx(resolver): nil table")
)

// Option configures a resolver.
type Option func(*resolver)

// WithLogger sets the logger used for inexact resolutions and failures.
func WithLogger(logger *zap.Logger) Option {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the collectors updated on every resolution.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *resolver) {
		r.metrics = m
	}
}

// New constructs an apis.Resolver over hierarchy h and table t.
// The returned resolver is safe for concurrent use provided h and t are.
func New(h apis.Hierarchy, t apis.Table, opts ...Option) apis.Resolver {
	r := &resolver{hier: h, table: t, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolver is the default apis.Resolver.
type resolver struct {
	hier    apis.Hierarchy
	table   apis.Table
	logger  *zap.Logger
	metrics *metrics.Metrics
	// group collapses concurrent scans for the same query.
	group singleflight.Group
}

// Ensure resolver implements apis.Resolver.
var _ apis.Resolver = (*resolver)(nil)

// Resolve returns the most specific handler applicable to query.
func (r *resolver) Resolve(query apis.Signature) (apis.Handler, error) {
	switch {
	case r.hier == nil:
		return nil, ErrNilHierarchy
	case r.table == nil:
		return nil, ErrNilTable
	}
	if h, ok := r.table.LookupExact(query); ok {
		r.metrics.Resolved(metrics.PathExact)
		return h, nil
	}
	v, err, _ := r.group.Do(query.String(), func() (any, error) {
		return r.scan(query)
	})
	if err != nil {
		switch KindOf(err) {
		case KindAmbiguous:
			r.metrics.Failed(metrics.KindAmbiguous)
		case KindMissing:
			r.metrics.Failed(metrics.KindMissing)
		}
		return nil, err
	}
	r.metrics.Resolved(metrics.PathInexact)
	return v.(apis.Handler), nil
}

// scan runs the inexact path for query.
func (r *resolver) scan(query apis.Signature) (apis.Handler, error) {
	// A concurrent scan may have memoized query while this one waited.
	if h, ok := r.table.LookupExact(query); ok {
		return h, nil
	}

	contender := apis.Top(r.hier.Root())
	var candidates []apis.Entry
	for _, e := range r.table.Entries() {
		// Alias keys are query points, not declared signatures.
		if e.Alias {
			continue
		}
		s := e.Signature
		if !r.hier.IsAncestorOrEqual(query.First, s.First) || !r.hier.IsAncestorOrEqual(query.Second, s.Second) {
			continue
		}
		candidates = append(candidates, e)
		if r.hier.IsAncestorOrEqual(s.First, contender.First) {
			contender.First = s.First
		}
		if r.hier.IsAncestorOrEqual(s.Second, contender.Second) {
			contender.Second = s.Second
		}
	}
	r.metrics.Scanned(len(candidates))

	if len(candidates) == 0 {
		r.logger.Debug("no applicable signature", zap.String("query", query.Format(r.hier)))
		return nil, &Error{Kind: KindMissing, Query: query, hier: r.hier}
	}

	i := slices.IndexFunc(candidates, func(e apis.Entry) bool {
		return e.Signature == contender
	})
	if i < 0 {
		err := &Error{
			Kind:       KindAmbiguous,
			Query:      query,
			Candidates: r.maximal(candidates),
			hier:       r.hier,
		}
		r.logger.Debug("ambiguous signature", zap.String("query", query.Format(r.hier)), zap.Error(err))
		return nil, err
	}

	h := candidates[i].Handler
	r.table.StoreCache(query, h)
	r.logger.Debug("resolved inexact signature",
		zap.String("query", query.Format(r.hier)),
		zap.String("signature", contender.Format(r.hier)),
		zap.Int("candidates", len(candidates)),
	)
	return h, nil
}

// maximal returns the candidates that no other candidate is strictly more
// specific than, sorted by tag.
func (r *resolver) maximal(candidates []apis.Entry) []apis.Signature {
	var out []apis.Signature
	for _, c := range candidates {
		dominated := slices.ContainsFunc(candidates, func(d apis.Entry) bool {
			return d.Signature != c.Signature &&
				r.hier.IsAncestorOrEqual(d.Signature.First, c.Signature.First) &&
				r.hier.IsAncestorOrEqual(d.Signature.Second, c.Signature.Second)
		})
		if !dominated {
			out = append(out, c.Signature)
		}
	}
	slices.SortFunc(out, func(a, b apis.Signature) int {
		if c := cmp.Compare(a.First, b.First); c != 0 {
			return c
		}
		return cmp.Compare(a.Second, b.Second)
	})
	return out
}
