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

// Package metrics exposes Prometheus counters for dispatch resolution.
//
// A nil *Metrics is valid and records nothing, so components can accept an
// optional instance without branching at every call site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// PathExact labels lookups answered by a table entry.
	PathExact = "exact"
	// PathInexact labels lookups answered by a hierarchy scan.
	PathInexact = "inexact"

	// KindMissing labels failures with no applicable signature.
	KindMissing = "missing"
	// KindAmbiguous labels failures with incomparable best candidates.
	KindAmbiguous = "ambiguous"
)

// Metrics holds the collectors shared by a table and its resolver.
type Metrics struct {
	lookups     *prometheus.CounterVec
	failures    *prometheus.CounterVec
	cacheStores prometheus.Counter
	candidates  prometheus.Histogram
}

// New registers the dispatch collectors with registerer. A nil registerer
// gets a private registry so that several dispatchers can coexist.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &Metrics{
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmx_resolutions_total",
				Help: "Number of successful resolutions by lookup path.",
			},
			[]string{"path"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmx_resolution_failures_total",
				Help: "Number of failed resolutions by failure kind.",
			},
			[]string{"kind"},
		),
		cacheStores: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mmx_cache_stores_total",
				Help: "Number of inexact resolutions memoized.",
			},
		),
		candidates: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mmx_scan_candidates",
				Help:    "Number of lower-bound candidates found per inexact scan.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
	}
}

// Resolved counts a successful resolution on path.
func (m *Metrics) Resolved(path string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(path).Inc()
}

// Failed counts a failed resolution of kind.
func (m *Metrics) Failed(kind string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(kind).Inc()
}

// CacheStored counts a memoized inexact resolution.
func (m *Metrics) CacheStored() {
	if m == nil {
		return
	}
	m.cacheStores.Inc()
}

// Scanned records the number of candidates seen by one inexact scan.
func (m *Metrics) Scanned(candidates int) {
	if m == nil {
		return
	}
	m.candidates.Observe(float64(candidates))
}

// Resolutions returns the counter for successful resolutions on path.
func (m *Metrics) Resolutions(path string) prometheus.Counter {
	return m.lookups.WithLabelValues(path)
}

// Failures returns the counter for failures of kind.
func (m *Metrics) Failures(kind string) prometheus.Counter {
	return m.failures.WithLabelValues(kind)
}

// CacheStores returns the memoization counter.
func (m *Metrics) CacheStores() prometheus.Counter {
	return m.cacheStores
}
