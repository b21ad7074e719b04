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

package config

import (
	"dirpx.dev/mmx/apis"
)

const (
	// DefaultOverwrite represents the default for Overwrite.
	// Re-registration replaces the previous handler.
	DefaultOverwrite = apis.OverwriteReplace
	// DefaultCache represents the default for Cache.
	// Inexact resolutions are memoized as table aliases.
	DefaultCache = apis.CacheAlias
	// DefaultCacheSize represents the default for CacheSize.
	DefaultCacheSize = 1024
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return sanitize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Overwrite: DefaultOverwrite,
		Cache:     DefaultCache,
		CacheSize: DefaultCacheSize,
		MaxUnwrap: DefaultMaxUnwrap,
	}
}

// sanitize resets out-of-range values to their defaults.
func sanitize(cfg apis.Config) apis.Config {
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithOverwrite sets the Overwrite option.
func WithOverwrite(p apis.OverwritePolicy) Option {
	return func(c *apis.Config) {
		c.Overwrite = p
	}
}

// WithCache sets the Cache option.
func WithCache(p apis.CachePolicy) Option {
	return func(c *apis.Config) {
		c.Cache = p
	}
}

// WithCacheSize sets the CacheSize option.
// A non-positive value resets to the default.
func WithCacheSize(size int) Option {
	return func(c *apis.Config) {
		if size <= 0 {
			c.CacheSize = DefaultCacheSize
			return
		}
		c.CacheSize = size
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}
