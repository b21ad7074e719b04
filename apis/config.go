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

// Config carries read-only dispatch knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Overwrite decides what Register does when a primary entry already
	// exists for the exact signature.
	Overwrite OverwritePolicy `yaml:"overwrite"`

	// Cache selects where inexact resolutions are memoized.
	Cache CachePolicy `yaml:"cache"`

	// CacheSize bounds the alias store when Cache is CacheLRU. It also bounds
	// the memo used by the reflect classification strategy.
	CacheSize int `yaml:"cache_size"`

	// MaxUnwrap limits pointer unwrapping when classifying Go types.
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int `yaml:"max_unwrap"`
}
