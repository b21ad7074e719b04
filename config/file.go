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
	"fmt"
	"os"

	"dirpx.dev/mmx/apis"
	"gopkg.in/yaml.v3"
)

// Decode parses a YAML document into an apis.Config. Keys that are absent
// keep their default values.
//
//	overwrite: reject
//	cache: lru
//	cache_size: 256
//	max_unwrap: 4
func Decode(b []byte) (apis.Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return apis.Config{}, fmt.Errorf("mmx(config): %w", err)
	}
	return sanitize(cfg), nil
}

// Load reads and decodes the YAML config file at path.
func Load(path string) (apis.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, err
	}
	return Decode(b)
}
