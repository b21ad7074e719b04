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

package strategy

import (
	"path"
	"reflect"
	"strings"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/config"
	uref "dirpx.dev/mmx/utils/reflect"
	lru "github.com/hashicorp/golang-lru/v2"
)

// NewReflectStrategy creates an apis.Strategy that classifies Go types by
// name: the hierarchy is asked for "pkg.Type" first, then for "Type".
// Matches are memoized in an LRU of cfg.CacheSize entries; misses are
// looked up again on every call.
func NewReflectStrategy(h apis.Hierarchy, cfg apis.Config) apis.Strategy {
	size := cfg.CacheSize
	if size <= 0 {
		size = config.DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	memo, _ := lru.New[cacheKey, apis.TypeID](size)
	return &reflectStrategy{hier: h, memo: memo}
}

// reflectStrategy is the fallback that maps a Go type onto a hierarchy node
// sharing its name. It unwraps pointers via Normalize and strips generic
// instantiation parameters.
type reflectStrategy struct {
	hier apis.Hierarchy
	memo *lru.Cache[cacheKey, apis.TypeID]
}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects the config knobs that affect classification.
type cacheKey struct {
	t         reflect.Type
	maxUnwrap int16
}

// TryTypeOf classifies v's type by name.
func (s *reflectStrategy) TryTypeOf(v any, cfg apis.Config) (apis.TypeID, bool) {
	if v == nil {
		return 0, false
	}
	return s.byType(reflect.TypeOf(v), cfg)
}

// TryType classifies t by name.
func (s *reflectStrategy) TryType(t reflect.Type, cfg apis.Config) (apis.TypeID, bool) {
	if t == nil {
		return 0, false
	}
	return s.byType(t, cfg)
}

// byType resolves the hierarchy tag for t with memoization.
func (s *reflectStrategy) byType(t reflect.Type, cfg apis.Config) (apis.TypeID, bool) {
	if s.hier == nil {
		return 0, false
	}
	key := cacheKey{t: t, maxUnwrap: int16(cfg.MaxUnwrap)}
	if id, ok := s.memo.Get(key); ok {
		return id, true
	}

	base, err := uref.Normalize(t, cfg)
	if err != nil {
		return 0, false
	}
	name := stripTypeParams(base.Name())
	id, ok := apis.TypeID(0), false
	if p := base.PkgPath(); p != "" {
		id, ok = s.hier.Lookup(path.Base(p) + "." + name)
	}
	if !ok {
		id, ok = s.hier.Lookup(name)
	}
	// Misses are not memoized: the type may be declared later.
	if ok {
		s.memo.Add(key, id)
	}
	return id, ok
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
