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

import (
	"fmt"
	"strings"
)

// CachePolicy controls how a Table memoizes inexact resolutions.
//
//   - CacheAlias stores aliases in the table itself. The table only grows.
//   - CacheLRU keeps aliases in a bounded least-recently-used store.
//   - CacheNone disables memoization; every inexact query rescans.
//
// CachePolicy values are plain integers and safe to share across goroutines.
type CachePolicy int

const (
	// CacheAlias memoizes resolutions as alias entries in the table.
	CacheAlias CachePolicy = iota
	// CacheLRU memoizes resolutions in a bounded LRU store.
	CacheLRU
	// CacheNone disables memoization.
	CacheNone
)

// String returns the canonical name of the policy.
func (p CachePolicy) String() string {
	switch p {
	case CacheAlias:
		return "alias"
	case CacheLRU:
		return "lru"
	case CacheNone:
		return "none"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParseCachePolicy converts a case-insensitive name into a CachePolicy.
func ParseCachePolicy(s string) (CachePolicy, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return CacheAlias, fmt.Errorf("mmx: empty cache policy")
	}
	switch strings.ToLower(trimmed) {
	case "alias":
		return CacheAlias, nil
	case "lru":
		return CacheLRU, nil
	case "none":
		return CacheNone, nil
	default:
		return CacheAlias, fmt.Errorf("mmx: unknown cache policy %q", s)
	}
}

// MustParseCachePolicy is like ParseCachePolicy but panics on error.
func MustParseCachePolicy(s string) CachePolicy {
	p, err := ParseCachePolicy(s)
	if err != nil {
		panic(err)
	}
	return p
}

// MarshalText implements encoding.TextMarshaler.
func (p CachePolicy) MarshalText() ([]byte, error) {
	switch p {
	case CacheAlias, CacheLRU, CacheNone:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("mmx: cannot marshal unknown cache policy %d", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *CachePolicy) UnmarshalText(text []byte) error {
	v, err := ParseCachePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// OverwritePolicy controls re-registration under an existing signature.
type OverwritePolicy int

const (
	// OverwriteReplace silently replaces the previous primary handler.
	OverwriteReplace OverwritePolicy = iota
	// OverwriteReject refuses the second registration.
	OverwriteReject
)

// String returns the canonical name of the policy.
func (p OverwritePolicy) String() string {
	switch p {
	case OverwriteReplace:
		return "replace"
	case OverwriteReject:
		return "reject"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParseOverwritePolicy converts a case-insensitive name into an OverwritePolicy.
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace":
		return OverwriteReplace, nil
	case "reject":
		return OverwriteReject, nil
	case "":
		return OverwriteReplace, fmt.Errorf("mmx: empty overwrite policy")
	default:
		return OverwriteReplace, fmt.Errorf("mmx: unknown overwrite policy %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p OverwritePolicy) MarshalText() ([]byte, error) {
	switch p {
	case OverwriteReplace, OverwriteReject:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("mmx: cannot marshal unknown overwrite policy %d", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *OverwritePolicy) UnmarshalText(text []byte) error {
	v, err := ParseOverwritePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
