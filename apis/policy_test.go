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

package apis_test

import (
	"testing"

	"dirpx.dev/mmx/apis"
)

// TestCachePolicyString verifies the stable tokens for known policies and a
// diagnostic form for unknown values.
func TestCachePolicyString(t *testing.T) {
	tests := []struct {
		policy apis.CachePolicy
		want   string
	}{
		{apis.CacheAlias, "alias"},
		{apis.CacheLRU, "lru"},
		{apis.CacheNone, "none"},
		{apis.CachePolicy(42), "unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.policy.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCachePolicy(t *testing.T) {
	tests := []struct {
		input string
		want  apis.CachePolicy
	}{
		{"alias", apis.CacheAlias},
		{"  LRU ", apis.CacheLRU},
		{"None", apis.CacheNone},
	}
	for _, tt := range tests {
		got, err := apis.ParseCachePolicy(tt.input)
		if err != nil {
			t.Fatalf("ParseCachePolicy(%q): unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCachePolicy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	for _, bad := range []string{"", "   ", "lfu"} {
		if _, err := apis.ParseCachePolicy(bad); err == nil {
			t.Fatalf("ParseCachePolicy(%q): want error", bad)
		}
	}
}

func TestMustParseCachePolicy_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustParseCachePolicy(bogus): want panic")
		}
	}()
	apis.MustParseCachePolicy("bogus")
}

func TestCachePolicyText(t *testing.T) {
	for _, p := range []apis.CachePolicy{apis.CacheAlias, apis.CacheLRU, apis.CacheNone} {
		b, err := p.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", p, err)
		}
		var back apis.CachePolicy
		if err := back.UnmarshalText(b); err != nil || back != p {
			t.Fatalf("UnmarshalText(%q) = (%v,%v), want (%v,nil)", b, back, err, p)
		}
	}
	if _, err := apis.CachePolicy(9).MarshalText(); err == nil {
		t.Fatal("MarshalText(unknown): want error")
	}
	var p apis.CachePolicy
	if err := p.UnmarshalText([]byte("ttl")); err == nil {
		t.Fatal("UnmarshalText(ttl): want error")
	}
}

func TestOverwritePolicy(t *testing.T) {
	if apis.OverwriteReplace.String() != "replace" || apis.OverwriteReject.String() != "reject" {
		t.Fatalf("unexpected names: %q %q", apis.OverwriteReplace, apis.OverwriteReject)
	}
	var p apis.OverwritePolicy
	if err := p.UnmarshalText([]byte("Reject")); err != nil || p != apis.OverwriteReject {
		t.Fatalf("UnmarshalText(Reject) = (%v,%v)", p, err)
	}
	if _, err := apis.ParseOverwritePolicy(""); err == nil {
		t.Fatal("ParseOverwritePolicy(\"\"): want error")
	}
	if _, err := apis.ParseOverwritePolicy("merge"); err == nil {
		t.Fatal("ParseOverwritePolicy(merge): want error")
	}
	if _, err := apis.OverwritePolicy(7).MarshalText(); err == nil {
		t.Fatal("MarshalText(unknown): want error")
	}
}
