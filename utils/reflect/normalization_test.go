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

package reflect_test

import (
	"errors"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/mmx/apis"
	uref "dirpx.dev/mmx/utils/reflect"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type Shape interface{ Area() int }

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{MaxUnwrap: 8}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestNormalize_Pointers(t *testing.T) {
	conf := cfg()

	a := &A{}
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"plain", reflect.TypeOf(A{}), reflect.TypeOf(A{})},
		{"ptr", reflect.TypeOf(&A{}), reflect.TypeOf(A{})},
		{"ptrptr", reflect.TypeOf(&a), reflect.TypeOf(A{})},
		{"generic", reflect.TypeOf(&G[int]{}), reflect.TypeOf(G[int]{})},
		{"interface", reflect.TypeOf((*Shape)(nil)).Elem(), reflect.TypeOf((*Shape)(nil)).Elem()},
		{"builtin", reflect.TypeOf(0), reflect.TypeOf(0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ, conf)
			if err != nil {
				t.Fatalf("Normalize(%v) returned error: %v", tc.typ, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestNormalize_ContainersAreNotUnwrapped(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeOf([]A{}),
		reflect.TypeOf([2]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(struct{}{}),
		reflect.TypeOf(func() {}),
	} {
		if _, err := uref.Normalize(typ, cfg()); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
			t.Fatalf("Normalize(%v): want ErrReflectTypeNotNamed, got %v", typ, err)
		}
	}
}

func TestNormalize_MaxUnwrapLimit(t *testing.T) {
	a := &A{}
	pp := reflect.TypeOf(&a) // **A

	one := cfg(func(c *apis.Config) { c.MaxUnwrap = 1 })
	if _, err := uref.Normalize(pp, one); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("MaxUnwrap=1: want ErrReflectTypeNotNamed, got %v", err)
	}

	two := cfg(func(c *apis.Config) { c.MaxUnwrap = 2 })
	if got, err := uref.Normalize(pp, two); err != nil || got != reflect.TypeOf(A{}) {
		t.Fatalf("MaxUnwrap=2: got (%v,%v), want (A,nil)", got, err)
	}

	// Zero falls back to the default depth.
	zero := cfg(func(c *apis.Config) { c.MaxUnwrap = 0 })
	if got, err := uref.Normalize(pp, zero); err != nil || got != reflect.TypeOf(A{}) {
		t.Fatalf("MaxUnwrap=0: got (%v,%v), want (A,nil)", got, err)
	}
}

func TestNormalize_NilType(t *testing.T) {
	if _, err := uref.Normalize(nil, cfg()); !errors.Is(err, uref.ErrReflectNilType) {
		t.Fatalf("Normalize(nil): want ErrReflectNilType, got %v", err)
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	conf := cfg()
	types := []reflect.Type{reflect.TypeOf(&A{}), reflect.TypeOf(A{}), reflect.TypeOf(&G[string]{})}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if _, err := uref.Normalize(types[(i+id)%len(types)], conf); err != nil {
					t.Errorf("Normalize: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()
}
