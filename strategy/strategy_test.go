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

package strategy_test

import (
	"reflect"
	"testing"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/config"
	"dirpx.dev/mmx/hierarchy"
	"dirpx.dev/mmx/registry"
	"dirpx.dev/mmx/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Stone struct{}
type Paper struct{}
type Rock struct{}
type Box[T any] struct{ v T }
type anonymous = struct{}

// tagged reports a fixed tag through apis.Typed.
type tagged apis.TypeID

func (t tagged) TypeID() apis.TypeID { return apis.TypeID(t) }

func shapes(t *testing.T) *hierarchy.Tree {
	t.Helper()
	h := hierarchy.New("Shape")
	h.MustAdd("Stone", "Shape")
	// Qualified by the package base name of this test package.
	h.MustAdd("strategy_test.Paper", "Shape")
	h.MustAdd("Box", "Shape")
	return h
}

func lookup(t *testing.T, h *hierarchy.Tree, name string) apis.TypeID {
	t.Helper()
	id, err := h.ID(name)
	require.NoError(t, err)
	return id
}

func TestTypedStrategy(t *testing.T) {
	s := strategy.NewTypedStrategy()
	cfg := config.DefaultConfig()

	id, ok := s.TryTypeOf(tagged(7), cfg)
	assert.True(t, ok)
	assert.Equal(t, apis.TypeID(7), id)

	_, ok = s.TryTypeOf(Stone{}, cfg)
	assert.False(t, ok)
	_, ok = s.TryTypeOf(nil, cfg)
	assert.False(t, ok)
	_, ok = s.TryType(reflect.TypeOf(tagged(0)), cfg)
	assert.False(t, ok, "Typed needs an instance")
}

func TestRegistryStrategy(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)
	require.NoError(t, reg.Register(reflect.TypeOf(Stone{}), 3))
	s := strategy.NewRegistryStrategy(reg)

	id, ok := s.TryTypeOf(&Stone{}, cfg)
	assert.True(t, ok)
	assert.Equal(t, apis.TypeID(3), id)

	id, ok = s.TryType(reflect.TypeOf(Stone{}), cfg)
	assert.True(t, ok)
	assert.Equal(t, apis.TypeID(3), id)

	_, ok = s.TryTypeOf(Paper{}, cfg)
	assert.False(t, ok)
	_, ok = s.TryTypeOf(nil, cfg)
	assert.False(t, ok)

	_, ok = strategy.NewRegistryStrategy(nil).TryTypeOf(Stone{}, cfg)
	assert.False(t, ok)
}

func TestReflectStrategy(t *testing.T) {
	h := shapes(t)
	cfg := config.DefaultConfig()
	s := strategy.NewReflectStrategy(h, cfg)

	cases := []struct {
		name string
		v    any
		want string
		ok   bool
	}{
		{"plain name", Stone{}, "Stone", true},
		{"pointer", &Stone{}, "Stone", true},
		{"qualified name", Paper{}, "strategy_test.Paper", true},
		{"generic", Box[int]{}, "Box", true},
		{"unnamed", []Stone{}, "", false},
		{"anonymous struct", anonymous{}, "", false},
		{"not in hierarchy", 42, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Twice: the second call is served from the memo.
			for i := 0; i < 2; i++ {
				id, ok := s.TryTypeOf(tc.v, cfg)
				require.Equal(t, tc.ok, ok)
				if tc.ok {
					assert.Equal(t, lookup(t, h, tc.want), id)
				}
			}
		})
	}

	_, ok := s.TryType(nil, cfg)
	assert.False(t, ok)
	_, ok = strategy.NewReflectStrategy(nil, cfg).TryTypeOf(Stone{}, cfg)
	assert.False(t, ok)
}

func TestReflectStrategySeesLateTypes(t *testing.T) {
	h := shapes(t)
	cfg := config.DefaultConfig()
	s := strategy.NewReflectStrategy(h, cfg)

	_, ok := s.TryTypeOf(Rock{}, cfg)
	require.False(t, ok)

	rock := h.MustAdd("Rock", "Stone")
	id, ok := s.TryTypeOf(&Rock{}, cfg)
	assert.True(t, ok)
	assert.Equal(t, rock, id)
}

func TestReflectStrategyHonorsMaxUnwrap(t *testing.T) {
	h := shapes(t)
	s := strategy.NewReflectStrategy(h, config.DefaultConfig())
	var pp **Stone

	_, ok := s.TryType(reflect.TypeOf(pp), config.NewConfig(config.WithMaxUnwrap(1)))
	assert.False(t, ok)
	_, ok = s.TryType(reflect.TypeOf(pp), config.NewConfig(config.WithMaxUnwrap(2)))
	assert.True(t, ok)
}

func TestChainOrder(t *testing.T) {
	h := shapes(t)
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)
	// The binding shadows the name-based match.
	require.NoError(t, reg.Register(reflect.TypeOf(Stone{}), 99))

	c := strategy.Chain(
		strategy.NewTypedStrategy(),
		nil,
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(h, cfg),
	)

	id, ok := c.TypeOf(tagged(5), cfg)
	assert.True(t, ok)
	assert.Equal(t, apis.TypeID(5), id)

	id, ok = c.TypeOf(Stone{}, cfg)
	assert.True(t, ok)
	assert.Equal(t, apis.TypeID(99), id)

	id, ok = c.TypeFor(reflect.TypeOf(Paper{}), cfg)
	assert.True(t, ok)
	assert.Equal(t, lookup(t, h, "strategy_test.Paper"), id)

	_, ok = c.TypeOf(3.5, cfg)
	assert.False(t, ok)

	_, ok = strategy.Chain().TypeOf(Stone{}, cfg)
	assert.False(t, ok)
}
