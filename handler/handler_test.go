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

package handler_test

import (
	"testing"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface{ sides() int }

type square struct{}

func (square) sides() int { return 4 }

type triangle struct{}

func (triangle) sides() int { return 3 }

func TestNew(t *testing.T) {
	sig := apis.NewSignature(1, 2)
	h, err := handler.New(sig, func(a, b any) int { return a.(int) - b.(int) })
	require.NoError(t, err)
	assert.Equal(t, sig, h.Signature())

	n, err := h.Invoke(5, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = handler.New(sig, nil)
	assert.ErrorIs(t, err, handler.ErrNilFunc)
}

func TestTyped(t *testing.T) {
	sig := apis.NewSignature(3, 3)
	h, err := handler.Typed(sig, func(a, b shape) int { return a.sides() - b.sides() })
	require.NoError(t, err)
	assert.Equal(t, sig, h.Signature())

	n, err := h.Invoke(square{}, triangle{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = h.Invoke(square{}, "triangle")
	assert.ErrorIs(t, err, handler.ErrArgumentType)
	assert.Contains(t, err.Error(), "second argument is string")

	_, err = h.Invoke(nil, square{})
	assert.ErrorIs(t, err, handler.ErrArgumentType)

	_, err = handler.Typed[square, square](sig, nil)
	assert.ErrorIs(t, err, handler.ErrNilFunc)
}

func TestTypedDereferencesPointers(t *testing.T) {
	sig := apis.NewSignature(1, 1)
	h, err := handler.Typed(sig, func(a square, b triangle) int { return a.sides() - b.sides() })
	require.NoError(t, err)

	sq, tri := &square{}, &triangle{}
	n, err := h.Invoke(sq, &tri)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var nilSquare *square
	_, err = h.Invoke(nilSquare, triangle{})
	assert.ErrorIs(t, err, handler.ErrArgumentType)
	_, err = h.Invoke(&triangle{}, triangle{})
	assert.ErrorIs(t, err, handler.ErrArgumentType)
}

func TestConst(t *testing.T) {
	sig := apis.NewSignature(0, 0)
	h := handler.Const(sig, -1)
	n, err := h.Invoke(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, -1, n)
	assert.Equal(t, sig, h.Signature())
}
