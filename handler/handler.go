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

// Package handler provides apis.Handler implementations for untyped and
// generically typed operation bodies.
package handler

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/mmx/apis"
)

var (
	// ErrNilFunc is returned when a handler is created without a body.
	ErrNilFunc = errors.New("mmx(handler): nil operation body")
	// ErrArgumentType is returned when an argument does not have the Go type
	// the operation body was declared with.
	ErrArgumentType = errors.New("mmx(handler): argument type mismatch")
)

// New wraps an untyped body as a Handler for sig.
func New(sig apis.Signature, fn apis.HandlerFunc) (apis.Handler, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	return &funcHandler{sig: sig, fn: fn}, nil
}

// funcHandler is a Handler over an untyped body.
type funcHandler struct {
	sig apis.Signature
	fn  apis.HandlerFunc
}

func (h *funcHandler) Signature() apis.Signature {
	return h.sig
}

func (h *funcHandler) Invoke(a, b any) (int, error) {
	return h.fn(a, b), nil
}

// Typed wraps a body over concrete Go types as a Handler for sig.
// Arguments are asserted to T1 and T2 on every call, dereferencing
// pointers the way classification does; a mismatch yields ErrArgumentType
// instead of a panic.
func Typed[T1, T2 any](sig apis.Signature, fn func(T1, T2) int) (apis.Handler, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	return &typedHandler[T1, T2]{sig: sig, fn: fn}, nil
}

// typedHandler is a Handler over a generically typed body.
type typedHandler[T1, T2 any] struct {
	sig apis.Signature
	fn  func(T1, T2) int
}

func (h *typedHandler[T1, T2]) Signature() apis.Signature {
	return h.sig
}

func (h *typedHandler[T1, T2]) Invoke(a, b any) (int, error) {
	x, ok := as[T1](a)
	if !ok {
		return 0, fmt.Errorf("%w: first argument is %T, want %s", ErrArgumentType, a, typeString[T1]())
	}
	y, ok := as[T2](b)
	if !ok {
		return 0, fmt.Errorf("%w: second argument is %T, want %s", ErrArgumentType, b, typeString[T2]())
	}
	return h.fn(x, y), nil
}

// Const returns a Handler for sig that ignores its arguments.
func Const(sig apis.Signature, result int) apis.Handler {
	return &funcHandler{sig: sig, fn: func(any, any) int { return result }}
}

func typeString[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// as asserts v to T, following non-nil pointers until one matches.
func as[T any](v any) (T, bool) {
	if x, ok := v.(T); ok {
		return x, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
		if x, ok := rv.Interface().(T); ok {
			return x, true
		}
	}
	var zero T
	return zero, false
}
