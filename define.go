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

package mmx

import (
	"fmt"
	"reflect"

	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/handler"
	"go.uber.org/zap"
)

// Define registers fn under the signature of its parameter types. Both
// types must classify (see Dispatcher.TypeFor); this is checked once, here.
// Failures are accumulated and reported by d.Err.
func Define[T1, T2 any](d *Dispatcher, fn func(T1, T2) int) *Dispatcher {
	first, ok := d.TypeFor(reflect.TypeOf((*T1)(nil)).Elem())
	if !ok {
		d.record(fmt.Errorf("%w: %s", ErrUnclassified, reflect.TypeOf((*T1)(nil)).Elem()))
		return d
	}
	second, ok := d.TypeFor(reflect.TypeOf((*T2)(nil)).Elem())
	if !ok {
		d.record(fmt.Errorf("%w: %s", ErrUnclassified, reflect.TypeOf((*T2)(nil)).Elem()))
		return d
	}
	return DefineAs(d, first, second, fn)
}

// DefineAs registers fn under (first, second). Use it when the parameter
// types are broader than the signature, e.g. an interface shared by the
// whole hierarchy.
//
// A concrete parameter type cannot hold values of the subtypes of its
// slot's type; such registrations succeed but are logged at warn level.
func DefineAs[T1, T2 any](d *Dispatcher, first, second apis.TypeID, fn func(T1, T2) int) *Dispatcher {
	sig := apis.NewSignature(first, second)
	h, err := handler.Typed(sig, fn)
	if err != nil {
		d.record(err)
		return d
	}
	if err := d.RegisterHandler(h); err != nil {
		d.record(err)
		return d
	}
	d.checkNarrow(sig, "first", first, reflect.TypeOf((*T1)(nil)).Elem())
	d.checkNarrow(sig, "second", second, reflect.TypeOf((*T2)(nil)).Elem())
	return d
}

// subtyped is implemented by hierarchies that know whether a type has
// declared subtypes, such as hierarchy.Tree.
type subtyped interface {
	HasSubtypes(id apis.TypeID) bool
}

func (d *Dispatcher) checkNarrow(sig apis.Signature, slot string, id apis.TypeID, t reflect.Type) {
	h, ok := d.hier.(subtyped)
	if !ok || t.Kind() == reflect.Interface || !h.HasSubtypes(id) {
		return
	}
	d.logger.Warn("handler parameter cannot hold subtypes",
		zap.String("signature", sig.Format(d.hier)),
		zap.String("slot", slot),
		zap.Stringer("type", t),
	)
}
