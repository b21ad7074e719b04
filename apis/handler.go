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

// Handler is a binary operation registered under a Signature.
// Handlers are immutable once registered and safe for concurrent Invoke.
type Handler interface {
	// Signature returns the signature the handler was declared for.
	Signature() Signature
	// Invoke runs the operation body on the two arguments.
	Invoke(a, b any) (int, error)
}

// HandlerFunc is an untyped operation body.
type HandlerFunc func(a, b any) int
