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

package resolver

import (
	"errors"
	"strings"

	"dirpx.dev/mmx/apis"
)

var (
	// ErrMissingSignature is returned when no registered signature applies
	// to the query.
	ErrMissingSignature = errors.New("mmx(resolver): no applicable signature")
	// ErrAmbiguousSignature is returned when the applicable signatures have
	// no single most specific member.
	ErrAmbiguousSignature = errors.New("mmx(resolver): ambiguous signature")
)

// Kind tags a resolution failure.
type Kind int

const (
	// KindMissing means no lower-bound candidate exists.
	KindMissing Kind = iota + 1
	// KindAmbiguous means the per-slot join of the candidates is not itself
	// a registered signature.
	KindAmbiguous
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Error describes a failed resolution. It unwraps to ErrMissingSignature or
// ErrAmbiguousSignature.
type Error struct {
	// Kind tags the failure.
	Kind Kind
	// Query is the signature derived from the arguments.
	Query apis.Signature
	// Candidates lists the maximal lower-bound candidates when Kind is
	// KindAmbiguous, ordered by tag.
	Candidates []apis.Signature

	hier apis.Hierarchy
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Unwrap().Error())
	b.WriteString(": query ")
	b.WriteString(e.Query.Format(e.hier))
	if len(e.Candidates) > 0 {
		b.WriteString(" matches incomparable ")
		for i, c := range e.Candidates {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Format(e.hier))
		}
	}
	return b.String()
}

// Unwrap returns the sentinel matching Kind.
func (e *Error) Unwrap() error {
	if e.Kind == KindAmbiguous {
		return ErrAmbiguousSignature
	}
	return ErrMissingSignature
}

// KindOf returns the failure kind carried by err, or 0 when err is not a
// resolution failure.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	switch {
	case errors.Is(err, ErrAmbiguousSignature):
		return KindAmbiguous
	case errors.Is(err, ErrMissingSignature):
		return KindMissing
	}
	return 0
}
