// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package expr

import "unsafe"

// SpanElem is the set of primitive types a Span may hold.
type SpanElem interface {
	~bool | ~int8 | ~int32 | ~int64 | ~float32 | ~float64 | ~string
}

// Span is a contiguous, move-only view over primitive atoms of a
// single type T. A Span never implicitly copies: duplicating one
// requires Clone, which materializes a fresh owned buffer and
// records a CloneReason. The release closure, if present, is
// invoked exactly once when Release is called (normally by the
// owning ComplexExpression when it is dropped).
//
// The zero value is not a valid Span; use OwnedSpan, BorrowedSpan,
// or RawSpan.
type Span[T SpanElem] struct {
	buf     []T
	release func()
}

// OwnedSpan takes ownership of buf: the returned Span is
// responsible for no external cleanup, since buf is assumed to be
// a plain Go allocation that the garbage collector will reclaim.
func OwnedSpan[T SpanElem](buf []T) Span[T] {
	return Span[T]{buf: buf}
}

// BorrowedSpan wraps buf without taking ownership; the caller must
// keep buf alive for at least as long as the Span (and anything
// cloned from it) is in use. No release closure is invoked on
// drop.
func BorrowedSpan[T SpanElem](buf []T) Span[T] {
	return Span[T]{buf: buf}
}

// RawSpan wraps buf together with an explicit release closure that
// is invoked exactly once, on the first call to Release; later calls
// (on this Span or on any copy of it) do nothing.
func RawSpan[T SpanElem](buf []T, release func()) Span[T] {
	if release == nil {
		return Span[T]{buf: buf}
	}
	released := false
	return Span[T]{buf: buf, release: func() {
		if !released {
			released = true
			release()
		}
	}}
}

// Size returns the number of elements in the span.
func (s Span[T]) Size() int { return len(s.buf) }

// At returns the element at index i, or an *OutOfRangeError if i
// is outside [0, Size()).
func (s Span[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(s.buf) {
		return zero, &OutOfRangeError{Index: i, Length: len(s.buf)}
	}
	return s.buf[i], nil
}

// Each calls fn for every element in order. Iteration is
// infallible: there is no way for Each itself to fail.
func (s Span[T]) Each(fn func(i int, v T)) {
	for i, v := range s.buf {
		fn(i, v)
	}
}

// Subspan returns a view narrower on both ends: [offset, offset+length).
// The returned Span does not own a release closure (narrowing never
// transfers ownership); the caller must keep the original Span (or
// its backing buffer) alive for as long as the subspan is used.
func (s Span[T]) Subspan(offset, length int) (Span[T], error) {
	if offset < 0 || length < 0 || offset+length > len(s.buf) {
		return Span[T]{}, &OutOfRangeError{Index: offset + length, Length: len(s.buf)}
	}
	return Span[T]{buf: s.buf[offset : offset+length : offset+length]}, nil
}

// Clone materializes a fresh owned copy of the span's element
// range, tagged with reason for audit purposes.
func (s Span[T]) Clone(reason CloneReason) Span[T] {
	buf := make([]T, len(s.buf))
	copy(buf, s.buf)
	return Span[T]{buf: buf}
}

// Release invokes the span's release closure, if present. Since Span
// is held by value everywhere (including as AnySpan), Release cannot
// clear s.release on the caller's copy; instead RawSpan wraps the
// closure so that it runs only on the first Release, and copies of
// the Span share that state.
func (s Span[T]) Release() {
	if s.release != nil {
		s.release()
	}
}

// begin returns an address usable for the span's identity
// comparison. Per the spec, Span equality is identity of the
// backing buffer, not structural content equality (that is the job
// of higher layers such as ComplexExpression.Equals).
func (s Span[T]) begin() unsafe.Pointer {
	if len(s.buf) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(s.buf))
}

// SameIdentity reports whether a and b are views over the same
// backing storage starting at the same element.
func (a Span[T]) SameIdentity(b Span[T]) bool {
	return a.begin() == b.begin()
}

func kindForElem[T SpanElem]() Kind {
	var z T
	switch any(z).(type) {
	case bool:
		return BoolKind
	case int8:
		return Int8Kind
	case int32:
		return Int32Kind
	case int64:
		return Int64Kind
	case float32:
		return Float32Kind
	case float64:
		return Float64Kind
	case string:
		return StringKind
	case Symbol:
		return SymbolKind
	default:
		return CustomKind0
	}
}

func wrapElem[T SpanElem](v T) Expression {
	switch kindForElem[T]() {
	case BoolKind:
		return Bool(any(v).(bool))
	case Int8Kind:
		return Int8(any(v).(int8))
	case Int32Kind:
		return Int32(any(v).(int32))
	case Int64Kind:
		return Int64(any(v).(int64))
	case Float32Kind:
		return Float32(any(v).(float32))
	case Float64Kind:
		return Float64(any(v).(float64))
	case StringKind:
		return String(any(v).(string))
	case SymbolKind:
		return any(v).(Symbol)
	default:
		panic("expr: span of unsupported element type")
	}
}

// Kind reports the atom Kind that elements of this span decode to
// when viewed through the unified argument view.
func (s Span[T]) Kind() Kind { return kindForElem[T]() }

// AnySpan is the type-erased handle used by ComplexExpression to
// hold a heterogeneous sequence of Span[T] values (each
// ComplexExpression's span lane may mix spans of different element
// types). Concrete Span[T] values satisfy AnySpan via the
// unexported methods defined in this file.
type AnySpan interface {
	Size() int
	Kind() Kind
	index(i int) (Expression, error)
	cloneAny(reason CloneReason) AnySpan
	subspanAny(offset, length int) (AnySpan, error)
	Release()
}

func (s Span[T]) index(i int) (Expression, error) {
	v, err := s.At(i)
	if err != nil {
		return nil, err
	}
	return wrapElem(v), nil
}

func (s Span[T]) cloneAny(reason CloneReason) AnySpan {
	return s.Clone(reason)
}

func (s Span[T]) subspanAny(offset, length int) (AnySpan, error) {
	sub, err := s.Subspan(offset, length)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// SpanElementAt returns the i'th element of s as an Expression. It
// exists so that other packages (notably wire, which must read span
// elements while encoding) can index a span without this package
// exposing index as part of AnySpan's public surface.
func SpanElementAt(s AnySpan, i int) (Expression, error) {
	return s.index(i)
}

var (
	_ AnySpan = Span[bool]{}
	_ AnySpan = Span[int8]{}
	_ AnySpan = Span[int32]{}
	_ AnySpan = Span[int64]{}
	_ AnySpan = Span[float32]{}
	_ AnySpan = Span[float64]{}
	_ AnySpan = Span[string]{}
	_ AnySpan = Span[Symbol]{}
)
