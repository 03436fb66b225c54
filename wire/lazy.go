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

package wire

import "github.com/jack-pearce/BOSS/expr"

// Lazy is a handle into one argument slot of a Buffer that compares
// itself against an in-memory expr.Expression without materializing
// anything beyond what the comparison actually touches: a mismatched
// kind (other than two numeric kinds, which compare by value as in
// expr.Equal) or a mismatched atom value is detected by reading a
// single slot, and a ComplexExpression subtree is only walked as
// deep as the first point of disagreement.
type Lazy struct {
	buf   *Buffer
	index uint64
}

// LazilyDeserialize returns a Lazy view of buf's root argument.
func (b *Buffer) LazilyDeserialize() Lazy {
	return Lazy{buf: b, index: 0}
}

// Equals reports whether the lazily-viewed slot is structurally
// equal to other, recursing into nested expressions only as needed
// and never allocating the slot's own value if other's kind already
// disagrees with the slot's.
func (l Lazy) Equals(other expr.Expression) bool {
	base, rle := resolvedType(l.buf.typeAt(l.index))
	if rle {
		// A lazily-compared slot is never itself mid-run: callers
		// only construct a Lazy at the head of an argument range,
		// and a run's non-head slots are never independently
		// addressed as a Lazy.
		return false
	}
	if base == ArgExpression {
		oce, ok := other.(*expr.ComplexExpression)
		if !ok {
			return false
		}
		return l.equalsComplex(oce)
	}
	numeric := func(t ArgumentType) bool { return t >= ArgChar && t <= ArgDouble }
	ov := otherKind(other)
	if ov != base && !(numeric(ov) && numeric(base)) {
		return false
	}
	v, _, err := l.buf.atomAt(l.index)
	if err != nil {
		return false
	}
	return expr.Equal(v, other)
}

func otherKind(e expr.Expression) ArgumentType {
	switch e.(type) {
	case expr.Bool:
		return ArgBool
	case expr.Int8:
		return ArgChar
	case expr.Int32:
		return ArgInt
	case expr.Int64:
		return ArgLong
	case expr.Float32:
		return ArgFloat
	case expr.Float64:
		return ArgDouble
	case expr.String:
		return ArgString
	case expr.Symbol:
		return ArgSymbol
	default:
		return ArgumentType(0xff)
	}
}

func (l Lazy) equalsComplex(other *expr.ComplexExpression) bool {
	d := l.buf.exprAt(l.buf.valueAt(l.index))
	name, err := l.buf.stringAt(d.symbolNameOffset)
	if err != nil || name != other.Head().Name() {
		return false
	}
	av := other.Arguments()
	// Every element of an RLE run keeps its own value slot, but only
	// the run's first type slot carries the tag (the next one holds
	// the run length), so the range has to be walked the same way
	// deserializeRange does; do that lazily, short-circuiting at the
	// first mismatch instead of building the whole slice.
	i := d.startChildOffset
	argIdx := 0
	for i < d.endChildOffset {
		base, rle := resolvedType(l.buf.typeAt(i))
		run := uint64(1)
		if rle {
			run = l.buf.typeAt(i + 1)
		}
		for k := uint64(0); k < run; k++ {
			if argIdx >= av.Len() {
				return false
			}
			ref, err := av.At(argIdx)
			if err != nil {
				return false
			}
			want, err := ref.Value()
			if err != nil {
				return false
			}
			var sub Lazy
			if base == ArgExpression && k == 0 {
				sub = Lazy{buf: l.buf, index: i}
			} else {
				sub = Lazy{buf: l.buf, index: i + k}
			}
			if !sub.equalsOneSlot(base, i, k, want) {
				return false
			}
			argIdx++
		}
		i += run
	}
	return argIdx == av.Len()
}

// equalsOneSlot compares a single logical element (which may be the
// k'th element of an RLE run rather than its own addressed slot)
// against want.
func (l Lazy) equalsOneSlot(base ArgumentType, runStart uint64, k uint64, want expr.Expression) bool {
	if base == ArgExpression {
		oce, ok := want.(*expr.ComplexExpression)
		if !ok {
			return false
		}
		sub := Lazy{buf: l.buf, index: runStart}
		return sub.equalsComplex(oce)
	}
	v, err := decodeAtomValue(base, l.buf.valueAt(runStart+k), l.buf)
	if err != nil {
		return false
	}
	return expr.Equal(v, want)
}
