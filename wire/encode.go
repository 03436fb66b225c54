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

import (
	"encoding/binary"
	"math"

	"github.com/jack-pearce/BOSS/expr"
)

// childCount returns the number of argument slots a ComplexExpression
// contributes to the flattened arrays: its static and dynamic
// argument counts plus the total element count across its spans.
func childCount(ce *expr.ComplexExpression) uint64 {
	n := uint64(len(ce.StaticArguments())) + uint64(len(ce.DynamicArguments()))
	for _, s := range ce.Spans() {
		n += uint64(s.Size())
	}
	return n
}

// countArguments returns the total number of flattened argument
// slots needed to encode e, per the format's one-slot-per-atom,
// one-slot-per-nested-expression-pointer rule.
func countArguments(e expr.Expression) uint64 {
	ce, ok := e.(*expr.ComplexExpression)
	if !ok {
		return 1
	}
	total := uint64(1) + childCount(ce)
	for _, a := range ce.StaticArguments() {
		if _, isComplex := a.(*expr.ComplexExpression); isComplex {
			total += countArguments(a) - 1
		}
	}
	for _, a := range ce.DynamicArguments() {
		if _, isComplex := a.(*expr.ComplexExpression); isComplex {
			total += countArguments(a) - 1
		}
	}
	return total
}

// countExpressions returns the number of expression descriptors
// needed to encode e: one per ComplexExpression node in the tree,
// including the root.
func countExpressions(e expr.Expression) uint64 {
	ce, ok := e.(*expr.ComplexExpression)
	if !ok {
		return 0
	}
	total := uint64(1)
	for _, a := range ce.StaticArguments() {
		total += countExpressions(a)
	}
	for _, a := range ce.DynamicArguments() {
		total += countExpressions(a)
	}
	return total
}

// encoder accumulates the four regions of a serialized buffer while
// walking the tree breadth-first, one layer of ComplexExpression
// nodes at a time.
type encoder struct {
	values []uint64
	types  []uint64
	exprs  []expressionDescriptor
	pool   *stringPool
}

func newEncoder(argN, exprN uint64) *encoder {
	return &encoder{
		values: make([]uint64, argN),
		types:  make([]uint64, argN),
		exprs:  make([]expressionDescriptor, exprN),
		pool:   newStringPool(),
	}
}

func f32bits(f float32) uint64 { return uint64(math.Float32bits(f)) }
func f64bits(f float64) uint64 { return math.Float64bits(f) }

// writeAtom writes a single non-expression atom into value/type slot i.
func (enc *encoder) writeAtom(i uint64, a expr.Expression) {
	switch v := a.(type) {
	case expr.Bool:
		enc.types[i] = uint64(ArgBool)
		if v {
			enc.values[i] = 1
		}
	case expr.Int8:
		enc.types[i] = uint64(ArgChar)
		enc.values[i] = uint64(uint8(v))
	case expr.Int32:
		enc.types[i] = uint64(ArgInt)
		enc.values[i] = uint64(uint32(v))
	case expr.Int64:
		enc.types[i] = uint64(ArgLong)
		enc.values[i] = uint64(v)
	case expr.Float32:
		enc.types[i] = uint64(ArgFloat)
		enc.values[i] = f32bits(float32(v))
	case expr.Float64:
		enc.types[i] = uint64(ArgDouble)
		enc.values[i] = f64bits(float64(v))
	case expr.String:
		enc.types[i] = uint64(ArgString)
		enc.values[i] = enc.pool.intern(string(v))
	case expr.Symbol:
		enc.types[i] = uint64(ArgSymbol)
		enc.values[i] = enc.pool.intern(v.Name())
	default:
		panic("wire: unsupported atom kind during encode")
	}
}

// writeRun writes a span's elements starting at slot i, applying
// RLE when the span is long enough to benefit from it.
func (enc *encoder) writeRun(i uint64, s expr.AnySpan) uint64 {
	n := uint64(s.Size())
	if n == 0 {
		return 0
	}
	for k := uint64(0); k < n; k++ {
		v, err := expr.SpanElementAt(s, int(k))
		if err != nil {
			panic(err)
		}
		enc.writeAtom(i+k, v)
	}
	if n >= RLEMinimumSize {
		enc.types[i] |= uint64(RLEBit)
		enc.types[i+1] = n
	}
	return n
}

type bfsNode struct {
	ce        *expr.ComplexExpression
	headSlot  uint64 // argument slot that holds this node's own ArgExpression pointer
	exprSlot  uint64 // expressions[] index for this node
}

// Encode serializes e into the portable wire format described in
// package wire's doc comment.
func Encode(e expr.Expression) ([]byte, error) {
	argN := countArguments(e)
	exprN := countExpressions(e)
	enc := newEncoder(argN, exprN)

	ce, isComplex := e.(*expr.ComplexExpression)
	if !isComplex {
		enc.writeAtom(0, e)
		return enc.finish(argN, exprN)
	}

	// Slot 0 always holds the root's own ArgExpression pointer.
	rootChildren := childCount(ce)
	headOff := enc.pool.intern(ce.Head().Name())
	enc.exprs[0] = expressionDescriptor{
		symbolNameOffset: headOff,
		startChildOffset: 1,
		endChildOffset:   1 + rootChildren,
	}
	enc.types[0] = uint64(ArgExpression)
	enc.values[0] = 0

	layer := []bfsNode{{ce: ce, headSlot: 0, exprSlot: 0}}
	argCursor := uint64(1)
	exprCursor := uint64(1)

	for len(layer) > 0 {
		// Arguments belonging to this layer's nodes are written
		// starting at argCursor; any nested ComplexExpressions
		// discovered while doing so are queued into nextLayer and
		// placed after every sibling in this layer, at
		// nextLayerOffset onward.
		var nextLayerTotal uint64
		for _, n := range layer {
			nextLayerTotal += childCount(n.ce)
		}
		nextLayerOffset := argCursor + nextLayerTotal
		var nextLayer []bfsNode
		childrenRunningSum := uint64(0)

		for _, n := range layer {
			for _, a := range n.ce.StaticArguments() {
				argCursor, exprCursor, childrenRunningSum = enc.placeArgument(
					a, argCursor, exprCursor, nextLayerOffset, &childrenRunningSum, &nextLayer)
			}
			for _, a := range n.ce.DynamicArguments() {
				argCursor, exprCursor, childrenRunningSum = enc.placeArgument(
					a, argCursor, exprCursor, nextLayerOffset, &childrenRunningSum, &nextLayer)
			}
			for _, s := range n.ce.Spans() {
				argCursor += enc.writeRun(argCursor, s)
			}
		}
		layer = nextLayer
	}

	return enc.finish(argN, exprN)
}

func (enc *encoder) placeArgument(
	a expr.Expression,
	argCursor, exprCursor, nextLayerOffset uint64,
	childrenRunningSum *uint64,
	nextLayer *[]bfsNode,
) (uint64, uint64, uint64) {
	if child, ok := a.(*expr.ComplexExpression); ok {
		cc := childCount(child)
		headOff := enc.pool.intern(child.Head().Name())
		start := nextLayerOffset + *childrenRunningSum
		end := start + cc
		enc.exprs[exprCursor] = expressionDescriptor{
			symbolNameOffset: headOff,
			startChildOffset: start,
			endChildOffset:   end,
		}
		enc.types[argCursor] = uint64(ArgExpression)
		enc.values[argCursor] = exprCursor
		*nextLayer = append(*nextLayer, bfsNode{ce: child, headSlot: argCursor, exprSlot: exprCursor})
		*childrenRunningSum += cc
		return argCursor + 1, exprCursor + 1, *childrenRunningSum
	}
	enc.writeAtom(argCursor, a)
	return argCursor + 1, exprCursor, *childrenRunningSum
}

func (enc *encoder) finish(argN, exprN uint64) ([]byte, error) {
	pool := enc.pool.bytes()
	h := header{
		argumentCount:   argN,
		expressionCount: exprN,
		originalAddress: 0, // per the open question on this field, always zeroed on emit
		stringFillIndex: uint64(len(pool)),
	}
	lay := computeLayout(h)
	buf := make([]byte, lay.total)

	putU64(buf[0:8], h.argumentCount)
	putU64(buf[8:16], h.expressionCount)
	putU64(buf[16:24], h.originalAddress)
	putU64(buf[24:32], h.stringFillIndex)

	for i, v := range enc.values {
		off := lay.valuesOff + i*argumentValueSize
		putU64(buf[off:off+8], v)
	}
	for i, t := range enc.types {
		off := lay.typesOff + i*argumentTypeSize
		putU64(buf[off:off+8], t)
	}
	for i, d := range enc.exprs {
		off := lay.exprsOff + i*expressionDescriptorSize
		putU64(buf[off:off+8], d.symbolNameOffset)
		putU64(buf[off+8:off+16], d.startChildOffset)
		putU64(buf[off+16:off+24], d.endChildOffset)
	}
	copy(buf[lay.stringsOff:], pool)

	return buf, nil
}

func putU64(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }
