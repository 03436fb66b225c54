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

// Buffer is a decoded view over a serialized byte region: it keeps
// the raw bytes and the computed region offsets, and exposes the
// read-only accessors needed both for full deserialization (Decode)
// and for lazy comparison (Lazy).
type Buffer struct {
	raw    []byte
	hdr    header
	layout layout
}

func getU64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// Parse validates buf's header and region bounds and returns a
// Buffer wrapping it. Parse does not copy buf.
func Parse(buf []byte) (*Buffer, error) {
	if len(buf) < headerSize {
		return nil, errCorrupt("buffer shorter than the fixed header")
	}
	h := header{
		argumentCount:   getU64(buf[0:8]),
		expressionCount: getU64(buf[8:16]),
		originalAddress: getU64(buf[16:24]),
		stringFillIndex: getU64(buf[24:32]),
	}
	lay := computeLayout(h)
	if lay.total > len(buf) {
		return nil, errCorrupt("buffer shorter than its declared regions")
	}
	return &Buffer{raw: buf, hdr: h, layout: lay}, nil
}

func (b *Buffer) valueAt(i uint64) uint64 {
	off := b.layout.valuesOff + int(i)*argumentValueSize
	return getU64(b.raw[off : off+8])
}

func (b *Buffer) typeAt(i uint64) uint64 {
	off := b.layout.typesOff + int(i)*argumentTypeSize
	return getU64(b.raw[off : off+8])
}

func (b *Buffer) exprAt(i uint64) expressionDescriptor {
	off := b.layout.exprsOff + int(i)*expressionDescriptorSize
	return expressionDescriptor{
		symbolNameOffset: getU64(b.raw[off : off+8]),
		startChildOffset: getU64(b.raw[off+8 : off+16]),
		endChildOffset:   getU64(b.raw[off+16 : off+24]),
	}
}

func (b *Buffer) stringPoolRegion() []byte {
	return b.raw[b.layout.stringsOff : b.layout.stringsOff+b.layout.stringsLen]
}

func (b *Buffer) stringAt(off uint64) (string, error) {
	return lookupString(b.stringPoolRegion(), off)
}

// resolvedType splits a raw type word into its base ArgumentType and
// whether the RLE bit is set.
func resolvedType(raw uint64) (ArgumentType, bool) {
	t := ArgumentType(raw)
	return t &^ RLEBit, t&RLEBit != 0
}

func (b *Buffer) atomAt(i uint64) (expr.Expression, uint64, error) {
	base, rle := resolvedType(b.typeAt(i))
	consumed := uint64(1)
	if rle {
		consumed = b.typeAt(i + 1)
		if consumed < RLEMinimumSize {
			return nil, 0, errCorrupt("RLE run length below minimum")
		}
	}
	v, err := decodeAtomValue(base, b.valueAt(i), b)
	return v, consumed, err
}

// deserializeRange rebuilds the flat argument range [start, end) as
// an expr.Expression slice, recursing into nested ComplexExpressions
// and expanding RLE runs back into individual values.
func (b *Buffer) deserializeRange(start, end uint64) ([]expr.Expression, error) {
	var out []expr.Expression
	for i := start; i < end; {
		base, _ := resolvedType(b.typeAt(i))
		if base == ArgExpression {
			child, err := b.deserializeExpr(b.valueAt(i))
			if err != nil {
				return nil, err
			}
			out = append(out, child)
			i++
			continue
		}
		v, consumed, err := b.atomAt(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if consumed > 1 {
			_, rle := resolvedType(b.typeAt(i))
			if !rle {
				return nil, errCorrupt("RLE run length without RLE flag")
			}
			for k := uint64(1); k < consumed; k++ {
				base, _ := resolvedType(b.typeAt(i))
				ev, err := decodeAtomValue(base, b.valueAt(i+k), b)
				if err != nil {
					return nil, err
				}
				out = append(out, ev)
			}
			i += consumed
		} else {
			i++
		}
	}
	return out, nil
}

// decodeAtomValue decodes a single value slot whose type is already
// known (used for the tail of an RLE run, where the type tag is not
// repeated in the per-slot type array).
func decodeAtomValue(base ArgumentType, v uint64, b *Buffer) (expr.Expression, error) {
	switch base {
	case ArgBool:
		return expr.Bool(v != 0), nil
	case ArgChar:
		return expr.Int8(int8(uint8(v))), nil
	case ArgInt:
		return expr.Int32(int32(uint32(v))), nil
	case ArgLong:
		return expr.Int64(int64(v)), nil
	case ArgFloat:
		return expr.Float32(math.Float32frombits(uint32(v))), nil
	case ArgDouble:
		return expr.Float64(math.Float64frombits(v)), nil
	case ArgString:
		s, err := b.stringAt(v)
		if err != nil {
			return nil, err
		}
		return expr.String(s), nil
	case ArgSymbol:
		s, err := b.stringAt(v)
		if err != nil {
			return nil, err
		}
		return expr.NewSymbol(s), nil
	default:
		return nil, errCorrupt("unknown argument type tag in RLE run")
	}
}

func (b *Buffer) deserializeExpr(exprIdx uint64) (expr.Expression, error) {
	d := b.exprAt(exprIdx)
	name, err := b.stringAt(d.symbolNameOffset)
	if err != nil {
		return nil, err
	}
	args, err := b.deserializeRange(d.startChildOffset, d.endChildOffset)
	if err != nil {
		return nil, err
	}
	return expr.NewComplexExpression(expr.NewSymbol(name), args...), nil
}

// Decode fully materializes the buffer's root into an
// expr.Expression tree.
func (b *Buffer) Decode() (expr.Expression, error) {
	base, _ := resolvedType(b.typeAt(0))
	if base == ArgExpression {
		return b.deserializeExpr(b.valueAt(0))
	}
	v, _, err := b.atomAt(0)
	return v, err
}

// Decode is a convenience wrapper combining Parse and Buffer.Decode.
func Decode(buf []byte) (expr.Expression, error) {
	b, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	return b.Decode()
}
