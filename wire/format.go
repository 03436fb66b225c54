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

// ArgumentType is the on-the-wire tag for one slot in the flattened
// argument-value array. The values below are fixed by the format and
// must never be renumbered; they are distinct from (but map
// one-to-one onto) expr.Kind.
type ArgumentType uint64

const (
	ArgBool ArgumentType = iota
	ArgChar
	ArgInt
	ArgLong
	ArgFloat
	ArgDouble
	ArgString
	ArgSymbol
	ArgExpression
)

func (t ArgumentType) String() string {
	switch t &^ RLEBit {
	case ArgBool:
		return "Bool"
	case ArgChar:
		return "Char"
	case ArgInt:
		return "Int"
	case ArgLong:
		return "Long"
	case ArgFloat:
		return "Float"
	case ArgDouble:
		return "Double"
	case ArgString:
		return "String"
	case ArgSymbol:
		return "Symbol"
	case ArgExpression:
		return "Expression"
	default:
		return "Unknown"
	}
}

const (
	// RLEMinimumSize is the minimum run length that is worth
	// encoding as RLE: below this, the cost of the two control
	// slots (flagged type + length) exceeds the savings, so the
	// encoder falls back to repeating the plain type tag across
	// every slot in the run.
	RLEMinimumSize = 5

	// RLEBit is the high bit of an ArgumentType slot indicating
	// that the following slot (not the following argument value)
	// holds the run length as a uint64, and that the next
	// RunLength-1 argument slots after the value slot share this
	// same type without repeating the tag.
	RLEBit ArgumentType = 0x80
)

const (
	// headerSize is the size in bytes of the fixed portion of a
	// serialized expression: argumentCount, expressionCount,
	// originalAddress and stringArgumentsFillIndex, each an
	// 8-byte field.
	headerSize = 32

	// argumentValueSize is the size in bytes of one slot in the
	// argument-value array. The union it represents (bool, int8,
	// int32, int64, float32, float64, or a byte offset into the
	// string pool) is widened to 8 bytes uniformly so that every
	// lane has a fixed stride.
	argumentValueSize = 8

	// argumentTypeSize is the size in bytes of one slot in the
	// argument-type array. Types are stored as full 8-byte words
	// (not packed into a single byte) so that the RLE run-length
	// slot can reuse the same stride.
	argumentTypeSize = 8

	// expressionDescriptorSize is the size in bytes of one
	// expression descriptor: symbolNameOffset, startChildOffset,
	// endChildOffset, each an 8-byte field.
	expressionDescriptorSize = 24
)

// header is the decoded form of the fixed 32-byte prefix of a
// serialized buffer.
type header struct {
	argumentCount    uint64
	expressionCount  uint64
	originalAddress  uint64
	stringFillIndex  uint64
}

// layout describes the byte offsets of the four variable-length
// regions that follow the header, entirely determined by
// argumentCount and expressionCount per the format's design.
type layout struct {
	valuesOff   int
	typesOff    int
	exprsOff    int
	stringsOff  int
	stringsLen  int
	total       int
}

func computeLayout(h header) layout {
	argN := int(h.argumentCount)
	exprN := int(h.expressionCount)
	valuesOff := headerSize
	typesOff := valuesOff + argN*argumentValueSize
	exprsOff := typesOff + argN*argumentTypeSize
	stringsOff := exprsOff + exprN*expressionDescriptorSize
	stringsLen := int(h.stringFillIndex)
	return layout{
		valuesOff:  valuesOff,
		typesOff:   typesOff,
		exprsOff:   exprsOff,
		stringsOff: stringsOff,
		stringsLen: stringsLen,
		total:      stringsOff + stringsLen,
	}
}

// expressionDescriptor mirrors one entry of the expressions array:
// the symbol name is addressed by a string-pool offset, and the
// contiguous argument range [startChildOffset, endChildOffset) in
// the flattened argument arrays belongs to this node.
type expressionDescriptor struct {
	symbolNameOffset  uint64
	startChildOffset  uint64
	endChildOffset    uint64
}
