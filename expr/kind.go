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

// Kind identifies the runtime type of an Expression. The numeric
// values are part of the wire format (see package wire) and must
// never be renumbered.
type Kind uint8

const (
	BoolKind Kind = iota
	Int8Kind
	Int32Kind
	Int64Kind
	Float32Kind
	Float64Kind
	StringKind
	SymbolKind
	ComplexKind

	// CustomKind0 is the first value available to a host
	// program that adds atom kinds by implementing Expression
	// itself. Kinds below this value are fixed by the wire
	// format and must not be reassigned.
	CustomKind0 Kind = 16
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "Bool"
	case Int8Kind:
		return "I8"
	case Int32Kind:
		return "I32"
	case Int64Kind:
		return "I64"
	case Float32Kind:
		return "F32"
	case Float64Kind:
		return "F64"
	case StringKind:
		return "String"
	case SymbolKind:
		return "Symbol"
	case ComplexKind:
		return "ComplexExpression"
	default:
		return "Custom"
	}
}

// Expression is the sum type at the root of the BOSS data model.
// The concrete implementations are the eight atom kinds (Bool,
// Int8, Int32, Int64, Float32, Float64, String, Symbol) plus
// *ComplexExpression. Host programs may add further atom kinds by
// implementing Expression directly; such kinds must report a
// Kind() >= CustomKind0.
type Expression interface {
	// Kind reports which variant of the sum type this value is.
	Kind() Kind

	// Equals reports whether this expression and other are
	// equal under the BOSS equality rules: numeric equality for
	// numbers, string equality for strings, symbol-name equality
	// for Symbols, and recursive structural equality for
	// ComplexExpressions. Lane placement within a
	// ComplexExpression never affects equality.
	Equals(other Expression) bool

	// String renders the expression in a debug-friendly textual
	// form. It is not a wire format.
	String() string
}
