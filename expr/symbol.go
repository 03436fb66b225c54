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

import "github.com/dchest/siphash"

// symbolHashKeys are the fixed siphash keys used for Symbol.Hash.
// They do not need to be secret; the hash only needs to be cheap
// and well-distributed for use as a map/cache key, not
// cryptographically strong.
const (
	symbolHashK0, symbolHashK1 = 0x626f7373, 0x73796d62 // "boss", "symb"
)

// Symbol is an interned name: the sole identity used for
// ComplexExpression heads and for bare symbolic references. Two
// Symbols are equal iff their names are equal; there is no global
// intern table required for correctness, only for efficiency.
type Symbol string

// NewSymbol constructs a Symbol from a name.
func NewSymbol(name string) Symbol { return Symbol(name) }

// Name returns the symbol's underlying name.
func (s Symbol) Name() string { return string(s) }

// Hash returns a cheap, well-distributed hash of the symbol's
// name, suitable for use as a map or cache key. It is not part of
// the wire format.
func (s Symbol) Hash() uint64 {
	return siphash.Hash(symbolHashK0, symbolHashK1, []byte(s))
}

func (s Symbol) Kind() Kind { return SymbolKind }

func (s Symbol) Equals(other Expression) bool {
	o, ok := other.(Symbol)
	return ok && s == o
}

func (s Symbol) String() string { return string(s) }

var _ Expression = Symbol("")
