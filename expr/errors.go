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

import "fmt"

// OutOfRangeError is returned by any indexed accessor (span
// elements, argument-view positions) when the index is outside
// [0, Length).
type OutOfRangeError struct {
	Index  int
	Length int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Length)
}

// ArgumentTypeMismatchError is returned when code destructuring an
// argument expected one Kind but found another.
type ArgumentTypeMismatchError struct {
	Expected Kind
	Got      Expression
}

func (e *ArgumentTypeMismatchError) Error() string {
	return fmt.Sprintf("argument type mismatch: expected %s, got %s", e.Expected, e.Got.String())
}
