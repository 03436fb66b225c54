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

import "fmt"

// CorruptError is returned when a serialized buffer fails a
// structural sanity check during decode: a truncated region, an
// offset pointing outside the buffer, or an unterminated pool
// string. It always wraps a short description of what failed.
type CorruptError struct {
	Reason string
}

func (e *CorruptError) Error() string { return "wire: corrupt buffer: " + e.Reason }

func errCorrupt(reason string) error { return &CorruptError{Reason: reason} }

// RangeError reports an offset or index that falls outside the
// bounds of the region it addresses.
type RangeError struct {
	What   string
	Index  int
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("wire: %s %d out of range [0, %d)", e.What, e.Index, e.Length)
}

func errOutOfRange(what string, index, length int) error {
	return &RangeError{What: what, Index: index, Length: length}
}
