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

// Package wire implements the portable serialization of
// expr.Expression trees: a single contiguous byte region holding a
// header, a flattened argument-value array, a parallel argument-type
// array, an array of expression descriptors, and a trailing string
// pool. The layout is pointer-free and addressed entirely by byte
// offsets so that it can be memory-mapped, sent across a process
// boundary, or compared against an in-memory Expression without
// fully decoding it (see Lazy).
//
// This package depends on expr but expr never depends back on it:
// the data model has no notion of its own wire representation.
package wire
