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

// ArgumentView presents the three argument lanes of a
// ComplexExpression (static, dynamic, span) as one logically
// contiguous, densely indexed sequence: static arguments first, then
// dynamic arguments, then every span flattened in order. Building a
// view does not copy or move anything; it only records the lane
// boundaries needed to translate a flat index back into a (lane,
// offset) pair.
type ArgumentView struct {
	owner *ComplexExpression
}

// Len returns the total number of arguments visible through the
// view, across all three lanes.
func (v ArgumentView) Len() int {
	if v.owner == nil {
		return 0
	}
	n := len(v.owner.static) + len(v.owner.dynamic)
	for _, s := range v.owner.spans {
		n += s.Size()
	}
	return n
}

// locate translates a flat index into the lane it falls in plus the
// index within the span lane (spanIdx, offsetWithinSpan), or reports
// the index invalid.
type argLane int

const (
	laneStatic argLane = iota
	laneDynamic
	laneSpan
)

func (v ArgumentView) locate(i int) (lane argLane, spanIdx, offset int, ok bool) {
	if v.owner == nil || i < 0 {
		return 0, 0, 0, false
	}
	rem := i
	if rem < len(v.owner.static) {
		return laneStatic, 0, rem, true
	}
	rem -= len(v.owner.static)
	if rem < len(v.owner.dynamic) {
		return laneDynamic, 0, rem, true
	}
	rem -= len(v.owner.dynamic)
	for si, s := range v.owner.spans {
		n := s.Size()
		if rem < n {
			return laneSpan, si, rem, true
		}
		rem -= n
	}
	return 0, 0, 0, false
}

// At returns an ArgumentRef for the i'th argument in view order, or
// an *OutOfRangeError if i is out of bounds.
func (v ArgumentView) At(i int) (ArgumentRef, error) {
	lane, spanIdx, offset, ok := v.locate(i)
	if !ok {
		return ArgumentRef{}, &OutOfRangeError{Index: i, Length: v.Len()}
	}
	return ArgumentRef{owner: v.owner, lane: lane, spanIdx: spanIdx, offset: offset}, nil
}

// Each calls fn for every argument in view order. It stops and
// returns the first error fn produces, if any.
func (v ArgumentView) Each(fn func(i int, ref ArgumentRef) error) error {
	for i := 0; i < v.Len(); i++ {
		ref, err := v.At(i)
		if err != nil {
			return err
		}
		if err := fn(i, ref); err != nil {
			return err
		}
	}
	return nil
}

// ArgumentRef is a handle to a single logical argument, addressable
// regardless of which of the three lanes backs it. Value reads the
// argument without disturbing the owning ComplexExpression; Take
// returns a cloned copy and also leaves the owner unchanged.
type ArgumentRef struct {
	owner   *ComplexExpression
	lane    argLane
	spanIdx int
	offset  int
}

// Value returns the argument's Expression view without cloning a
// span element's underlying storage (span elements are atoms, so
// reading one is already a value copy).
func (r ArgumentRef) Value() (Expression, error) {
	switch r.lane {
	case laneStatic:
		return r.owner.static[r.offset], nil
	case laneDynamic:
		return r.owner.dynamic[r.offset], nil
	case laneSpan:
		return r.owner.spans[r.spanIdx].index(r.offset)
	default:
		return nil, &OutOfRangeError{}
	}
}

// Take returns an owned copy of the argument, cloning it with
// reason if the argument is a *ComplexExpression (atoms and symbols
// need no cloning, since they are value types).
func (r ArgumentRef) Take(reason CloneReason) (Expression, error) {
	v, err := r.Value()
	if err != nil {
		return nil, err
	}
	return Clone(v, reason), nil
}
