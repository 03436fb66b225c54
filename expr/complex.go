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

import "strings"

// ComplexExpression is a head plus arguments stored across three
// independent lanes:
//
//   - static holds arguments whose count and Kind are fixed at
//     construction time and never change for the lifetime of the
//     expression. This lane exists so that a frequently-evaluated
//     shape (for example a binary arithmetic operator) never pays
//     for a slice header indirection beyond what static already
//     gives it.
//   - dynamic holds arguments appended or removed over the
//     expression's lifetime, such as the growing argument list of a
//     variadic function call under construction.
//   - spans holds bulk columnar data: homogeneous runs of atoms
//     passed by view rather than copied element by element.
//
// None of the three lanes is privileged; ComplexExpression.Arguments
// presents all of them through one flat, order-preserving view. A
// nil *ComplexExpression is not a valid Expression.
type ComplexExpression struct {
	head    Symbol
	static  []Expression
	dynamic []Expression
	spans   []AnySpan
}

// NewComplexExpression builds a ComplexExpression with head and an
// initial dynamic argument list. The static and span lanes start
// empty; use WithStaticArguments and WithSpanArguments to populate
// them at construction time.
func NewComplexExpression(head Symbol, dynamic ...Expression) *ComplexExpression {
	d := make([]Expression, len(dynamic))
	copy(d, dynamic)
	return &ComplexExpression{head: head, dynamic: d}
}

// WithStaticArguments returns a ComplexExpression identical to ce
// except that its static lane is replaced by static. It does not
// mutate ce.
func (ce *ComplexExpression) WithStaticArguments(static ...Expression) *ComplexExpression {
	s := make([]Expression, len(static))
	copy(s, static)
	return &ComplexExpression{head: ce.head, static: s, dynamic: ce.dynamic, spans: ce.spans}
}

// WithSpanArguments returns a ComplexExpression identical to ce
// except that its span lane is replaced by spans. It does not
// mutate ce.
func (ce *ComplexExpression) WithSpanArguments(spans ...AnySpan) *ComplexExpression {
	sp := make([]AnySpan, len(spans))
	copy(sp, spans)
	return &ComplexExpression{head: ce.head, static: ce.static, dynamic: ce.dynamic, spans: sp}
}

// Head returns the expression's head symbol.
func (ce *ComplexExpression) Head() Symbol { return ce.head }

// SetHead replaces the head symbol in place.
func (ce *ComplexExpression) SetHead(head Symbol) { ce.head = head }

// Kind always reports ComplexKind for a *ComplexExpression.
func (ce *ComplexExpression) Kind() Kind { return ComplexKind }

// Arguments returns a read-through view spanning all three argument
// lanes in static, dynamic, span order.
func (ce *ComplexExpression) Arguments() ArgumentView {
	return ArgumentView{owner: ce}
}

// GetArgument returns the i'th argument (in the same order as
// Arguments) without cloning it.
func (ce *ComplexExpression) GetArgument(i int) (Expression, error) {
	ref, err := ce.Arguments().At(i)
	if err != nil {
		return nil, err
	}
	return ref.Value()
}

// CloneArgument returns an owned copy of the i'th argument, tagged
// with reason.
func (ce *ComplexExpression) CloneArgument(i int, reason CloneReason) (Expression, error) {
	ref, err := ce.Arguments().At(i)
	if err != nil {
		return nil, err
	}
	return ref.Take(reason)
}

// StaticArguments, DynamicArguments and Spans give direct lane
// access for callers (principally package wire) that need to walk
// a lane without going through the unified view.
func (ce *ComplexExpression) StaticArguments() []Expression  { return ce.static }
func (ce *ComplexExpression) DynamicArguments() []Expression { return ce.dynamic }
func (ce *ComplexExpression) Spans() []AnySpan                { return ce.spans }

// Decompose splits the expression into its head and a flattened
// slice of all arguments, in view order, cloning each with reason.
// This mirrors the original implementation's "decompose into a flat
// argument list for pattern-matching" idiom; it is expensive for
// span-bearing expressions and should not be used on a hot
// evaluation path.
func (ce *ComplexExpression) Decompose(reason CloneReason) (Symbol, []Expression, error) {
	n := ce.Arguments().Len()
	out := make([]Expression, 0, n)
	err := ce.Arguments().Each(func(_ int, ref ArgumentRef) error {
		v, err := ref.Take(reason)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return ce.head, out, nil
}

// Clone produces a deep copy of ce tagged with reason: the static
// and dynamic lanes are cloned element-wise (atoms trivially,
// nested ComplexExpressions recursively) and every span is cloned
// via Span.Clone.
func (ce *ComplexExpression) Clone(reason CloneReason) *ComplexExpression {
	static := make([]Expression, len(ce.static))
	for i, a := range ce.static {
		static[i] = Clone(a, reason)
	}
	dynamic := make([]Expression, len(ce.dynamic))
	for i, a := range ce.dynamic {
		dynamic[i] = Clone(a, reason)
	}
	spans := make([]AnySpan, len(ce.spans))
	for i, s := range ce.spans {
		spans[i] = s.cloneAny(reason)
	}
	return &ComplexExpression{head: ce.head, static: static, dynamic: dynamic, spans: spans}
}

// Release invokes Release on every span in the span lane. It does
// not touch the static or dynamic lanes, since only spans carry
// external release obligations.
func (ce *ComplexExpression) Release() {
	for _, s := range ce.spans {
		s.Release()
	}
}

// Equals implements structural equality: two ComplexExpressions are
// equal iff their heads are equal and their flattened argument
// lists (static+dynamic+spans, in order) are pairwise equal. Lane
// placement is not part of the comparison: an argument held in a
// span lane equals the same value held in the dynamic lane.
func (ce *ComplexExpression) Equals(other Expression) bool {
	oce, ok := other.(*ComplexExpression)
	if !ok || oce == nil {
		return false
	}
	if ce == oce {
		return true
	}
	if !ce.head.Equals(oce.head) {
		return false
	}
	av, bv := ce.Arguments(), oce.Arguments()
	if av.Len() != bv.Len() {
		return false
	}
	for i := 0; i < av.Len(); i++ {
		ar, err := av.At(i)
		if err != nil {
			return false
		}
		br, err := bv.At(i)
		if err != nil {
			return false
		}
		a, err := ar.Value()
		if err != nil {
			return false
		}
		b, err := br.Value()
		if err != nil {
			return false
		}
		if !Equal(a, b) {
			return false
		}
	}
	return true
}

// String renders the expression as head(arg1, arg2, ...) for
// debugging. It is never used for wire or hash purposes.
func (ce *ComplexExpression) String() string {
	var b strings.Builder
	b.WriteString(ce.head.Name())
	b.WriteByte('(')
	n := ce.Arguments().Len()
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		v, err := ce.GetArgument(i)
		if err != nil {
			b.WriteString("<error>")
			continue
		}
		b.WriteString(v.String())
	}
	b.WriteByte(')')
	return b.String()
}

var _ Expression = (*ComplexExpression)(nil)
