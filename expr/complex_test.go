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

import "testing"

func buildMixedLaneExpression() *ComplexExpression {
	ce := NewComplexExpression(NewSymbol("Something"), Int32(17))
	ce = ce.WithStaticArguments(Int32(5))
	ce = ce.WithSpanArguments(OwnedSpan([]int64{100, 200, 300}))
	return ce
}

func TestArgumentViewLengthInvariant(t *testing.T) {
	ce := buildMixedLaneExpression()
	got := ce.Arguments().Len()
	want := len(ce.StaticArguments()) + len(ce.DynamicArguments())
	for _, s := range ce.Spans() {
		want += s.Size()
	}
	if got != want {
		t.Fatalf("Arguments().Len() = %d, want %d", got, want)
	}
	if got != 1+1+3 {
		t.Fatalf("Arguments().Len() = %d, want 5", got)
	}
}

func TestArgumentViewOrderIsStaticDynamicSpan(t *testing.T) {
	ce := buildMixedLaneExpression()
	want := []Expression{Int32(5), Int32(17), Int64(100), Int64(200), Int64(300)}
	for i, w := range want {
		v, err := ce.GetArgument(i)
		if err != nil {
			t.Fatalf("GetArgument(%d): %v", i, err)
		}
		if !Equal(v, w) {
			t.Fatalf("argument %d = %v, want %v", i, v, w)
		}
	}
}

func TestArgumentViewOutOfRange(t *testing.T) {
	ce := buildMixedLaneExpression()
	if _, err := ce.GetArgument(ce.Arguments().Len()); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestCloneIdempotence(t *testing.T) {
	ce := buildMixedLaneExpression()
	c1 := ce.Clone(ForTesting)
	c2 := c1.Clone(ExpressionWrapping)
	if !ce.Equals(c2) {
		t.Fatalf("clone(reason).clone(reason') should equal the original")
	}
}

func TestCloneProducesIndependentSpans(t *testing.T) {
	ce := buildMixedLaneExpression()
	clone := ce.Clone(ForTesting)
	origSpan := ce.Spans()[0].(Span[int64])
	cloneSpan := clone.Spans()[0].(Span[int64])
	if origSpan.SameIdentity(cloneSpan) {
		t.Fatal("cloned span must not share identity with the original")
	}
}

func TestComplexExpressionEqualityIsLaneOblivious(t *testing.T) {
	a := NewComplexExpression(NewSymbol("F"), Int32(1), Int32(2), Int32(3))
	b := NewComplexExpression(NewSymbol("F"))
	b = b.WithStaticArguments(Int32(1))
	b = b.WithSpanArguments(OwnedSpan([]int32{2, 3}))
	if !a.Equals(b) {
		t.Fatalf("lane placement must not affect equality: %v vs %v", a, b)
	}
}

func TestComplexExpressionEqualityDiffersOnHead(t *testing.T) {
	a := NewComplexExpression(NewSymbol("F"), Int32(1))
	b := NewComplexExpression(NewSymbol("G"), Int32(1))
	if a.Equals(b) {
		t.Fatal("expressions with different heads must not be equal")
	}
}

func TestNumericEqualityAcrossWidths(t *testing.T) {
	if !Equal(Int32(5), Int64(5)) {
		t.Fatal("Int32(5) should equal Int64(5)")
	}
	if !Equal(Int8(5), Float64(5)) {
		t.Fatal("Int8(5) should equal Float64(5)")
	}
	if Equal(Int32(5), String("5")) {
		t.Fatal("numeric atoms must never equal strings")
	}
}

func TestWidenNarrowAtoms(t *testing.T) {
	if w := Widen(Int32(5)); w.Kind() != Int64Kind {
		t.Fatalf("Widen(Int32) kind = %v, want Int64Kind", w.Kind())
	}
	if w := Widen(Float32(5)); w.Kind() != Float64Kind {
		t.Fatalf("Widen(Float32) kind = %v, want Float64Kind", w.Kind())
	}
	if w := Widen(String("x")); w.Kind() != StringKind {
		t.Fatal("Widen must be a no-op for non-numeric atoms")
	}
}

func TestTagStability(t *testing.T) {
	cases := []struct {
		k    Kind
		want uint8
	}{
		{BoolKind, 0},
		{Int8Kind, 1},
		{Int32Kind, 2},
		{Int64Kind, 3},
		{Float32Kind, 4},
		{Float64Kind, 5},
		{StringKind, 6},
		{SymbolKind, 7},
		{ComplexKind, 8},
	}
	for _, c := range cases {
		if uint8(c.k) != c.want {
			t.Errorf("Kind %s = %d, want %d", c.k, uint8(c.k), c.want)
		}
	}
	if CustomKind0 != 16 {
		t.Errorf("CustomKind0 = %d, want 16", CustomKind0)
	}
}

func TestComplexExpressionStringRendersArguments(t *testing.T) {
	ce := NewComplexExpression(NewSymbol("Plus"), Int32(5), Int32(4))
	got := ce.String()
	want := "Plus(5, 4)"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
