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

func TestSpanSubspanInvariant(t *testing.T) {
	s := OwnedSpan([]int64{10, 20, 30, 40, 50})
	for i := 0; i <= s.Size(); i++ {
		for j := i; j <= s.Size(); j++ {
			sub, err := s.Subspan(i, j-i)
			if err != nil {
				t.Fatalf("Subspan(%d,%d): %v", i, j-i, err)
			}
			if sub.Size() != j-i {
				t.Fatalf("Subspan(%d,%d).Size() = %d, want %d", i, j-i, sub.Size(), j-i)
			}
			for k := 0; k < sub.Size(); k++ {
				got, err := sub.At(k)
				if err != nil {
					t.Fatal(err)
				}
				want, _ := s.At(i + k)
				if got != want {
					t.Fatalf("element mismatch at %d: got %v want %v", k, got, want)
				}
			}
		}
	}
}

func TestSpanSubspanOutOfRange(t *testing.T) {
	s := OwnedSpan([]int32{1, 2, 3})
	if _, err := s.Subspan(1, 10); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := s.Subspan(-1, 1); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestSpanIdentityEquality(t *testing.T) {
	buf := []float64{1, 2, 3}
	a := OwnedSpan(buf)
	b := OwnedSpan(buf)
	if !a.SameIdentity(b) {
		t.Fatal("spans over the same backing array should share identity")
	}
	c := OwnedSpan([]float64{1, 2, 3})
	if a.SameIdentity(c) {
		t.Fatal("spans over distinct backing arrays must not share identity")
	}
}

func TestSpanCloneMaterializesOwned(t *testing.T) {
	buf := []int64{1, 2, 3}
	a := OwnedSpan(buf)
	clone := a.Clone(ForTesting)
	if !a.SameIdentity(OwnedSpan(buf)) {
		t.Fatal("sanity")
	}
	if clone.SameIdentity(a) {
		t.Fatal("clone must not share identity with the source span")
	}
	if clone.Size() != a.Size() {
		t.Fatalf("clone size = %d, want %d", clone.Size(), a.Size())
	}
	for i := 0; i < a.Size(); i++ {
		av, _ := a.At(i)
		cv, _ := clone.At(i)
		if av != cv {
			t.Fatalf("clone element %d = %v, want %v", i, cv, av)
		}
	}
}

func TestSpanReleaseIsIdempotent(t *testing.T) {
	calls := 0
	s := RawSpan([]string{"a", "b"}, func() { calls++ })
	s.Release()
	s.Release()
	s.Release()
	if calls != 1 {
		t.Fatalf("release closure invoked %d times, want 1", calls)
	}
}

func TestSpanKindMatchesElementType(t *testing.T) {
	cases := []struct {
		span AnySpan
		want Kind
	}{
		{OwnedSpan([]bool{true}), BoolKind},
		{OwnedSpan([]int8{1}), Int8Kind},
		{OwnedSpan([]int32{1}), Int32Kind},
		{OwnedSpan([]int64{1}), Int64Kind},
		{OwnedSpan([]float32{1}), Float32Kind},
		{OwnedSpan([]float64{1}), Float64Kind},
		{OwnedSpan([]string{"x"}), StringKind},
		{OwnedSpan([]Symbol{"x"}), SymbolKind},
	}
	for _, c := range cases {
		if got := c.span.Kind(); got != c.want {
			t.Errorf("Kind() = %v, want %v", got, c.want)
		}
	}
}

func TestSpanIndexWrapsIntoExpression(t *testing.T) {
	s := OwnedSpan([]int32{7, 8, 9})
	var any AnySpan = s
	e, err := any.index(1)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(e, Int32(8)) {
		t.Fatalf("index(1) = %v, want Int32(8)", e)
	}
}
