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

package engine

import "testing"

func withFakeOpen(t *testing.T, opens, closes, resets *int) {
	t.Helper()
	orig := openLibraryFunc
	openLibraryFunc = func(path string) (handle, error) {
		*opens++
		return handle{
			eval: Evaluator{
				Evaluate: func(in []byte) ([]byte, error) { return in, nil },
				Reset:    func() { *resets++ },
			},
			close: func() error { *closes++; return nil },
		}, nil
	}
	t.Cleanup(func() { openLibraryFunc = orig })
}

func TestCacheOpensOncePerPath(t *testing.T) {
	var opens, closes, resets int
	withFakeOpen(t, &opens, &closes, &resets)

	c := NewCache()
	if _, err := c.Open("/lib/a"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Open("/lib/a"); err != nil {
		t.Fatal(err)
	}
	if opens != 1 {
		t.Fatalf("opens = %d, want 1", opens)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheCloseInvokesResetThenClose(t *testing.T) {
	var opens, closes, resets int
	withFakeOpen(t, &opens, &closes, &resets)

	c := NewCache()
	if _, err := c.Open("/lib/a"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Open("/lib/b"); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if resets != 2 {
		t.Fatalf("resets = %d, want 2", resets)
	}
	if closes != 2 {
		t.Fatalf("closes = %d, want 2", closes)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() after Close = %d, want 0", c.Len())
	}
}

func TestCacheEvaluateRoundTrip(t *testing.T) {
	var opens, closes, resets int
	withFakeOpen(t, &opens, &closes, &resets)

	c := NewCache()
	ev, err := c.Open("/lib/a")
	if err != nil {
		t.Fatal(err)
	}
	out, err := ev.Evaluate([]byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "payload" {
		t.Fatalf("Evaluate returned %q, want %q", out, "payload")
	}
}
