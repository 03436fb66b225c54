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

import (
	"bytes"
	"testing"

	"github.com/jack-pearce/BOSS/expr"
)

func TestCompressBufferRoundTrip(t *testing.T) {
	ce := expr.NewComplexExpression(sym("Plus"), expr.Int32(1), expr.Int32(2))
	buf, err := Encode(ce)
	if err != nil {
		t.Fatal(err)
	}
	for _, algo := range []string{"zstd", "s2"} {
		compressed, err := CompressBuffer(buf, algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		back, err := DecompressBuffer(compressed, algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if !bytes.Equal(back, buf) {
			t.Fatalf("%s: round-trip mismatch", algo)
		}
	}
}

func TestCompressBufferUnknownAlgorithm(t *testing.T) {
	if _, err := CompressBuffer([]byte("x"), "bogus"); err == nil {
		t.Fatal("expected an error for an unknown algorithm")
	}
}
