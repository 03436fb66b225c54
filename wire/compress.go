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
	"fmt"

	"github.com/jack-pearce/BOSS/compr"
)

// CompressBuffer compresses an already-serialized wire buffer with
// the named algorithm, for callers that want to serialize once and
// try multiple transports (compressed over the network, raw
// in-process).
func CompressBuffer(buf []byte, algo string) ([]byte, error) {
	c := compr.Compression(algo)
	if c == nil {
		return nil, fmt.Errorf("wire: unknown compression algorithm %q", algo)
	}
	out := make([]byte, 8, 8+len(buf))
	putU64(out, uint64(len(buf)))
	return c.Compress(buf, out), nil
}

// DecompressBuffer reverses CompressBuffer.
func DecompressBuffer(compressed []byte, algo string) ([]byte, error) {
	d := compr.Decompression(algo)
	if d == nil {
		return nil, fmt.Errorf("wire: unknown compression algorithm %q", algo)
	}
	if len(compressed) < 8 {
		return nil, errCorrupt("compressed buffer shorter than its length prefix")
	}
	n := getU64(compressed[:8])
	dst := make([]byte, n)
	if err := d.Decompress(compressed[8:], dst); err != nil {
		return nil, err
	}
	return dst, nil
}
