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

// Package compr implements the compression codecs that
// wire.CompressBuffer and wire.DecompressBuffer pick by name when a
// serialized expression is about to cross a process boundary (a
// request or response body of bossd's /v1/evaluate route carrying a
// Content-Encoding). It exists as its own package,
// separate from wire, so the codec set can grow without touching the
// wire format itself.
package compr

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Compressor is the interface a codec implements to compress an
// encoded expression buffer.
type Compressor interface {
	// Name is the algorithm name, matching the string Compression
	// was called with.
	Name() string
	// Compress appends the compressed contents of src to dst and
	// returns the result.
	Compress(src, dst []byte) []byte
}

// Decompressor is the interface a codec implements to reverse
// Compressor.Compress.
type Decompressor interface {
	// Name is the algorithm name, matching the string Decompression
	// was called with.
	Name() string
	// Decompress decompresses src into dst. dst must already be
	// sized to the expected decompressed length; Decompress reports
	// a SizeMismatchError if the codec produced a different amount
	// of data than dst can hold.
	//
	// It must be safe to call Decompress concurrently from multiple
	// goroutines against the same Decompressor value.
	Decompress(src, dst []byte) error
}

// SizeMismatchError is returned when a codec decompresses to a
// length other than what the caller expected.
type SizeMismatchError struct {
	Algo string
	Want int
	Got  int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("compr: %s: expected %d decompressed bytes, got %d", e.Algo, e.Want, e.Got)
}

// BufferReallocatedError is returned when a codec could not
// decompress into the caller-supplied buffer in place and had to
// allocate a new one, which would silently break a caller relying on
// dst being filled directly.
type BufferReallocatedError struct {
	Algo string
}

func (e *BufferReallocatedError) Error() string {
	return fmt.Sprintf("compr: %s: decompressed output buffer was reallocated", e.Algo)
}

type zstdCompressor struct {
	enc *zstd.Encoder
}

func (z zstdCompressor) Compress(src, dst []byte) []byte {
	return z.enc.EncodeAll(src, dst)
}

func (z zstdCompressor) Name() string { return "zstd" }

var (
	zstdDecoder     *zstd.Decoder
	zstdFastDecoder *zstd.Decoder
)

func init() {
	// the zstd package defaults decoder concurrency to
	// min(4, GOMAXPROCS); BOSS engines may run on large machines, so
	// use the full GOMAXPROCS instead.
	z, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		panic(err)
	}
	zstdDecoder = z
	z, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)),
		zstd.IgnoreChecksum(true))
	if err != nil {
		panic(err)
	}
	zstdFastDecoder = z
}

// DecodeZstd runs DecodeAll on the shared zstd decoder, for callers
// that already know their payload is zstd-compressed and don't need
// to go through Decompression by name.
func DecodeZstd(src, dst []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(src, dst)
}

type zstdDecompressor zstd.Decoder

func (z *zstdDecompressor) Name() string { return "zstd" }

func (z *zstdDecompressor) Decompress(src, dst []byte) error {
	into := dst[:0:len(dst)]
	ret, err := (*zstd.Decoder)(z).DecodeAll(src, into)
	if err != nil {
		return err
	}
	if len(ret) != len(dst) {
		return &SizeMismatchError{Algo: "zstd", Want: len(dst), Got: len(ret)}
	}
	if &ret[0] != &dst[0] {
		return &BufferReallocatedError{Algo: "zstd"}
	}
	return nil
}

type s2Compressor struct{}

func (s2Compressor) Compress(src, dst []byte) []byte {
	tail := dst[len(dst):cap(dst)]
	// s2 requires non-overlapping src and dst
	if overlaps(src, tail) {
		tail = nil
	}
	got := s2.Encode(tail, src)
	if len(dst) == 0 {
		return got
	}
	if len(tail) > 0 && len(got) > 0 && &tail[0] == &got[0] {
		return dst[:len(dst)+len(got)]
	}
	return append(dst, got...)
}

func (s2Compressor) Decompress(src, dst []byte) error {
	into := dst[:0:len(dst)]
	ret, err := s2.Decode(into, src)
	if err != nil {
		return err
	}
	if len(ret) != len(dst) {
		return &SizeMismatchError{Algo: "s2", Want: len(dst), Got: len(ret)}
	}
	if &ret[0] != &dst[0] {
		return &BufferReallocatedError{Algo: "s2"}
	}
	return nil
}

func (s2Compressor) Name() string { return "s2" }

// Compression selects a compression codec by name: "zstd",
// "zstd-better" (slower, higher ratio), or "s2" (fastest). It
// returns nil for an unrecognized name, matching Decompression's
// treatment of an unknown algorithm.
func Compression(name string) Compressor {
	switch name {
	case "zstd-better":
		z, _ := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderConcurrency(1))
		return zstdCompressor{z}
	case "zstd":
		z, _ := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		return zstdCompressor{z}
	case "s2":
		return s2Compressor{}
	default:
		return nil
	}
}

// Decompression selects the codec that reverses a buffer compressed
// with the named algorithm. "zstd-nocrc" reverses "zstd" without
// verifying its checksum, trading safety for speed on a trusted
// in-process memoization round-trip.
func Decompression(name string) Decompressor {
	switch name {
	case "zstd":
		return (*zstdDecompressor)(zstdDecoder)
	case "zstd-nocrc":
		return (*zstdDecompressor)(zstdFastDecoder)
	case "s2":
		return s2Compressor{}
	default:
		return nil
	}
}

func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	a0 := uintptr(unsafe.Pointer(&a[0]))
	a1 := a0 + uintptr(len(a))
	b0 := uintptr(unsafe.Pointer(&b[0]))
	b1 := b0 + uintptr(len(b))
	return a0 < b1 && b0 < a1
}
