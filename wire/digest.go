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
	"github.com/dchest/siphash"
	"golang.org/x/crypto/blake2b"
)

// Digest returns a content digest of a serialized buffer, suitable
// for use as a cache key or for detecting whether two buffers encode
// the same bytes. It is a cryptographic hash (blake2b-256), unlike
// FastFingerprint, and is safe to persist or compare across
// processes compiled with different siphash keys.
func Digest(buf []byte) [32]byte {
	return blake2b.Sum256(buf)
}

// fingerprintK0, fingerprintK1 are the fixed siphash keys for
// FastFingerprint. Like Symbol.Hash's keys, these need not be
// secret.
const (
	fingerprintK0, fingerprintK1 = 0x626f7373776972, 0x65666e6770
)

// FastFingerprint returns a cheap, non-cryptographic fingerprint of
// a serialized buffer, for use as a memoization key where digest
// collisions across hostile input are not a concern. Its keys are
// fixed, so the value is the same in every process.
func FastFingerprint(buf []byte) uint64 {
	return siphash.Hash(fingerprintK0, fingerprintK1, buf)
}
