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

package bootstrap

import (
	"strconv"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/jack-pearce/BOSS/wire"
)

// memoKey derives the cache key for a (engine path, serialized
// argument) pair from wire.FastFingerprint, so that repeated calls
// to the same engine with structurally identical arguments can skip
// re-invoking evaluate.
func memoKey(enginePath string, serialized []byte) string {
	fp := wire.FastFingerprint(serialized)
	return "boss:" + enginePath + ":" + strconv.FormatUint(fp, 36)
}

// memoCache is the interface an Engine uses to memoize engine
// evaluations; it is satisfied by both *memcacheMemo (backed by a
// memcached pool) and noMemo, which disables memoization without
// branching in Engine itself.
type memoCache interface {
	get(key string) ([]byte, bool)
	set(key string, value []byte)
}

// noMemo is the zero-configuration case: every lookup misses, every
// store is a no-op.
type noMemo struct{}

func (noMemo) get(string) ([]byte, bool) { return nil, false }
func (noMemo) set(string, []byte)        {}

// memcacheMemo backs engine-result memoization with a memcached
// pool, for coordinators that want evaluation results shared across
// process restarts or across a fleet of bossd instances.
type memcacheMemo struct {
	client *memcache.Client
}

// NewMemcacheMemo returns a memoCache backed by the memcached
// servers at addrs.
func NewMemcacheMemo(addrs ...string) memoCache {
	return &memcacheMemo{client: memcache.New(addrs...)}
}

func (m *memcacheMemo) get(key string) ([]byte, bool) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, false
	}
	return item.Value, true
}

func (m *memcacheMemo) set(key string, value []byte) {
	_ = m.client.Set(&memcache.Item{Key: key, Value: value})
}
