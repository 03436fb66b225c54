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

package bossconfig

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
defaultEngine: /usr/local/lib/boss/arith.so
engines:
  - path: /usr/local/lib/boss/arith.so
  - path: /usr/local/lib/boss/relational.so
memcache:
  addrs: ["127.0.0.1:11211"]
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "boss.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadParsesEngineRegistry(t *testing.T) {
	p := writeSample(t, sample)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultEngine != "/usr/local/lib/boss/arith.so" {
		t.Fatalf("DefaultEngine = %q", cfg.DefaultEngine)
	}
	if len(cfg.Engines) != 2 {
		t.Fatalf("len(Engines) = %d, want 2", len(cfg.Engines))
	}
	if cfg.Engines[1].Path != "/usr/local/lib/boss/relational.so" {
		t.Fatalf("Engines[1].Path = %q", cfg.Engines[1].Path)
	}
	if len(cfg.Memcache.Addrs) != 1 || cfg.Memcache.Addrs[0] != "127.0.0.1:11211" {
		t.Fatalf("Memcache.Addrs = %v", cfg.Memcache.Addrs)
	}
}

func TestLoadRejectsUnknownDefault(t *testing.T) {
	p := writeSample(t, "engines:\n  - path: /lib/a.so\ndefaultEngine: /lib/missing.so\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected an error for an unknown default engine")
	}
}

func TestLoadRejectsMissingPath(t *testing.T) {
	p := writeSample(t, "engines:\n  - path: \"\"\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}
