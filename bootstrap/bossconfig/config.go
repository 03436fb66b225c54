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

// Package bossconfig loads the engine registry a bossd/bossctl
// process pre-populates its Engine from at startup: a YAML file
// naming every known engine library path plus an optional default
// engine, and an optional memcached pool for result memoization.
// Loading this file only seeds initial state; it introduces no new
// evaluation semantics beyond what SetDefaultEngine already defines.
package bossconfig

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Config is the top-level shape of a boss.yaml registry file.
type Config struct {
	DefaultEngine string         `json:"defaultEngine,omitempty"`
	Engines       []EngineEntry  `json:"engines"`
	Memcache      memcacheConfig `json:"memcache,omitempty"`
}

// EngineEntry describes one loadable engine library.
type EngineEntry struct {
	Path string `json:"path"`
}

type memcacheConfig struct {
	Addrs []string `json:"addrs,omitempty"`
}

// Load reads and validates a registry file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bossconfig: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("bossconfig: parsing %s: %w", path, err)
	}
	for i, e := range cfg.Engines {
		if e.Path == "" {
			return nil, fmt.Errorf("bossconfig: engines[%d] has no path", i)
		}
	}
	if cfg.DefaultEngine != "" && !cfg.hasPath(cfg.DefaultEngine) {
		return nil, fmt.Errorf("bossconfig: defaultEngine %q is not listed in engines", cfg.DefaultEngine)
	}
	return &cfg, nil
}

func (c *Config) hasPath(path string) bool {
	for _, e := range c.Engines {
		if e.Path == path {
			return true
		}
	}
	return false
}
