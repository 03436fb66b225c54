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

// Command bossctl evaluates a single portable-wire-format expression
// against a BootstrapEngine, optionally pre-populated from an engine
// registry file, and writes the evaluated result back out in the
// same format.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jack-pearce/BOSS/bootstrap"
	"github.com/jack-pearce/BOSS/bootstrap/bossconfig"
	"github.com/jack-pearce/BOSS/wire"
)

var (
	dashi      string
	dasho      string
	dashconfig string
	dashengine string
	dashdump   bool
)

func init() {
	flag.StringVar(&dashi, "i", "", "input file holding a wire-format expression (default stdin)")
	flag.StringVar(&dasho, "o", "", "output file for the evaluated result (default stdout)")
	flag.StringVar(&dashconfig, "config", "", "engine registry file (optional)")
	flag.StringVar(&dashengine, "engine", "", "default engine path (overrides the registry file's default, if any)")
	flag.BoolVar(&dashdump, "dump", false, "print the decoded expression tree instead of evaluating it")
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	flag.Parse()

	src := os.Stdin
	if dashi != "" {
		f, err := os.Open(dashi)
		if err != nil {
			exit(err)
		}
		defer f.Close()
		src = f
	}
	buf, err := io.ReadAll(src)
	if err != nil {
		exit(err)
	}

	e, err := wire.Decode(buf)
	if err != nil {
		exit(err)
	}

	if dashdump {
		fmt.Println(e.String())
		return
	}

	eng := bootstrap.New()
	defer eng.Close()

	if dashconfig != "" {
		cfg, err := bossconfig.Load(dashconfig)
		if err != nil {
			exit(err)
		}
		if cfg.DefaultEngine != "" {
			eng.SetDefault(cfg.DefaultEngine)
		}
	}
	if dashengine != "" {
		eng.SetDefault(dashengine)
	}

	result, err := eng.Evaluate(e)
	if err != nil {
		exit(err)
	}

	out, err := wire.Encode(result)
	if err != nil {
		exit(err)
	}

	dst := os.Stdout
	if dasho != "" {
		f, err := os.Create(dasho)
		if err != nil {
			exit(err)
		}
		defer f.Close()
		dst = f
	}
	if _, err := dst.Write(out); err != nil {
		exit(err)
	}
}
