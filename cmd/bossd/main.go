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

package main

import (
	"flag"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/jack-pearce/BOSS/bootstrap"
	"github.com/jack-pearce/BOSS/bootstrap/bossconfig"
)

func main() {
	configFile := flag.String("config", "boss.yaml", "engine registry file")
	endpoint := flag.String("endpoint", "127.0.0.1:8900", "address to listen on")
	flag.Parse()

	logger := log.New(os.Stderr, "bossd: ", log.LstdFlags)

	cfg, err := bossconfig.Load(*configFile)
	if err != nil {
		logger.Fatal(err)
	}

	eng := bootstrap.New().WithLogger(logger)
	if len(cfg.Memcache.Addrs) > 0 {
		eng = eng.WithMemo(bootstrap.NewMemcacheMemo(cfg.Memcache.Addrs...))
	}
	if cfg.DefaultEngine != "" {
		eng.SetDefault(cfg.DefaultEngine)
	}
	defer eng.Close()

	s := &server{engine: eng, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/v1/evaluate", s.evaluateHandler).Methods(http.MethodPost)
	r.HandleFunc("/v1/healthz", s.healthzHandler).Methods(http.MethodGet)
	r.HandleFunc("/v1/engines/default", s.setDefaultHandler).Methods(http.MethodPost)

	l, err := net.Listen("tcp", *endpoint)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Printf("bossd listening on %v", l.Addr())
	logger.Fatal(http.Serve(l, r))
}
