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
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/jack-pearce/BOSS/bootstrap"
	"github.com/jack-pearce/BOSS/wire"
)

// server holds the process-wide state every HTTP handler needs: the
// single coordinator Engine and a logger.
type server struct {
	engine *bootstrap.Engine
	logger *log.Logger
}

// maxEvaluateBody caps a request body so one client cannot exhaust
// process memory with an oversized expression.
const maxEvaluateBody = 64 << 20

// evaluateHandler implements POST /v1/evaluate: the body is a
// wire-format expression, optionally compressed per Content-Encoding
// ("zstd" or "s2"); the response is the evaluated result in the same
// wire format, compressed the same way the request was.
func (s *server) evaluateHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEvaluateBody+1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > maxEvaluateBody {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	encoding := r.Header.Get("Content-Encoding")
	if encoding != "" {
		body, err = wire.DecompressBuffer(body, encoding)
		if err != nil {
			http.Error(w, "malformed Content-Encoding body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	e, err := wire.Decode(body)
	if err != nil {
		http.Error(w, "malformed expression: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.engine.Evaluate(e)
	if err != nil {
		s.logger.Printf("evaluate: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out, err := wire.Encode(result)
	if err != nil {
		s.logger.Printf("encoding result: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if encoding != "" {
		out, err = wire.CompressBuffer(out, encoding)
		if err != nil {
			s.logger.Printf("compressing result: %s", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Encoding", encoding)
	}

	w.Header().Set("Content-Type", "application/vnd.boss.expression")
	w.Write(out)
}

// healthzHandler implements GET /v1/healthz.
func (s *server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type setDefaultRequest struct {
	Path string `json:"path"`
}

// setDefaultHandler implements POST /v1/engines/default, equivalent
// to evaluating SetDefaultEngine(path).
func (s *server) setDefaultHandler(w http.ResponseWriter, r *http.Request) {
	var req setDefaultRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		http.Error(w, "malformed request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "missing \"path\"", http.StatusBadRequest)
		return
	}
	s.engine.SetDefault(req.Path)
	w.WriteHeader(http.StatusOK)
}
