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

// Package bootstrap implements the top-level expression evaluator:
// it recognizes a closed set of meta-operators (EvaluateInEngine,
// EvaluateInEngines, SetDefaultEngine), dispatches everything else
// either to a default engine or back to the caller unchanged, and
// owns the engine.Cache that backs those dispatches.
//
// An Engine is single-threaded by design, mirroring the source
// system's own single-thread assumption: callers that need
// concurrent access must serialize it themselves, typically with an
// outer mutex.
package bootstrap
