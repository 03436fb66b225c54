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
	"testing"

	"github.com/jack-pearce/BOSS/engine"
	"github.com/jack-pearce/BOSS/expr"
	"github.com/jack-pearce/BOSS/wire"
)

// fakeCache implements libraryCache over a fixed map of path ->
// expression-level evaluator, so the dispatch algorithm can be
// exercised without a real shared library on disk.
type fakeCache struct {
	byPath map[string]func(expr.Expression) (expr.Expression, error)
}

func (c *fakeCache) Open(path string) (engine.Evaluator, error) {
	fn, ok := c.byPath[path]
	if !ok {
		return engine.Evaluator{}, &engine.LibraryOpenFailedError{Path: path, Err: errBoom}
	}
	return engine.Evaluator{
		Evaluate: func(in []byte) ([]byte, error) {
			arg, err := wire.Decode(in)
			if err != nil {
				return nil, err
			}
			out, err := fn(arg)
			if err != nil {
				return nil, err
			}
			return wire.Encode(out)
		},
	}, nil
}

func (c *fakeCache) Close() error { return nil }

func newFakeEngine(entries map[string]func(expr.Expression) (expr.Expression, error)) *Engine {
	return New().WithCache(&fakeCache{byPath: entries})
}

func plusHandler(arg expr.Expression) (expr.Expression, error) {
	ce, ok := arg.(*expr.ComplexExpression)
	if !ok || ce.Head().Name() != "Plus" {
		return arg, nil
	}
	a, err := ce.GetArgument(0)
	if err != nil {
		return nil, err
	}
	b, err := ce.GetArgument(1)
	if err != nil {
		return nil, err
	}
	return expr.Int64(int64(a.(expr.Int64)) + int64(b.(expr.Int64))), nil
}

func TestEvaluateInEngineBasicArithmetic(t *testing.T) {
	e := newFakeEngine(map[string]func(expr.Expression) (expr.Expression, error){
		"/engines/arith.so": plusHandler,
	})

	call := expr.NewComplexExpression(expr.NewSymbol(opEvaluateInEngine),
		expr.String("/engines/arith.so"),
		expr.NewComplexExpression(expr.NewSymbol("Plus"), expr.Int64(2), expr.Int64(3)))

	got, err := e.Evaluate(call)
	if err != nil {
		t.Fatal(err)
	}
	want := expr.Int64(5)
	if !got.Equals(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestEvaluateInEngineWrapsEngineErrorAsExpression(t *testing.T) {
	e := newFakeEngine(map[string]func(expr.Expression) (expr.Expression, error){
		"/engines/fails.so": func(expr.Expression) (expr.Expression, error) { return nil, errBoom },
	})

	call := expr.NewComplexExpression(expr.NewSymbol(opEvaluateInEngine),
		expr.String("/engines/fails.so"), expr.Int64(1))

	got, err := e.Evaluate(call)
	if err != nil {
		t.Fatalf("unexpected error path: %v", err)
	}
	ce, ok := got.(*expr.ComplexExpression)
	if !ok || ce.Head().Name() != "ErrorWhenEvaluatingExpression" {
		t.Fatalf("got %s, want ErrorWhenEvaluatingExpression(...)", got)
	}
}

func TestSetDefaultEngineThenEvaluate(t *testing.T) {
	e := newFakeEngine(map[string]func(expr.Expression) (expr.Expression, error){
		"/engines/default.so": func(arg expr.Expression) (expr.Expression, error) { return arg, nil },
	})

	setCall := expr.NewComplexExpression(expr.NewSymbol(opSetDefaultEngine), expr.String("/engines/default.so"))
	ack, err := e.Evaluate(setCall)
	if err != nil {
		t.Fatal(err)
	}
	if !ack.Equals(expr.NewSymbol("okay")) {
		t.Fatalf("got %s, want okay", ack)
	}

	got, err := e.Evaluate(expr.Int64(42))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equals(expr.Int64(42)) {
		t.Fatalf("got %s, want 42", got)
	}
}

func TestEvaluateInEnginesPipeline(t *testing.T) {
	e := newFakeEngine(map[string]func(expr.Expression) (expr.Expression, error){
		"/engines/inc.so": func(arg expr.Expression) (expr.Expression, error) {
			v, ok := arg.(expr.Int64)
			if !ok {
				return arg, nil
			}
			return v + 1, nil
		},
	})

	list := expr.NewComplexExpression(expr.NewSymbol("List"),
		expr.String("/engines/inc.so"), expr.String("/engines/inc.so"), expr.String("/engines/inc.so"))
	call := expr.NewComplexExpression(expr.NewSymbol(opEvaluateInEngines), list, expr.Int64(0))

	got, err := e.Evaluate(call)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equals(expr.Int64(3)) {
		t.Fatalf("got %s, want 3", got)
	}
}

// countingMemo is an in-memory memoCache that records how many times
// set is called, so tests can assert an entry was or wasn't written.
type countingMemo struct {
	store map[string][]byte
	sets  int
}

func newCountingMemo() *countingMemo {
	return &countingMemo{store: make(map[string][]byte)}
}

func (m *countingMemo) get(key string) ([]byte, bool) {
	v, ok := m.store[key]
	return v, ok
}

func (m *countingMemo) set(key string, value []byte) {
	m.sets++
	m.store[key] = value
}

func TestMemoizationBypassedForErrorExpressions(t *testing.T) {
	calls := 0
	memo := newCountingMemo()
	e := newFakeEngine(map[string]func(expr.Expression) (expr.Expression, error){
		"/engines/arith.so": func(arg expr.Expression) (expr.Expression, error) {
			calls++
			return plusHandler(arg)
		},
	})
	e.WithMemo(memo)

	errArg := expr.NewComplexExpression(expr.NewSymbol("ErrorWhenEvaluatingExpression"),
		expr.Int64(1), expr.String("boom"))
	call := expr.NewComplexExpression(expr.NewSymbol(opEvaluateInEngine),
		expr.String("/engines/arith.so"), errArg)

	if _, err := e.Evaluate(call); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Evaluate(call); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (memoization should be bypassed)", calls)
	}
	if memo.sets != 0 {
		t.Fatalf("memo.sets = %d, want 0", memo.sets)
	}
}

func TestMemoizationAppliesForOrdinaryExpressions(t *testing.T) {
	calls := 0
	memo := newCountingMemo()
	e := newFakeEngine(map[string]func(expr.Expression) (expr.Expression, error){
		"/engines/arith.so": func(arg expr.Expression) (expr.Expression, error) {
			calls++
			return plusHandler(arg)
		},
	})
	e.WithMemo(memo)

	call := expr.NewComplexExpression(expr.NewSymbol(opEvaluateInEngine),
		expr.String("/engines/arith.so"),
		expr.NewComplexExpression(expr.NewSymbol("Plus"), expr.Int64(2), expr.Int64(3)))

	if _, err := e.Evaluate(call); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Evaluate(call); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (second call should hit the memo)", calls)
	}
	if memo.sets != 1 {
		t.Fatalf("memo.sets = %d, want 1", memo.sets)
	}
}

type boomError struct{}

func (boomError) Error() string { return "engine boom" }

var errBoom = boomError{}
