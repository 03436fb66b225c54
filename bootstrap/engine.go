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
	"log"
	"os"

	"github.com/jack-pearce/BOSS/engine"
	"github.com/jack-pearce/BOSS/expr"
	"github.com/jack-pearce/BOSS/wire"
)

const (
	opEvaluateInEngine  = "EvaluateInEngine"
	opEvaluateInEngines = "EvaluateInEngines"
	opSetDefaultEngine  = "SetDefaultEngine"
)

func isMetaOperator(name string) bool {
	switch name {
	case opEvaluateInEngine, opEvaluateInEngines, opSetDefaultEngine:
		return true
	default:
		return false
	}
}

// libraryCache is the subset of *engine.Cache that Engine depends
// on; tests substitute a fake implementation so the dispatch
// algorithm can be exercised without a real shared library on disk.
type libraryCache interface {
	Open(path string) (engine.Evaluator, error)
	Close() error
}

// Engine is the top-level evaluator: it holds a libraryCache, an
// optional default engine path, and an optional memoization layer,
// and applies the closed dispatch algorithm for the three
// meta-operators. Engine is single-threaded; concurrent use from
// multiple goroutines requires an external mutex.
type Engine struct {
	cache      libraryCache
	defaultLib string
	memo       memoCache
	log        *log.Logger
}

// New returns an Engine with an empty library cache, no default
// engine, and memoization disabled.
func New() *Engine {
	return &Engine{
		cache: engine.NewCache(),
		memo:  noMemo{},
		log:   log.New(os.Stderr, "bossd: ", log.LstdFlags),
	}
}

// WithCache overrides the Engine's library cache.
func (e *Engine) WithCache(c libraryCache) *Engine {
	e.cache = c
	return e
}

// WithMemo enables memoization of engine evaluation results keyed
// by (engine path, fingerprint of the serialized argument).
func (e *Engine) WithMemo(m memoCache) *Engine {
	e.memo = m
	return e
}

// WithLogger overrides the Engine's logger; by default it logs to
// stderr in the teacher's usual log.Logger style.
func (e *Engine) WithLogger(l *log.Logger) *Engine {
	e.log = l
	return e
}

// Close closes every engine library the Engine has opened.
func (e *Engine) Close() error { return e.cache.Close() }

// SetDefault sets the default engine path directly, the way a
// coordinator process wires a registry file's default entry at
// startup without building a SetDefaultEngine expression for it.
func (e *Engine) SetDefault(path string) { e.defaultLib = path }

// Evaluate runs the dispatch algorithm on e as a root-level
// expression: if a default engine is set and e is not itself a
// recognized meta-operator, e is first wrapped as
// EvaluateInEngine(defaultPath, e).
func (en *Engine) Evaluate(e expr.Expression) (expr.Expression, error) {
	return en.evaluate(e, true)
}

func (en *Engine) evaluate(e expr.Expression, isRoot bool) (expr.Expression, error) {
	ce, isComplex := e.(*expr.ComplexExpression)
	if isRoot && en.defaultLib != "" && !(isComplex && isMetaOperator(ce.Head().Name())) {
		wrapped := expr.NewComplexExpression(expr.NewSymbol(opEvaluateInEngine), expr.String(en.defaultLib), e)
		return en.evaluate(wrapped, false)
	}
	if !isComplex {
		return e, nil
	}
	switch ce.Head().Name() {
	case opEvaluateInEngine:
		return en.evaluateInEngine(ce)
	case opEvaluateInEngines:
		return en.evaluateInEngines(ce)
	case opSetDefaultEngine:
		return en.setDefaultEngine(ce)
	default:
		return ce, nil
	}
}

func (en *Engine) evaluateInEngine(ce *expr.ComplexExpression) (expr.Expression, error) {
	args := ce.Arguments()
	if args.Len() < 2 {
		return nil, argumentTypeMismatch(expr.StringKind, ce)
	}
	pathRef, err := args.At(0)
	if err != nil {
		return nil, err
	}
	pathVal, err := pathRef.Value()
	if err != nil {
		return nil, err
	}
	pathVal, err = en.evaluate(pathVal, false)
	if err != nil {
		return nil, err
	}
	path, ok := pathVal.(expr.String)
	if !ok {
		return nil, argumentTypeMismatch(expr.StringKind, pathVal)
	}

	reduced := make([]expr.Expression, 0, args.Len()-1)
	for i := 1; i < args.Len(); i++ {
		ref, err := args.At(i)
		if err != nil {
			return nil, err
		}
		argVal, err := ref.Value()
		if err != nil {
			return nil, err
		}
		r, err := en.evaluate(argVal, false)
		if err != nil {
			return nil, err
		}
		reduced = append(reduced, r)
	}

	var result expr.Expression
	for _, r := range reduced {
		result, err = en.invoke(string(path), r)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (en *Engine) evaluateInEngines(ce *expr.ComplexExpression) (expr.Expression, error) {
	args := ce.Arguments()
	if args.Len() != 2 {
		return nil, argumentTypeMismatch(expr.ComplexKind, ce)
	}
	listRef, err := args.At(0)
	if err != nil {
		return nil, err
	}
	listVal, err := listRef.Value()
	if err != nil {
		return nil, err
	}
	listVal, err = en.evaluate(listVal, false)
	if err != nil {
		return nil, err
	}
	list, ok := listVal.(*expr.ComplexExpression)
	if !ok {
		return nil, argumentTypeMismatch(expr.ComplexKind, listVal)
	}

	argRef, err := args.At(1)
	if err != nil {
		return nil, err
	}
	argVal, err := argRef.Value()
	if err != nil {
		return nil, err
	}
	current, err := en.evaluate(argVal, false)
	if err != nil {
		return nil, err
	}

	pathArgs := list.Arguments()
	for i := 0; i < pathArgs.Len(); i++ {
		ref, err := pathArgs.At(i)
		if err != nil {
			return nil, err
		}
		v, err := ref.Value()
		if err != nil {
			return nil, err
		}
		path, ok := v.(expr.String)
		if !ok {
			return nil, argumentTypeMismatch(expr.StringKind, v)
		}
		current, err = en.invoke(string(path), current)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

func (en *Engine) setDefaultEngine(ce *expr.ComplexExpression) (expr.Expression, error) {
	args := ce.Arguments()
	if args.Len() != 1 {
		return nil, argumentTypeMismatch(expr.StringKind, ce)
	}
	ref, err := args.At(0)
	if err != nil {
		return nil, err
	}
	v, err := ref.Value()
	if err != nil {
		return nil, err
	}
	v, err = en.evaluate(v, false)
	if err != nil {
		return nil, err
	}
	path, ok := v.(expr.String)
	if !ok {
		return nil, argumentTypeMismatch(expr.StringKind, v)
	}
	en.defaultLib = string(path)
	return expr.NewSymbol("okay"), nil
}

// containsErrorExpression reports whether e or any of its descendants
// is headed by ErrorWhenEvaluatingExpression, in which case the whole
// subtree is excluded from memoization: a memoized error would wrongly
// survive past whatever condition produced it (the library coming back
// online, a retry with a different default engine, and so on).
func containsErrorExpression(e expr.Expression) bool {
	ce, ok := e.(*expr.ComplexExpression)
	if !ok {
		return false
	}
	if ce.Head().Name() == "ErrorWhenEvaluatingExpression" {
		return true
	}
	args := ce.Arguments()
	for i := 0; i < args.Len(); i++ {
		ref, err := args.At(i)
		if err != nil {
			continue
		}
		v, err := ref.Value()
		if err != nil {
			continue
		}
		if containsErrorExpression(v) {
			return true
		}
	}
	return false
}

// invoke is the single choke point through which every argument
// actually reaches an engine library: serialize, check the memo
// cache, call evaluate on a miss, deserialize, and on an engine
// error produce ErrorWhenEvaluatingExpression instead of
// propagating. Memoization is bypassed entirely for any argument
// subtree already carrying an ErrorWhenEvaluatingExpression.
func (en *Engine) invoke(path string, arg expr.Expression) (expr.Expression, error) {
	ev, err := en.cache.Open(path)
	if err != nil {
		en.log.Printf("loading engine %s: %s", path, err)
		return nil, err
	}

	serialized, err := wire.Encode(arg)
	if err != nil {
		return nil, err
	}

	bypassMemo := containsErrorExpression(arg)

	var key string
	if !bypassMemo {
		key = memoKey(path, serialized)
		if cached, ok := en.memo.get(key); ok {
			result, err := wire.Decode(cached)
			if err == nil {
				return result, nil
			}
			en.log.Printf("discarding corrupt memo entry for %s: %s", path, err)
		}
	}

	out, evalErr := ev.Evaluate(serialized)
	if evalErr != nil {
		en.log.Printf("engine %s: %s", path, evalErr)
		return errorWhenEvaluatingExpression(arg, evalErr.Error()), nil
	}

	result, err := wire.Decode(out)
	if err != nil {
		return nil, &SerializationCorruptError{Err: err}
	}
	if !bypassMemo {
		en.memo.set(key, out)
	}
	return result, nil
}
