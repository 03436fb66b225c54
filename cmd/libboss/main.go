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

// Command libboss builds the thin C ABI surface over package expr,
// wire and bootstrap described in spec.md §4.7 and §6.2: opaque
// handle constructors, accessors, BOSSEvaluate, and the
// serialize/deserialize pair. It is intentionally additive glue, not
// a place for new evaluation logic.
package main

/*
#include <stddef.h>
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>

typedef uint64_t BOSSExpressionHandle;
typedef uint64_t BOSSSymbolHandle;
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/jack-pearce/BOSS/bootstrap"
	"github.com/jack-pearce/BOSS/expr"
	"github.com/jack-pearce/BOSS/wire"
)

// handles maps the uint64 values handed across the C boundary to the
// expr.Expression values they stand in for. Go pointers cannot be
// stored long-term on the C side, so every constructor and accessor
// goes through this table instead of returning a raw *Expression.
var (
	handlesMu sync.Mutex
	handles   = make(map[uint64]expr.Expression)
	nextID    uint64 = 1 // 0 is reserved as the null handle
)

func register(e expr.Expression) C.BOSSExpressionHandle {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	id := nextID
	nextID++
	handles[id] = e
	return C.BOSSExpressionHandle(id)
}

func lookup(h C.BOSSExpressionHandle) (expr.Expression, bool) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	e, ok := handles[uint64(h)]
	return e, ok
}

func unregister(h C.BOSSExpressionHandle) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, uint64(h))
}

// defaultEngine is the process-global singleton the C ABI guards, per
// spec.md §5: concurrent calls through the C ABI from multiple
// threads are undefined without an external lock, so every exported
// function here takes engineMu before touching defaultEngine.
var (
	engineMu      sync.Mutex
	defaultEngine = bootstrap.New()
)

//export newBoolExpression
func newBoolExpression(v C.bool) C.BOSSExpressionHandle {
	return register(expr.Bool(bool(v)))
}

//export newI8Expression
func newI8Expression(v C.int8_t) C.BOSSExpressionHandle {
	return register(expr.Int8(int8(v)))
}

//export newI32Expression
func newI32Expression(v C.int32_t) C.BOSSExpressionHandle {
	return register(expr.Int32(int32(v)))
}

//export newI64Expression
func newI64Expression(v C.int64_t) C.BOSSExpressionHandle {
	return register(expr.Int64(int64(v)))
}

//export newF32Expression
func newF32Expression(v C.float) C.BOSSExpressionHandle {
	return register(expr.Float32(float32(v)))
}

//export newF64Expression
func newF64Expression(v C.double) C.BOSSExpressionHandle {
	return register(expr.Float64(float64(v)))
}

//export newStringExpression
func newStringExpression(s *C.char) C.BOSSExpressionHandle {
	return register(expr.String(C.GoString(s)))
}

//export newSymbolExpression
func newSymbolExpression(name *C.char) C.BOSSExpressionHandle {
	return register(expr.NewSymbol(C.GoString(name)))
}

//export newComplexExpression
func newComplexExpression(head *C.char, args *C.BOSSExpressionHandle, argCount C.size_t) C.BOSSExpressionHandle {
	n := int(argCount)
	handleSlice := unsafe.Slice(args, n)
	dynamic := make([]expr.Expression, 0, n)
	for _, h := range handleSlice {
		if e, ok := lookup(h); ok {
			dynamic = append(dynamic, e)
		}
	}
	return register(expr.NewComplexExpression(expr.NewSymbol(C.GoString(head)), dynamic...))
}

//export getBOSSExpressionTypeID
func getBOSSExpressionTypeID(h C.BOSSExpressionHandle) C.uint8_t {
	e, ok := lookup(h)
	if !ok {
		return C.uint8_t(expr.ComplexKind)
	}
	return C.uint8_t(e.Kind())
}

//export getBoolValue
func getBoolValue(h C.BOSSExpressionHandle) C.bool {
	e, _ := lookup(h)
	v, _ := e.(expr.Bool)
	return C.bool(bool(v))
}

//export getI64Value
func getI64Value(h C.BOSSExpressionHandle) C.int64_t {
	e, _ := lookup(h)
	switch v := e.(type) {
	case expr.Int8:
		return C.int64_t(v)
	case expr.Int32:
		return C.int64_t(v)
	case expr.Int64:
		return C.int64_t(v)
	default:
		return 0
	}
}

//export getF64Value
func getF64Value(h C.BOSSExpressionHandle) C.double {
	e, _ := lookup(h)
	switch v := e.(type) {
	case expr.Float32:
		return C.double(v)
	case expr.Float64:
		return C.double(v)
	default:
		return 0
	}
}

// getStringValue returns a strdup-style allocation the caller must
// free via freeBOSSString.
//
//export getStringValue
func getStringValue(h C.BOSSExpressionHandle) *C.char {
	e, _ := lookup(h)
	switch v := e.(type) {
	case expr.String:
		return C.CString(string(v))
	case expr.Symbol:
		return C.CString(v.Name())
	default:
		return nil
	}
}

//export getHead
func getHead(h C.BOSSExpressionHandle) *C.char {
	e, ok := lookup(h)
	ce, isComplex := e.(*expr.ComplexExpression)
	if !ok || !isComplex {
		return nil
	}
	return C.CString(ce.Head().Name())
}

// getArgumentsFromBOSSExpression returns a malloc'd array of argument
// handles plus its length via outCount; the caller frees the array
// with freeBOSSArguments (the individual handles remain owned by the
// parent expression and must not be freed separately).
//
//export getArgumentsFromBOSSExpression
func getArgumentsFromBOSSExpression(h C.BOSSExpressionHandle, outCount *C.size_t) *C.BOSSExpressionHandle {
	e, ok := lookup(h)
	ce, isComplex := e.(*expr.ComplexExpression)
	if !ok || !isComplex {
		*outCount = 0
		return nil
	}
	n := ce.Arguments().Len()
	*outCount = C.size_t(n)
	if n == 0 {
		return nil
	}
	arr := (*C.BOSSExpressionHandle)(C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(C.BOSSExpressionHandle(0)))))
	out := unsafe.Slice(arr, n)
	for i := 0; i < n; i++ {
		v, err := ce.GetArgument(i)
		if err != nil {
			out[i] = 0
			continue
		}
		out[i] = register(v)
	}
	return arr
}

//export freeBOSSString
func freeBOSSString(s *C.char) {
	C.free(unsafe.Pointer(s))
}

//export freeBOSSArguments
func freeBOSSArguments(arr *C.BOSSExpressionHandle) {
	C.free(unsafe.Pointer(arr))
}

//export freeBOSSExpression
func freeBOSSExpression(h C.BOSSExpressionHandle) {
	unregister(h)
}

// serializeBOSSExpression returns a malloc'd buffer holding the
// portable wire encoding of h; the caller frees it with
// freeBOSSString (the buffer is untyped bytes, so the same
// free-by-pointer helper serves both).
//
//export serializeBOSSExpression
func serializeBOSSExpression(h C.BOSSExpressionHandle, outLen *C.size_t) *C.uint8_t {
	e, ok := lookup(h)
	if !ok {
		*outLen = 0
		return nil
	}
	buf, err := wire.Encode(e)
	if err != nil {
		*outLen = 0
		return nil
	}
	*outLen = C.size_t(len(buf))
	out := C.malloc(C.size_t(len(buf)))
	if len(buf) > 0 {
		copy(unsafe.Slice((*byte)(out), len(buf)), buf)
	}
	return (*C.uint8_t)(out)
}

//export deserializeBOSSExpression
func deserializeBOSSExpression(buf *C.uint8_t, length C.size_t) C.BOSSExpressionHandle {
	b := C.GoBytes(unsafe.Pointer(buf), C.int(length))
	e, err := wire.Decode(b)
	if err != nil {
		return 0
	}
	return register(e)
}

// BOSSEvaluate consumes h and returns a new handle holding the
// evaluated result, routing through the process-global
// bootstrap.Engine singleton.
//
//export BOSSEvaluate
func BOSSEvaluate(h C.BOSSExpressionHandle) C.BOSSExpressionHandle {
	e, ok := lookup(h)
	if !ok {
		return 0
	}
	engineMu.Lock()
	result, err := defaultEngine.Evaluate(e)
	engineMu.Unlock()
	if err != nil {
		return 0
	}
	unregister(h)
	return register(result)
}

func main() {}
