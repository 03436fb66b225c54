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

//go:build !windows

package engine

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

// evaluateFn and resetFn mirror the C ABI entry points an engine
// library exports:
//
//   unsigned char *evaluate(const unsigned char *in, size_t inLen,
//                            size_t *outLen);
//   void reset(void);
//
// evaluate is expected to return a buffer the caller owns (callers
// are responsible for freeing it with the engine's own free, which
// this package does not currently call back into; engines are
// expected to use libc malloc so cgo's free suffices in practice).
typedef unsigned char *(*evaluateFn)(const unsigned char *, size_t, size_t *);
typedef void (*resetFn)(void);

static unsigned char *callEvaluate(evaluateFn fn, const unsigned char *in, size_t inLen, size_t *outLen) {
	return fn(in, inLen, outLen);
}

static void callReset(resetFn fn) {
	fn();
}
*/
import "C"

import (
	"unsafe"
)

func openLibrary(path string) (handle, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	lib := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_NODELETE)
	if lib == nil {
		return handle{}, &LibraryOpenFailedError{Path: path, Err: errDlError()}
	}

	evalSym := C.CString("evaluate")
	defer C.free(unsafe.Pointer(evalSym))
	evalPtr := C.dlsym(lib, evalSym)
	if evalPtr == nil {
		C.dlclose(lib)
		return handle{}, &MissingEntryPointError{Path: path, Symbol: "evaluate"}
	}

	resetSym := C.CString("reset")
	defer C.free(unsafe.Pointer(resetSym))
	resetPtr := C.dlsym(lib, resetSym)

	evalFn := C.evaluateFn(evalPtr)
	var reset func()
	if resetPtr != nil {
		resetFn := C.resetFn(resetPtr)
		reset = func() { C.callReset(resetFn) }
	}

	evaluate := func(in []byte) ([]byte, error) {
		var inPtr *C.uchar
		if len(in) > 0 {
			inPtr = (*C.uchar)(unsafe.Pointer(&in[0]))
		}
		var outLen C.size_t
		outPtr := C.callEvaluate(evalFn, inPtr, C.size_t(len(in)), &outLen)
		if outPtr == nil {
			return nil, nil
		}
		defer C.free(unsafe.Pointer(outPtr))
		out := C.GoBytes(unsafe.Pointer(outPtr), C.int(outLen))
		return out, nil
	}

	return handle{
		eval:  Evaluator{Evaluate: evaluate, Reset: reset},
		close: func() error { C.dlclose(lib); return nil },
	}, nil
}

func errDlError() error {
	msg := C.dlerror()
	if msg == nil {
		return errUnknownDlError
	}
	return &dlError{msg: C.GoString(msg)}
}

type dlError struct{ msg string }

func (e *dlError) Error() string { return e.msg }

var errUnknownDlError = &dlError{msg: "unknown dlopen error"}
