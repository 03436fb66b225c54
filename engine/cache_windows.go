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

//go:build windows

package engine

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// openLibrary loads path with LoadLibrary and resolves its
// "evaluate"/"reset" exports with GetProcAddress. Per the design
// notes, a "reset"-equivalent symbol is looked up and, if present,
// called before the library handle is released.
func openLibrary(path string) (handle, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return handle{}, &LibraryOpenFailedError{Path: path, Err: err}
	}

	evalAddr, err := windows.GetProcAddress(h, "evaluate")
	if err != nil {
		windows.FreeLibrary(h)
		return handle{}, &MissingEntryPointError{Path: path, Symbol: "evaluate"}
	}
	resetAddr, _ := windows.GetProcAddress(h, "reset")

	var reset func()
	if resetAddr != 0 {
		resetAddr := resetAddr
		reset = func() {
			syscall3(resetAddr, 0, 0, 0)
		}
	}

	evaluate := func(in []byte) ([]byte, error) {
		var inPtr uintptr
		if len(in) > 0 {
			inPtr = uintptr(unsafe.Pointer(&in[0]))
		}
		var outLen uintptr
		outPtr := syscall3(evalAddr, inPtr, uintptr(len(in)), uintptr(unsafe.Pointer(&outLen)))
		if outPtr == 0 {
			return nil, nil
		}
		out := unsafe.Slice((*byte)(unsafe.Pointer(outPtr)), int(outLen))
		cp := make([]byte, len(out))
		copy(cp, out)
		return cp, nil
	}

	return handle{
		eval:  Evaluator{Evaluate: evaluate, Reset: reset},
		close: func() error { return windows.FreeLibrary(h) },
	}, nil
}

// syscall3 invokes a raw 3-argument stdcall entry point resolved
// via GetProcAddress. This mirrors how other cgo-free Windows DLL
// bindings in the wild call into hand-resolved function pointers;
// the engine's C ABI is fixed at three pointer/size-width
// parameters per the data model's evaluate signature.
func syscall3(addr uintptr, a1, a2, a3 uintptr) uintptr {
	r, _, _ := windows.Syscall(addr, 3, a1, a2, a3)
	return r
}
