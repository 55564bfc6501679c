//go:build cgo

// ABOUTME: Bridge for libopenmpt log callbacks
// ABOUTME: Routes native log messages to the Go function stored in a cgo handle
package openmpt

import "C"

import (
	"runtime/cgo"
	"unsafe"
)

//export goOpenMPTLog
func goOpenMPTLog(message *C.char, user unsafe.Pointer) {
	if user == nil || message == nil {
		return
	}
	if logf, ok := cgo.Handle(uintptr(user)).Value().(func(string)); ok {
		logf(C.GoString(message))
	}
}
