// ABOUTME: Error values reported by the libopenmpt binding
// ABOUTME: Maps native error codes to Go errors
package openmpt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidModule is matched by every failure to create a module
	ErrInvalidModule = errors.New("openmpt: invalid module data")

	// ErrUnavailable is returned when the package was built without cgo
	ErrUnavailable = errors.New("openmpt: libopenmpt support not enabled (build with cgo)")

	// ErrClosed is returned by operations on a released module
	ErrClosed = errors.New("openmpt: module closed")
)

// Native error codes, mirroring OPENMPT_ERROR_*.
const (
	CodeOK              = 0
	CodeUnknown         = 1
	CodeException       = 11
	CodeOutOfMemory     = 21
	CodeRuntime         = 30
	CodeRange           = 31
	CodeOverflow        = 32
	CodeUnderflow       = 33
	CodeLogic           = 40
	CodeDomain          = 41
	CodeLength          = 42
	CodeOutOfRange      = 43
	CodeInvalidArgument = 44
	CodeGeneral         = 101
	CodeInvalidHandle   = 102
	CodeArgumentNullPtr = 103
)

// Error describes a module creation failure reported by libopenmpt
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = codeName(e.Code)
	}
	return fmt.Sprintf("openmpt: failed to create module (code %d): %s", e.Code, msg)
}

// Is reports ErrInvalidModule as the category of every creation failure
func (e *Error) Is(target error) bool {
	return target == ErrInvalidModule
}

func codeName(code int) string {
	switch code {
	case CodeOK:
		return "no error"
	case CodeUnknown:
		return "unknown error"
	case CodeException:
		return "exception"
	case CodeOutOfMemory:
		return "out of memory"
	case CodeRuntime, CodeRange, CodeOverflow, CodeUnderflow:
		return "runtime error"
	case CodeLogic, CodeDomain, CodeLength, CodeOutOfRange:
		return "logic error"
	case CodeInvalidArgument:
		return "invalid argument"
	case CodeGeneral:
		return "general error"
	case CodeInvalidHandle:
		return "invalid module handle"
	case CodeArgumentNullPtr:
		return "null pointer argument"
	default:
		return fmt.Sprintf("error %d", code)
	}
}
