//go:build cgo

// ABOUTME: Native libopenmpt module handle
// ABOUTME: Creates, reads and destroys openmpt_module instances through cgo
package openmpt

/*
#cgo pkg-config: libopenmpt
#include <stdint.h>
#include <stdlib.h>
#include <libopenmpt/libopenmpt.h>

extern void goOpenMPTLog(char* message, void* user);

static void openmpt_go_log(const char* message, void* user) {
	goOpenMPTLog((char*)message, user);
}

static openmpt_module* openmpt_go_create(const void* data, size_t size, uintptr_t user, int* error, const char** error_message) {
	return openmpt_module_create_from_memory2(data, size, openmpt_go_log, (void*)user,
		NULL, NULL, error, error_message, NULL);
}
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync"
	"unsafe"
)

// Module owns one native openmpt_module
type Module struct {
	mu     sync.Mutex
	handle *C.openmpt_module
	logger cgo.Handle
}

// CreateFromMemory parses a module from an in-memory buffer.
// libopenmpt copies the data, so the caller may reuse it afterwards.
// logf receives native diagnostics; nil routes them to the standard logger.
func CreateFromMemory(data []byte, logf func(string)) (*Module, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidModule)
	}
	if logf == nil {
		logf = defaultLog
	}

	logger := cgo.NewHandle(logf)

	var code C.int
	var msg *C.char
	handle := C.openmpt_go_create(unsafe.Pointer(&data[0]), C.size_t(len(data)), C.uintptr_t(logger), &code, &msg)
	if handle == nil {
		logger.Delete()
		err := &Error{Code: int(code)}
		if msg != nil {
			err.Message = takeString(msg)
		}
		return nil, err
	}

	return &Module{handle: handle, logger: logger}, nil
}

// ReadInterleavedFloatStereo renders up to len(buf)/2 frames at the given
// sample rate and returns the number of frames produced. Zero means the
// module has finished playing.
func (m *Module) ReadInterleavedFloatStereo(rate int, buf []float32) int {
	frames := len(buf) / 2
	if frames == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return 0
	}

	n := C.openmpt_module_read_interleaved_float_stereo(m.handle, C.int32_t(rate),
		C.size_t(frames), (*C.float)(unsafe.Pointer(&buf[0])))
	return int(n)
}

// Metadata returns a metadata value such as "title" or "tracker"
func (m *Module) Metadata(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return ""
	}

	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	return takeString(C.openmpt_module_get_metadata(m.handle, ckey))
}

// MetadataKeys lists the metadata keys the module provides
func (m *Module) MetadataKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return nil
	}
	return splitList(takeString(C.openmpt_module_get_metadata_keys(m.handle)))
}

// DurationSeconds returns the length of the current subsong
func (m *Module) DurationSeconds() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return 0
	}
	return float64(C.openmpt_module_get_duration_seconds(m.handle))
}

// PositionSeconds returns the current playback position
func (m *Module) PositionSeconds() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return 0
	}
	return float64(C.openmpt_module_get_position_seconds(m.handle))
}

// NumChannels returns the number of pattern channels
func (m *Module) NumChannels() int {
	return m.count(func(h *C.openmpt_module) C.int32_t { return C.openmpt_module_get_num_channels(h) })
}

// NumSubsongs returns the number of subsongs
func (m *Module) NumSubsongs() int {
	return m.count(func(h *C.openmpt_module) C.int32_t { return C.openmpt_module_get_num_subsongs(h) })
}

// NumPatterns returns the number of patterns
func (m *Module) NumPatterns() int {
	return m.count(func(h *C.openmpt_module) C.int32_t { return C.openmpt_module_get_num_patterns(h) })
}

// NumOrders returns the length of the order list
func (m *Module) NumOrders() int {
	return m.count(func(h *C.openmpt_module) C.int32_t { return C.openmpt_module_get_num_orders(h) })
}

// NumInstruments returns the number of instruments
func (m *Module) NumInstruments() int {
	return m.count(func(h *C.openmpt_module) C.int32_t { return C.openmpt_module_get_num_instruments(h) })
}

// NumSamples returns the number of samples
func (m *Module) NumSamples() int {
	return m.count(func(h *C.openmpt_module) C.int32_t { return C.openmpt_module_get_num_samples(h) })
}

func (m *Module) count(get func(*C.openmpt_module) C.int32_t) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return 0
	}
	return int(get(m.handle))
}

// SetRepeatCount sets how often the song repeats (-1 loops forever, 0 plays once)
func (m *Module) SetRepeatCount(count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return ErrClosed
	}
	if C.openmpt_module_set_repeat_count(m.handle, C.int32_t(count)) == 0 {
		return fmt.Errorf("openmpt: failed to set repeat count %d", count)
	}
	return nil
}

// Close destroys the native module. Safe to call more than once.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return nil
	}

	C.openmpt_module_destroy(m.handle)
	m.handle = nil
	m.logger.Delete()
	return nil
}

// LibraryVersion returns the libopenmpt version string
func LibraryVersion() string {
	key := C.CString("library_version")
	defer C.free(unsafe.Pointer(key))
	return takeString(C.openmpt_get_string(key))
}

// SupportedExtensions lists the file extensions libopenmpt can decode
func SupportedExtensions() []string {
	return splitList(takeString(C.openmpt_get_supported_extensions()))
}

// takeString copies and frees a string allocated by libopenmpt
func takeString(s *C.char) string {
	if s == nil {
		return ""
	}
	defer C.openmpt_free_string(s)
	return C.GoString(s)
}
