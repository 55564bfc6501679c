//go:build !cgo

// ABOUTME: libopenmpt stub when cgo is disabled
// ABOUTME: Keeps the package API compiling without the native library
package openmpt

import "fmt"

// Module is unavailable without cgo
type Module struct{}

// CreateFromMemory rejects empty data and otherwise reports ErrUnavailable
func CreateFromMemory(data []byte, logf func(string)) (*Module, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidModule)
	}
	return nil, ErrUnavailable
}

func (m *Module) ReadInterleavedFloatStereo(rate int, buf []float32) int { return 0 }
func (m *Module) Metadata(key string) string                             { return "" }
func (m *Module) MetadataKeys() []string                                 { return nil }
func (m *Module) DurationSeconds() float64                               { return 0 }
func (m *Module) PositionSeconds() float64                               { return 0 }
func (m *Module) NumChannels() int                                       { return 0 }
func (m *Module) NumSubsongs() int                                       { return 0 }
func (m *Module) NumPatterns() int                                       { return 0 }
func (m *Module) NumOrders() int                                         { return 0 }
func (m *Module) NumInstruments() int                                    { return 0 }
func (m *Module) NumSamples() int                                        { return 0 }
func (m *Module) SetRepeatCount(count int) error                         { return ErrUnavailable }
func (m *Module) Close() error                                           { return nil }

// LibraryVersion is empty without cgo
func LibraryVersion() string { return "" }

// SupportedExtensions is empty without cgo
func SupportedExtensions() []string { return nil }
