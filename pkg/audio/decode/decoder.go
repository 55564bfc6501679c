// ABOUTME: Decoder source interface definition
// ABOUTME: Common interface for native module decoders
package decode

import "errors"

var (
	// ErrDecode is matched by every failure to create a Module
	ErrDecode = errors.New("failed to create module")

	// ErrRepeatUnsupported is returned when the source cannot loop
	ErrRepeatUnsupported = errors.New("decoder does not support repeating")
)

// Source renders interleaved stereo float32 frames from a parsed module
type Source interface {
	// ReadInterleavedFloatStereo fills up to len(buf)/2 frames and returns
	// the number produced; zero means the module has ended
	ReadInterleavedFloatStereo(rate int, buf []float32) int

	// Close releases decoder resources
	Close() error
}

// Describer is implemented by sources that expose module metadata
type Describer interface {
	Metadata(key string) string
	DurationSeconds() float64
}

// Positioner is implemented by sources that track the song position
// themselves, which differs from rendered time once the module loops
type Positioner interface {
	PositionSeconds() float64
}

// Repeater is implemented by sources that can loop the module
type Repeater interface {
	SetRepeatCount(count int) error
}

// OpenFunc parses module bytes into a Source. logf receives native
// diagnostics and may be nil.
type OpenFunc func(data []byte, logf func(string)) (Source, error)
