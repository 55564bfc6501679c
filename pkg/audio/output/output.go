// ABOUTME: Audio output interface definitions
// ABOUTME: Common Device and Stream interfaces for playback backends
package output

import (
	"errors"
	"fmt"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
)

// ErrDeviceStopped is reported through an ErrorFunc when a backend stops
// the stream on its own (device unplugged, server gone away)
var ErrDeviceStopped = errors.New("output device stopped unexpectedly")

// RenderFunc fills out with interleaved samples and returns the number of
// frames that carry audio; 0 means the source has ended. It runs on the
// backend's audio thread and must not block.
type RenderFunc func(out []float32) int

// ErrorFunc receives asynchronous stream faults
type ErrorFunc func(err error)

// Device represents the default audio output device of a backend
type Device interface {
	// Name identifies the backend and device
	Name() string

	// SupportedOutputConfigs lists configurations in the order the device reports them
	SupportedOutputConfigs() ([]audio.ConfigRange, error)

	// BuildOutputStream opens a stream that pulls samples from render
	BuildOutputStream(cfg audio.StreamConfig, render RenderFunc, onError ErrorFunc) (Stream, error)

	// Close releases backend resources
	Close() error
}

// Stream is an open output stream
type Stream interface {
	// Play starts invoking the render callback
	Play() error

	// Close stops the stream; no render call happens after it returns
	Close() error
}

// Backends lists the names accepted by New
var Backends = []string{"malgo", "oto", "portaudio"}

// New opens the default output device of the named backend
func New(backend string) (Device, error) {
	switch backend {
	case "", "malgo":
		return NewMalgo()
	case "oto":
		return NewOto()
	case "portaudio":
		return NewPortAudio()
	default:
		return nil, fmt.Errorf("unknown output backend %q (supported: %v)", backend, Backends)
	}
}
