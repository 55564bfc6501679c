// ABOUTME: Audio type definitions
// ABOUTME: Defines sample formats, config ranges and stream configurations
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const (
	// Stream parameters every module is rendered with
	OutputChannels   = 2
	OutputSampleRate = 48000
)

// SampleFormat identifies how one sample is encoded
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatU8
	FormatS16
	FormatS24
	FormatS32
	FormatF32
)

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "U8"
	case FormatS16:
		return "S16"
	case FormatS24:
		return "S24"
	case FormatS32:
		return "S32"
	case FormatF32:
		return "F32"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// BytesPerSample returns the size of one sample, or 0 if unknown
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS24:
		return 3
	case FormatS32, FormatF32:
		return 4
	default:
		return 0
	}
}

// ConfigRange describes one output configuration a device supports
type ConfigRange struct {
	Channels      int
	SampleFormat  SampleFormat
	MinSampleRate int
	MaxSampleRate int
}

// SupportsRate reports whether rate lies inside the range
func (r ConfigRange) SupportsRate(rate int) bool {
	return rate >= r.MinSampleRate && rate <= r.MaxSampleRate
}

// WithSampleRate fixes the range to a concrete stream configuration
func (r ConfigRange) WithSampleRate(rate int) StreamConfig {
	return StreamConfig{
		Channels:     r.Channels,
		SampleFormat: r.SampleFormat,
		SampleRate:   rate,
	}
}

func (r ConfigRange) String() string {
	if r.MinSampleRate == r.MaxSampleRate {
		return fmt.Sprintf("%dch %s %dHz", r.Channels, r.SampleFormat, r.MaxSampleRate)
	}
	return fmt.Sprintf("%dch %s %d-%dHz", r.Channels, r.SampleFormat, r.MinSampleRate, r.MaxSampleRate)
}

// StreamConfig holds the parameters an output stream is opened with.
// It is chosen once at startup and never changes afterwards.
type StreamConfig struct {
	Channels     int
	SampleFormat SampleFormat
	SampleRate   int
}

// FrameSize returns the number of bytes in one interleaved frame
func (c StreamConfig) FrameSize() int {
	return c.Channels * c.SampleFormat.BytesPerSample()
}

// Frames returns how many frames cover d at the configured rate
func (c StreamConfig) Frames(d time.Duration) int {
	return int(int64(c.SampleRate) * int64(d) / int64(time.Second))
}

func (c StreamConfig) String() string {
	return fmt.Sprintf("%dHz, %d channels, %s", c.SampleRate, c.Channels, c.SampleFormat)
}

// PutFloat32LE encodes samples into dst as little-endian IEEE 754 floats.
// It returns the number of samples written, limited by len(dst)/4.
func PutFloat32LE(dst []byte, samples []float32) int {
	n := len(samples)
	if limit := len(dst) / 4; n > limit {
		n = limit
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(samples[i]))
	}
	return n
}
