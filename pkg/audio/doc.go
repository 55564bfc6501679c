// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines sample formats, stream configurations and PCM encoding helpers
// Package audio provides the audio types shared by the decoder and output packages.
//
// This package defines:
//   - SampleFormat: the sample encodings an output device may accept
//   - ConfigRange: one supported output configuration as reported by a device
//   - StreamConfig: the fixed parameters an output stream is opened with
//
// It also provides little-endian float32 PCM encoding for byte-oriented backends.
//
// Example:
//
//	r := audio.ConfigRange{Channels: 2, SampleFormat: audio.FormatF32, MinSampleRate: 8000, MaxSampleRate: 192000}
//	cfg := r.WithSampleRate(audio.OutputSampleRate)
//	frames := cfg.Frames(20 * time.Millisecond)
package audio
