// ABOUTME: Go binding for libopenmpt module decoding
// ABOUTME: Wraps the native module handle with explicit ownership
// Package openmpt binds the parts of libopenmpt needed to decode tracker
// modules (MOD, XM, S3M, IT and friends) into interleaved stereo float PCM.
//
// The package requires cgo and libopenmpt (found through pkg-config).
// Builds without cgo compile a stub whose constructors return ErrUnavailable.
//
// Example:
//
//	mod, err := openmpt.CreateFromMemory(data, nil)
//	defer mod.Close()
//	buf := make([]float32, 2*1024)
//	frames := mod.ReadInterleavedFloatStereo(48000, buf)
package openmpt
