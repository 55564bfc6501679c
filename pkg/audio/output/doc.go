// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides device negotiation and callback-driven output backends
// Package output provides audio playback devices.
//
// A Device reports the output configurations it supports and opens
// callback-driven streams: the backend calls a RenderFunc from its own
// audio thread whenever it needs another block of interleaved float32
// samples. SelectOutputConfig picks the stereo float32 48kHz configuration
// every module is rendered with.
//
// Supported backends: malgo (miniaudio, default), oto and PortAudio
// (build with -tags portaudio).
//
// Example:
//
//	dev, err := output.New("malgo")
//	ranges, err := dev.SupportedOutputConfigs()
//	cfg, err := output.SelectOutputConfig(ranges)
//	stream, err := dev.BuildOutputStream(cfg, render, func(err error) { log.Print(err) })
//	err = stream.Play()
package output
