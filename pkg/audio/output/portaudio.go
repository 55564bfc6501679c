//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform callback-driven float32 output using PortAudio
package output

import (
	"errors"
	"fmt"
	"log"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// rates probed when building config ranges; PortAudio has no range query
var portAudioProbeRates = []int{8000, 11025, 16000, 22050, 32000, 44100, 48000, 88200, 96000, 176400, 192000}

const portAudioMaxProbeChannels = 8

// PortAudio output device
type PortAudio struct {
	device *portaudio.DeviceInfo
}

// NewPortAudio initializes PortAudio and selects the default output device
func NewPortAudio() (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to find default output device: %w", err)
	}

	return &PortAudio{device: dev}, nil
}

// Name returns the backend and device name
func (p *PortAudio) Name() string {
	return "portaudio: " + p.device.Name
}

// SupportedOutputConfigs probes float32 output per channel count
func (p *PortAudio) SupportedOutputConfigs() ([]audio.ConfigRange, error) {
	maxChannels := p.device.MaxOutputChannels
	if maxChannels > portAudioMaxProbeChannels {
		maxChannels = portAudioMaxProbeChannels
	}

	var ranges []audio.ConfigRange
	for channels := 1; channels <= maxChannels; channels++ {
		r := audio.ConfigRange{Channels: channels, SampleFormat: audio.FormatF32}
		for _, rate := range portAudioProbeRates {
			params := p.parameters(channels, rate)
			if err := portaudio.IsFormatSupported(params, func(out []float32) {}); err != nil {
				continue
			}
			if r.MinSampleRate == 0 {
				r.MinSampleRate = rate
			}
			r.MaxSampleRate = rate
		}
		if r.MaxSampleRate > 0 {
			ranges = append(ranges, r)
		}
	}
	return ranges, nil
}

func (p *PortAudio) parameters(channels, rate int) portaudio.StreamParameters {
	params := portaudio.HighLatencyParameters(nil, p.device)
	params.Output.Channels = channels
	params.SampleRate = float64(rate)
	return params
}

// BuildOutputStream opens a callback stream on the default device
func (p *PortAudio) BuildOutputStream(cfg audio.StreamConfig, render RenderFunc, onError ErrorFunc) (Stream, error) {
	if cfg.SampleFormat != audio.FormatF32 {
		return nil, fmt.Errorf("unsupported sample format: %s (supported: F32)", cfg.SampleFormat)
	}

	s := &paStream{
		faults:  make(chan error, 1),
		done:    make(chan struct{}),
		onError: onError,
	}

	callback := func(out []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		render(out)
		if flags&portaudio.OutputUnderflow != 0 {
			select {
			case s.faults <- fmt.Errorf("output underflow"):
			default:
			}
		}
	}

	stream, err := portaudio.OpenStream(p.parameters(cfg.Channels, cfg.SampleRate), callback)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	s.stream = stream

	log.Printf("Audio output initialized: %s (portaudio)", cfg)
	return s, nil
}

// Close terminates PortAudio
func (p *PortAudio) Close() error {
	return portaudio.Terminate()
}

// paHandle is the part of *portaudio.Stream a stream drives
type paHandle interface {
	Start() error
	Stop() error
	Close() error
}

type paStream struct {
	stream  paHandle
	faults  chan error
	done    chan struct{}
	onError ErrorFunc
	started bool
}

func (s *paStream) Play() error {
	if s.stream == nil {
		return fmt.Errorf("stream closed")
	}
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	s.started = true
	go s.forwardFaults()
	return nil
}

// forwardFaults reports callback faults off the audio thread
func (s *paStream) forwardFaults() {
	for {
		select {
		case <-s.done:
			return
		case err := <-s.faults:
			if s.onError != nil {
				s.onError(err)
			}
		}
	}
}

// Close stops a started stream and always releases it
func (s *paStream) Close() error {
	if s.stream == nil {
		return nil
	}
	close(s.done)

	var stopErr error
	if s.started {
		if err := s.stream.Stop(); err != nil {
			stopErr = fmt.Errorf("failed to stop stream: %w", err)
		}
	}
	var closeErr error
	if err := s.stream.Close(); err != nil {
		closeErr = fmt.Errorf("failed to close stream: %w", err)
	}
	s.stream = nil
	return errors.Join(stopErr, closeErr)
}
