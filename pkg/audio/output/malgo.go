// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo for callback-driven float32 playback
package output

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
	"github.com/gen2brain/malgo"
)

// miniaudio's accepted sample rate bounds; a native format with rate 0
// means any rate in between
const (
	malgoMinSampleRate = 8000
	malgoMaxSampleRate = 384000
)

// Malgo output device using malgo/miniaudio
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	name     string
}

// NewMalgo initializes a miniaudio context for the default playback device
func NewMalgo() (Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Printf("malgo: %s", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	return &Malgo{malgoCtx: ctx, name: "default"}, nil
}

// Name returns the backend and device name
func (m *Malgo) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return "malgo: " + m.name
}

// SupportedOutputConfigs reports the native formats of the default playback device
func (m *Malgo) SupportedOutputConfigs() ([]audio.ConfigRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		return nil, fmt.Errorf("output not initialized")
	}

	devices, err := m.malgoCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no playback devices found")
	}

	def := devices[0]
	for _, d := range devices {
		if d.IsDefault != 0 {
			def = d
			break
		}
	}

	info, err := m.malgoCtx.DeviceInfo(malgo.Playback, def.ID, malgo.Shared)
	if err != nil {
		return nil, fmt.Errorf("failed to query device info: %w", err)
	}
	m.name = info.Name()

	ranges := make([]audio.ConfigRange, 0, len(info.Formats))
	for _, f := range info.Formats {
		if r, ok := rangeFromDataFormat(f); ok {
			ranges = append(ranges, r)
		}
	}

	// Backends that report no native formats still accept anything,
	// miniaudio converts on the way out
	if len(ranges) == 0 {
		ranges = append(ranges, audio.ConfigRange{
			Channels:      audio.OutputChannels,
			SampleFormat:  audio.FormatF32,
			MinSampleRate: malgoMinSampleRate,
			MaxSampleRate: malgoMaxSampleRate,
		})
	}

	return ranges, nil
}

// rangeFromDataFormat converts a miniaudio native data format.
// Zero channels or rate mean the device takes any value.
func rangeFromDataFormat(f malgo.DataFormat) (audio.ConfigRange, bool) {
	format := sampleFormatFromMalgo(f.Format)
	if format == audio.FormatUnknown {
		return audio.ConfigRange{}, false
	}

	r := audio.ConfigRange{
		Channels:      int(f.Channels),
		SampleFormat:  format,
		MinSampleRate: int(f.SampleRate),
		MaxSampleRate: int(f.SampleRate),
	}
	if r.Channels == 0 {
		r.Channels = audio.OutputChannels
	}
	if f.SampleRate == 0 {
		r.MinSampleRate = malgoMinSampleRate
		r.MaxSampleRate = malgoMaxSampleRate
	}
	return r, true
}

func sampleFormatFromMalgo(format malgo.FormatType) audio.SampleFormat {
	switch format {
	case malgo.FormatU8:
		return audio.FormatU8
	case malgo.FormatS16:
		return audio.FormatS16
	case malgo.FormatS24:
		return audio.FormatS24
	case malgo.FormatS32:
		return audio.FormatS32
	case malgo.FormatF32:
		return audio.FormatF32
	default:
		return audio.FormatUnknown
	}
}

// BuildOutputStream initializes a playback device that pulls from render
func (m *Malgo) BuildOutputStream(cfg audio.StreamConfig, render RenderFunc, onError ErrorFunc) (Stream, error) {
	if cfg.SampleFormat != audio.FormatF32 {
		return nil, fmt.Errorf("unsupported sample format: %s (supported: F32)", cfg.SampleFormat)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		return nil, fmt.Errorf("output not initialized")
	}

	s := &malgoStream{
		render:   render,
		onError:  onError,
		channels: cfg.Channels,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: s.dataCallback,
		Stop: s.stopCallback,
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	s.device = device

	log.Printf("Audio output initialized: %s (malgo)", cfg)
	return s, nil
}

// Close releases the miniaudio context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		return nil
	}
	if err := m.malgoCtx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	m.malgoCtx.Free()
	m.malgoCtx = nil
	return nil
}

type malgoStream struct {
	mu       sync.Mutex
	device   *malgo.Device
	render   RenderFunc
	onError  ErrorFunc
	channels int

	closing atomic.Bool
	errOnce sync.Once
}

// dataCallback is called by malgo to fill the audio output buffer.
// The F32 output bytes are handed to render in place.
func (s *malgoStream) dataCallback(pOutput, pInput []byte, frameCount uint32) {
	n := int(frameCount) * s.channels
	if n == 0 || len(pOutput) < n*4 {
		return
	}
	s.render(unsafe.Slice((*float32)(unsafe.Pointer(&pOutput[0])), n))
}

// stopCallback fires whenever the device stops, including our own Close
func (s *malgoStream) stopCallback() {
	if s.closing.Load() || s.onError == nil {
		return
	}
	s.errOnce.Do(func() {
		s.onError(ErrDeviceStopped)
	})
}

func (s *malgoStream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return fmt.Errorf("stream closed")
	}
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	return nil
}

func (s *malgoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return nil
	}
	s.closing.Store(true)
	if err := s.device.Stop(); err != nil {
		log.Printf("Warning: device stop error: %v", err)
	}
	s.device.Uninit()
	s.device = nil
	return nil
}
