// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams float32 PCM through an oto player pulling from the render callback
package output

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

const (
	// oto lets the OS mixer resample, any rate in this span opens
	otoMinSampleRate = 8000
	otoMaxSampleRate = 192000

	// audio rendered per Read refill
	otoBlockDuration = 20 * time.Millisecond

	otoWatchInterval = 250 * time.Millisecond

	// oto queues about half a second ahead of the device
	otoDrainTimeout = 2 * time.Second
	otoDrainPoll    = 10 * time.Millisecond
)

// Oto output device using the oto library
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	sampleRate int
	channels   int
}

// NewOto creates an oto device. The oto context itself is created by the
// first BuildOutputStream, once the stream format is known.
func NewOto() (Device, error) {
	return &Oto{}, nil
}

// Name returns the backend name
func (o *Oto) Name() string {
	return "oto: default output"
}

// SupportedOutputConfigs lists the formats oto can open
func (o *Oto) SupportedOutputConfigs() ([]audio.ConfigRange, error) {
	var ranges []audio.ConfigRange
	for _, channels := range []int{2, 1} {
		for _, format := range []audio.SampleFormat{audio.FormatF32, audio.FormatS16, audio.FormatU8} {
			ranges = append(ranges, audio.ConfigRange{
				Channels:      channels,
				SampleFormat:  format,
				MinSampleRate: otoMinSampleRate,
				MaxSampleRate: otoMaxSampleRate,
			})
		}
	}
	return ranges, nil
}

// BuildOutputStream creates an oto player reading from render
func (o *Oto) BuildOutputStream(cfg audio.StreamConfig, render RenderFunc, onError ErrorFunc) (Stream, error) {
	if cfg.SampleFormat != audio.FormatF32 {
		return nil, fmt.Errorf("unsupported sample format: %s (supported: F32)", cfg.SampleFormat)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// oto only allows one context per process
	if o.otoCtx != nil && (o.sampleRate != cfg.SampleRate || o.channels != cfg.Channels) {
		return nil, fmt.Errorf("oto context already created for %dHz %dch, cannot reopen at %dHz %dch",
			o.sampleRate, o.channels, cfg.SampleRate, cfg.Channels)
	}

	if o.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: cfg.Channels,
			Format:       oto.FormatFloat32LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan

		o.otoCtx = ctx
		o.sampleRate = cfg.SampleRate
		o.channels = cfg.Channels
	} else if err := o.otoCtx.Resume(); err != nil {
		return nil, fmt.Errorf("failed to resume oto context: %w", err)
	}

	reader := newRenderReader(render, cfg, cfg.Frames(otoBlockDuration))
	s := newOtoStream(o.otoCtx.Err, o.otoCtx.NewPlayer(reader), reader, onError)

	log.Printf("Audio output initialized: %s (oto)", cfg)
	return s, nil
}

// Close suspends the oto context; oto cannot release it for good
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto suspend error: %v", err)
		}
	}
	return nil
}

// otoPlayer is the part of *oto.Player a stream drives
type otoPlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	Err() error
	Close() error
}

type otoStream struct {
	mu      sync.Mutex
	ctxErr  func() error
	player  otoPlayer
	reader  *renderReader
	onError ErrorFunc
	done    chan struct{}
	started bool

	watchInterval time.Duration
	drainTimeout  time.Duration
}

func newOtoStream(ctxErr func() error, player otoPlayer, reader *renderReader, onError ErrorFunc) *otoStream {
	return &otoStream{
		ctxErr:        ctxErr,
		player:        player,
		reader:        reader,
		onError:       onError,
		done:          make(chan struct{}),
		watchInterval: otoWatchInterval,
		drainTimeout:  otoDrainTimeout,
	}
}

func (s *otoStream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return fmt.Errorf("stream closed")
	}
	s.player.Play()
	if !s.started {
		s.started = true
		go s.watch()
	}
	return nil
}

// watch surfaces player and context faults, which oto only exposes by polling
func (s *otoStream) watch() {
	ticker := time.NewTicker(s.watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			err := s.ctxErr()
			if err == nil {
				s.mu.Lock()
				if s.player != nil {
					err = s.player.Err()
				}
				s.mu.Unlock()
			}
			if err != nil {
				if s.onError != nil {
					s.onError(fmt.Errorf("%w: %w", ErrDeviceStopped, err))
				}
				return
			}
		}
	}
}

// Close stops the player. When the source has ended, the audio oto already
// buffered is played out first, bounded by drainTimeout.
func (s *otoStream) Close() error {
	s.mu.Lock()
	player := s.player
	if player == nil {
		s.mu.Unlock()
		return nil
	}
	s.player = nil
	close(s.done)
	s.mu.Unlock()

	if s.reader.Ended() && !drain(player, s.drainTimeout) {
		log.Printf("Warning: oto player still playing after %v, cutting off", s.drainTimeout)
	}

	player.Pause()
	if err := player.Close(); err != nil {
		return fmt.Errorf("failed to close oto player: %w", err)
	}
	return nil
}

// drain waits until player stops on its own, reporting false on timeout
func drain(player otoPlayer, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for player.IsPlaying() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(otoDrainPoll)
	}
	return true
}
