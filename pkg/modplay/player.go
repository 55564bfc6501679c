// ABOUTME: High-level Player driving module playback
// ABOUTME: Decodes, negotiates the output config, streams and waits for the end
package modplay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/decode"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/output"
)

// ErrStream is matched by failures to open or start the output stream
var ErrStream = errors.New("failed to open output stream")

// Config holds player configuration
type Config struct {
	// Device is the output device to negotiate with and stream to
	Device output.Device

	// Open parses module bytes (default: decode.OpenMPT)
	Open decode.OpenFunc

	// PollInterval is how often completion and progress are checked (default: 500ms)
	PollInterval time.Duration

	// Repeat is how many times the module repeats after the first pass; -1 loops forever
	Repeat int

	// Logf receives decoder diagnostics (default: standard logger)
	Logf func(string)

	// OnStateChange is called on every state transition
	OnStateChange func(State)

	// OnMetadata is called once the module is parsed
	OnMetadata func(decode.Info)

	// OnStreamConfig is called once the output config is negotiated
	OnStreamConfig func(audio.StreamConfig)

	// OnProgress is called every PollInterval while streaming
	OnProgress func(Progress)

	// OnError is called for asynchronous stream faults
	OnError func(error)
}

// Progress reports how far playback has come
type Progress struct {
	Frames   int64
	Position time.Duration
	Duration time.Duration
}

// Player plays a single module once
type Player struct {
	config Config

	mu        sync.Mutex
	state     State
	streamCfg audio.StreamConfig
}

// NewPlayer creates a player with the given configuration
func NewPlayer(config Config) (*Player, error) {
	if config.Device == nil {
		return nil, fmt.Errorf("output device is required")
	}
	if config.Open == nil {
		config.Open = decode.OpenMPT
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}

	return &Player{
		config: config,
		state:  StateIdle,
	}, nil
}

// Play decodes data and streams it to the device until the module ends or
// ctx is cancelled. The stream is closed before the decoder is released,
// and both are released before Play returns.
func (p *Player) Play(ctx context.Context, data []byte) error {
	if st := p.State(); st != StateIdle {
		return fmt.Errorf("player already used (state: %s)", st)
	}

	mod, err := decode.NewModule(data, p.config.Open, p.config.Logf)
	if err != nil {
		p.setState(StateFailed)
		return err
	}
	defer release("decoder", mod.Close)

	if p.config.Repeat != 0 {
		if err := mod.SetRepeatCount(p.config.Repeat); err != nil {
			log.Printf("Warning: failed to set repeat count: %v", err)
		}
	}

	p.setState(StateDecodingCreated)
	info := mod.Info()
	if p.config.OnMetadata != nil {
		p.config.OnMetadata(info)
	}

	ranges, err := p.config.Device.SupportedOutputConfigs()
	if err != nil {
		p.setState(StateFailed)
		return fmt.Errorf("failed to query output configs: %w", err)
	}

	cfg, err := output.SelectOutputConfig(ranges)
	if err != nil {
		p.setState(StateFailed)
		return err
	}

	p.mu.Lock()
	p.streamCfg = cfg
	p.mu.Unlock()
	p.setState(StateDeviceNegotiated)
	if p.config.OnStreamConfig != nil {
		p.config.OnStreamConfig(cfg)
	}

	render := func(out []float32) int {
		return mod.Render(cfg.SampleRate, out)
	}

	stream, err := p.config.Device.BuildOutputStream(cfg, render, p.handleStreamError)
	if err != nil {
		p.setState(StateFailed)
		return fmt.Errorf("%w: %w", ErrStream, err)
	}
	defer release("stream", stream.Close)

	if err := stream.Play(); err != nil {
		p.setState(StateFailed)
		return fmt.Errorf("%w: %w", ErrStream, err)
	}
	p.setState(StateStreaming)

	err = Wait(ctx, mod, p.config.PollInterval, func() {
		p.reportProgress(mod, info.Duration)
	})
	if err != nil {
		p.setState(StateStopped)
		return err
	}

	p.reportProgress(mod, info.Duration)
	p.setState(StateFinished)
	return nil
}

// State returns the current playback state
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// StreamConfig returns the negotiated output config, zero before negotiation
func (p *Player) StreamConfig() audio.StreamConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streamCfg
}

func (p *Player) setState(state State) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()

	if p.config.OnStateChange != nil {
		p.config.OnStateChange(state)
	}
}

func (p *Player) reportProgress(mod *decode.Module, duration time.Duration) {
	if p.config.OnProgress == nil {
		return
	}
	p.config.OnProgress(Progress{
		Frames:   mod.FramesRendered(),
		Position: mod.Position(),
		Duration: duration,
	})
}

// handleStreamError logs runtime faults; playback is not restarted
func (p *Player) handleStreamError(err error) {
	log.Printf("Stream error: %v", err)
	if p.config.OnError != nil {
		p.config.OnError(err)
	}
}

func release(what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Printf("Warning: failed to close %s: %v", what, err)
	}
}
