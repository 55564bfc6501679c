// ABOUTME: Integration tests for the Player
// ABOUTME: Tests the playback state machine, failure paths and teardown order
package modplay

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/decode"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/output"
)

func newTestPlayer(t *testing.T, dev *fakeDevice, src *fakeSource, extra func(*Config)) *Player {
	t.Helper()
	config := Config{
		Device:       dev,
		Open:         opener(src),
		PollInterval: 10 * time.Millisecond,
	}
	if extra != nil {
		extra(&config)
	}
	player, err := NewPlayer(config)
	if err != nil {
		t.Fatalf("failed to create player: %v", err)
	}
	return player
}

func TestNewPlayer_RequiresDevice(t *testing.T) {
	player, err := NewPlayer(Config{})
	if err == nil {
		t.Fatal("expected error without device, got nil")
	}
	if player != nil {
		t.Fatal("expected nil player without device")
	}
}

func TestNewPlayerDefaults(t *testing.T) {
	player, err := NewPlayer(Config{Device: &fakeDevice{}})
	if err != nil {
		t.Fatalf("failed to create player: %v", err)
	}

	if player.config.PollInterval != 500*time.Millisecond {
		t.Errorf("expected default poll interval 500ms, got %v", player.config.PollInterval)
	}
	if player.config.Open == nil {
		t.Error("expected default opener")
	}
	if player.State() != StateIdle {
		t.Errorf("expected initial state idle, got %s", player.State())
	}
}

func TestPlayToEnd(t *testing.T) {
	const totalFrames = 10000

	ev := &events{}
	src := &fakeSource{total: totalFrames, events: ev}
	dev := &fakeDevice{ranges: stereoFloat, blockSize: 512, events: ev}

	var mu sync.Mutex
	var states []State
	var last Progress
	player := newTestPlayer(t, dev, src, func(c *Config) {
		c.OnStateChange = func(s State) {
			mu.Lock()
			defer mu.Unlock()
			states = append(states, s)
		}
		c.OnProgress = func(p Progress) {
			mu.Lock()
			defer mu.Unlock()
			last = p
		}
	})

	if err := player.Play(context.Background(), []byte("module")); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	if src.produced != totalFrames {
		t.Errorf("expected %d frames consumed, got %d", totalFrames, src.produced)
	}
	if src.zeroReads != 1 {
		t.Errorf("expected exactly one zero-frame read, got %d", src.zeroReads)
	}
	if src.lastRate != 48000 {
		t.Errorf("expected render at 48000Hz, got %d", src.lastRate)
	}
	if dev.cfg != (audio.StreamConfig{Channels: 2, SampleFormat: audio.FormatF32, SampleRate: 48000}) {
		t.Errorf("unexpected stream config %+v", dev.cfg)
	}
	if player.StreamConfig() != dev.cfg {
		t.Errorf("expected player to report %+v, got %+v", dev.cfg, player.StreamConfig())
	}

	expectedStates := []State{StateDecodingCreated, StateDeviceNegotiated, StateStreaming, StateFinished}
	if !reflect.DeepEqual(states, expectedStates) {
		t.Errorf("expected states %v, got %v", expectedStates, states)
	}
	if player.State() != StateFinished {
		t.Errorf("expected finished, got %s", player.State())
	}

	if last.Frames != totalFrames {
		t.Errorf("expected final progress of %d frames, got %d", totalFrames, last.Frames)
	}

	expectedTeardown := []string{"stream closed", "source closed"}
	if got := ev.snapshot(); !reflect.DeepEqual(got, expectedTeardown) {
		t.Errorf("expected teardown %v, got %v", expectedTeardown, got)
	}
}

func TestPlay_DecodeError(t *testing.T) {
	dev := &fakeDevice{ranges: stereoFloat}
	player, err := NewPlayer(Config{
		Device: dev,
		Open: func(data []byte, logf func(string)) (decode.Source, error) {
			return nil, errors.New("unsupported format")
		},
	})
	if err != nil {
		t.Fatalf("failed to create player: %v", err)
	}

	err = player.Play(context.Background(), []byte("garbage"))
	if !errors.Is(err, decode.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if dev.queried {
		t.Error("device must not be queried after a decode failure")
	}
	if player.State() != StateFailed {
		t.Errorf("expected failed, got %s", player.State())
	}
}

func TestPlay_EmptyData(t *testing.T) {
	src := &fakeSource{total: 10}
	dev := &fakeDevice{ranges: stereoFloat}
	player := newTestPlayer(t, dev, src, nil)

	err := player.Play(context.Background(), nil)
	if !errors.Is(err, decode.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if dev.queried {
		t.Error("device must not be queried for empty data")
	}
}

func TestPlay_NoMatchingConfig(t *testing.T) {
	tests := []struct {
		name   string
		ranges []audio.ConfigRange
	}{
		{"empty", nil},
		{"mono only", []audio.ConfigRange{{Channels: 1, SampleFormat: audio.FormatF32, MinSampleRate: 48000, MaxSampleRate: 48000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{total: 10}
			dev := &fakeDevice{ranges: tt.ranges}
			player := newTestPlayer(t, dev, src, nil)

			err := player.Play(context.Background(), []byte("module"))
			if !errors.Is(err, output.ErrNoMatch) {
				t.Fatalf("expected ErrNoMatch, got %v", err)
			}
			if dev.built {
				t.Error("stream must not be opened without a matching config")
			}
			if !src.closed {
				t.Error("expected decoder to be released")
			}
			if player.State() != StateFailed {
				t.Errorf("expected failed, got %s", player.State())
			}
		})
	}
}

func TestPlay_ConfigQueryError(t *testing.T) {
	src := &fakeSource{total: 10}
	dev := &fakeDevice{rangesErr: errors.New("no devices")}
	player := newTestPlayer(t, dev, src, nil)

	err := player.Play(context.Background(), []byte("module"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, output.ErrNoMatch) {
		t.Error("query failure must not look like a config mismatch")
	}
	if !src.closed {
		t.Error("expected decoder to be released")
	}
}

func TestPlay_StreamBuildError(t *testing.T) {
	src := &fakeSource{total: 10}
	dev := &fakeDevice{ranges: stereoFloat, buildErr: errors.New("device busy")}
	player := newTestPlayer(t, dev, src, nil)

	err := player.Play(context.Background(), []byte("module"))
	if !errors.Is(err, ErrStream) {
		t.Fatalf("expected ErrStream, got %v", err)
	}
	if !src.closed {
		t.Error("expected decoder to be released")
	}
	if player.State() != StateFailed {
		t.Errorf("expected failed, got %s", player.State())
	}
}

func TestPlay_StreamStartError(t *testing.T) {
	ev := &events{}
	src := &fakeSource{total: 10, events: ev}
	dev := &fakeDevice{ranges: stereoFloat, playErr: errors.New("start failed"), events: ev}
	player := newTestPlayer(t, dev, src, nil)

	err := player.Play(context.Background(), []byte("module"))
	if !errors.Is(err, ErrStream) {
		t.Fatalf("expected ErrStream, got %v", err)
	}

	expectedTeardown := []string{"stream closed", "source closed"}
	if got := ev.snapshot(); !reflect.DeepEqual(got, expectedTeardown) {
		t.Errorf("expected teardown %v, got %v", expectedTeardown, got)
	}
}

func TestPlay_Cancelled(t *testing.T) {
	ev := &events{}
	src := &fakeSource{total: -1, events: ev}
	dev := &fakeDevice{ranges: stereoFloat, events: ev}
	player := newTestPlayer(t, dev, src, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := player.Play(ctx, []byte("module"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if player.State() != StateStopped {
		t.Errorf("expected stopped, got %s", player.State())
	}
	if dev.stream.calls == 0 {
		t.Error("expected render calls before cancellation")
	}

	expectedTeardown := []string{"stream closed", "source closed"}
	if got := ev.snapshot(); !reflect.DeepEqual(got, expectedTeardown) {
		t.Errorf("expected teardown %v, got %v", expectedTeardown, got)
	}
}

func TestPlay_StreamFaultReported(t *testing.T) {
	fault := errors.New("underrun")
	src := &fakeSource{total: 2000}
	dev := &fakeDevice{ranges: stereoFloat, faultOnRun: fault}

	var mu sync.Mutex
	var got []error
	player := newTestPlayer(t, dev, src, func(c *Config) {
		c.OnError = func(err error) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, err)
		}
	})

	if err := player.Play(context.Background(), []byte("module")); err != nil {
		t.Fatalf("runtime faults must not fail playback, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || !errors.Is(got[0], fault) {
		t.Errorf("expected fault to be reported once, got %v", got)
	}
}

func TestPlay_OnlyOnce(t *testing.T) {
	src := &fakeSource{total: 100}
	dev := &fakeDevice{ranges: stereoFloat}
	player := newTestPlayer(t, dev, src, nil)

	if err := player.Play(context.Background(), []byte("module")); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if err := player.Play(context.Background(), []byte("module")); err == nil {
		t.Error("expected second Play to fail")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
		terminal bool
	}{
		{StateIdle, "idle", false},
		{StateDecodingCreated, "decoding-created", false},
		{StateDeviceNegotiated, "device-negotiated", false},
		{StateStreaming, "streaming", false},
		{StateFinished, "finished", true},
		{StateFailed, "failed", true},
		{StateStopped, "stopped", true},
		{State(42), "State(42)", false},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
			if got := tt.state.Terminal(); got != tt.terminal {
				t.Errorf("expected terminal=%v, got %v", tt.terminal, got)
			}
		})
	}
}

func TestPlayRepeatCount(t *testing.T) {
	tests := []struct {
		name    string
		repeat  int
		wantSet bool
	}{
		{"plays once by default", 0, false},
		{"repeat forwarded", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{total: 1000}
			dev := &fakeDevice{ranges: stereoFloat}
			player := newTestPlayer(t, dev, src, func(c *Config) {
				c.Repeat = tt.repeat
			})

			if err := player.Play(context.Background(), []byte("module")); err != nil {
				t.Fatalf("play failed: %v", err)
			}
			if src.repeatSet != tt.wantSet {
				t.Errorf("expected repeat set %v, got %v", tt.wantSet, src.repeatSet)
			}
			if tt.wantSet && src.repeat != tt.repeat {
				t.Errorf("expected repeat %d, got %d", tt.repeat, src.repeat)
			}
		})
	}
}
