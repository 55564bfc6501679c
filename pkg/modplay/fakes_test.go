// ABOUTME: Test doubles for modplay tests
// ABOUTME: Fake decoder source, output device and callback-driven stream
package modplay

import (
	"errors"
	"sync"
	"time"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/decode"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/output"
)

// events records teardown order across fakes
type events struct {
	mu   sync.Mutex
	list []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, s)
}

func (e *events) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.list...)
}

// fakeSource yields total frames, or never ends when total is negative
type fakeSource struct {
	total     int
	produced  int
	zeroReads int
	lastRate  int
	closed    bool
	repeat    int
	repeatSet bool
	events    *events
}

func (f *fakeSource) ReadInterleavedFloatStereo(rate int, buf []float32) int {
	f.lastRate = rate
	n := len(buf) / 2
	if f.total >= 0 && n > f.total-f.produced {
		n = f.total - f.produced
	}
	for i := 0; i < n*2; i++ {
		buf[i] = 0.5
	}
	f.produced += n
	if n == 0 {
		f.zeroReads++
	}
	return n
}

func (f *fakeSource) Close() error {
	f.closed = true
	if f.events != nil {
		f.events.add("source closed")
	}
	return nil
}

func (f *fakeSource) SetRepeatCount(count int) error {
	f.repeat = count
	f.repeatSet = true
	return nil
}

func opener(src *fakeSource) decode.OpenFunc {
	return func(data []byte, logf func(string)) (decode.Source, error) {
		return src, nil
	}
}

var stereoFloat = []audio.ConfigRange{
	{Channels: 1, SampleFormat: audio.FormatF32, MinSampleRate: 44100, MaxSampleRate: 44100},
	{Channels: 2, SampleFormat: audio.FormatF32, MinSampleRate: 48000, MaxSampleRate: 48000},
	{Channels: 2, SampleFormat: audio.FormatS16, MinSampleRate: 96000, MaxSampleRate: 96000},
}

type fakeDevice struct {
	ranges     []audio.ConfigRange
	rangesErr  error
	buildErr   error
	playErr    error
	faultOnRun error
	blockSize  int

	queried bool
	built   bool
	cfg     audio.StreamConfig
	stream  *fakeStream
	events  *events
}

func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) SupportedOutputConfigs() ([]audio.ConfigRange, error) {
	d.queried = true
	return d.ranges, d.rangesErr
}

func (d *fakeDevice) BuildOutputStream(cfg audio.StreamConfig, render output.RenderFunc, onError output.ErrorFunc) (output.Stream, error) {
	d.built = true
	if d.buildErr != nil {
		return nil, d.buildErr
	}
	d.cfg = cfg

	blockSize := d.blockSize
	if blockSize == 0 {
		blockSize = 256
	}
	d.stream = &fakeStream{
		buf:     make([]float32, blockSize*cfg.Channels),
		render:  render,
		onError: onError,
		playErr: d.playErr,
		fault:   d.faultOnRun,
		stop:    make(chan struct{}),
		events:  d.events,
	}
	return d.stream, nil
}

func (d *fakeDevice) Close() error { return nil }

// fakeStream calls render from its own goroutine like an audio thread
type fakeStream struct {
	buf     []float32
	render  output.RenderFunc
	onError output.ErrorFunc
	playErr error
	fault   error

	stop    chan struct{}
	wg      sync.WaitGroup
	calls   int
	closed  bool
	started bool
	events  *events
}

func (s *fakeStream) Play() error {
	if s.playErr != nil {
		return s.playErr
	}
	s.started = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.fault != nil {
			s.onError(s.fault)
		}
		for {
			select {
			case <-s.stop:
				return
			default:
			}
			s.render(s.buf)
			s.calls++
			time.Sleep(time.Millisecond)
		}
	}()
	return nil
}

func (s *fakeStream) Close() error {
	if s.closed {
		return errors.New("stream closed twice")
	}
	s.closed = true
	close(s.stop)
	s.wg.Wait()
	if s.events != nil {
		s.events.add("stream closed")
	}
	return nil
}
