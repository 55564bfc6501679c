// ABOUTME: Module wrapper owning a decoder source
// ABOUTME: Renders PCM blocks and latches the end-of-stream flag
package decode

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crumblingstatue/openmpt-go/pkg/openmpt"
)

// Info describes a loaded module
type Info struct {
	Title    string
	Artist   string
	Tracker  string
	Type     string
	TypeLong string
	Message  string
	Duration time.Duration
}

// Module owns a decoder Source. Render must only be called from one
// goroutine at a time (the audio callback once streaming has started).
type Module struct {
	src  Source
	pos  Positioner
	info Info

	ended  atomic.Bool
	closed atomic.Bool
	done   chan struct{}

	frames   atomic.Int64
	rate     atomic.Int64
	position atomic.Int64

	closeOnce sync.Once
	closeErr  error
}

// NewModule parses data with open. Failures wrap ErrDecode and leave
// nothing to release.
func NewModule(data []byte, open OpenFunc, logf func(string)) (*Module, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty module data", ErrDecode)
	}
	if open == nil {
		open = OpenMPT
	}

	src, err := open(data, logf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: decoder returned no handle", ErrDecode)
	}

	m := &Module{
		src:  src,
		done: make(chan struct{}),
	}
	m.pos, _ = src.(Positioner)
	m.info = describe(src)
	return m, nil
}

// describe reads metadata up front so nothing touches the source
// concurrently with Render later on
func describe(src Source) Info {
	d, ok := src.(Describer)
	if !ok {
		return Info{}
	}
	return Info{
		Title:    strings.TrimSpace(d.Metadata(openmpt.KeyTitle)),
		Artist:   strings.TrimSpace(d.Metadata(openmpt.KeyArtist)),
		Tracker:  strings.TrimSpace(d.Metadata(openmpt.KeyTracker)),
		Type:     d.Metadata(openmpt.KeyType),
		TypeLong: d.Metadata(openmpt.KeyTypeLong),
		Message:  d.Metadata(openmpt.KeyMessage),
		Duration: time.Duration(d.DurationSeconds() * float64(time.Second)),
	}
}

// Render fills out with interleaved stereo frames at rate and returns the
// number of frames produced. The unfilled tail is zeroed. Once a render
// produces no frames the module is ended and every later call returns 0.
func (m *Module) Render(rate int, out []float32) int {
	if m.ended.Load() || m.closed.Load() {
		clear(out)
		return 0
	}

	n := m.src.ReadInterleavedFloatStereo(rate, out)
	if tail := n * 2; tail < len(out) {
		clear(out[tail:])
	}

	if n == 0 {
		if m.ended.CompareAndSwap(false, true) {
			close(m.done)
		}
		return 0
	}

	m.frames.Add(int64(n))
	m.rate.Store(int64(rate))
	if m.pos != nil {
		m.position.Store(int64(m.pos.PositionSeconds() * float64(time.Second)))
	}
	return n
}

// Ended reports whether the module has run out of frames
func (m *Module) Ended() bool {
	return m.ended.Load()
}

// Done is closed when the module ends
func (m *Module) Done() <-chan struct{} {
	return m.done
}

// FramesRendered returns the total number of frames produced so far
func (m *Module) FramesRendered() int64 {
	return m.frames.Load()
}

// Position returns the song position after the last render. Sources that
// are not Positioners report the time rendered so far.
func (m *Module) Position() time.Duration {
	if m.pos != nil {
		return time.Duration(m.position.Load())
	}
	rate := m.rate.Load()
	if rate <= 0 {
		return 0
	}
	return time.Duration(m.frames.Load() * int64(time.Second) / rate)
}

// SetRepeatCount sets how many times the module repeats after the first
// pass; -1 loops forever. Call it before streaming starts.
func (m *Module) SetRepeatCount(count int) error {
	if m.closed.Load() {
		return openmpt.ErrClosed
	}
	r, ok := m.src.(Repeater)
	if !ok {
		return ErrRepeatUnsupported
	}
	return r.SetRepeatCount(count)
}

// Info returns the metadata read when the module was created
func (m *Module) Info() Info {
	return m.info
}

// Close releases the source. Later calls return the first result.
func (m *Module) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		m.closeErr = m.src.Close()
	})
	return m.closeErr
}
