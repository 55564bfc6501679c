// ABOUTME: io.Reader adapter over a render callback
// ABOUTME: Lets pull-model players consume float32 blocks as little-endian bytes
package output

import (
	"io"
	"sync/atomic"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
)

// renderReader turns RenderFunc blocks into a byte stream. Buffers are
// allocated once and Read never blocks. Once render reports zero frames the
// silent block it filled is still delivered, then Read returns io.EOF.
type renderReader struct {
	render  RenderFunc
	samples []float32
	encoded []byte
	pending []byte
	ended   atomic.Bool
}

// newRenderReader sizes its buffers for frames of cfg, which must be F32
func newRenderReader(render RenderFunc, cfg audio.StreamConfig, frames int) *renderReader {
	return &renderReader{
		render:  render,
		samples: make([]float32, frames*cfg.Channels),
		encoded: make([]byte, frames*cfg.FrameSize()),
	}
}

func (r *renderReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) == 0 {
			if r.ended.Load() {
				return n, io.EOF
			}
			if r.render(r.samples) == 0 {
				r.ended.Store(true)
			}
			audio.PutFloat32LE(r.encoded, r.samples)
			r.pending = r.encoded
		}
		c := copy(p[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}
	return n, nil
}

// Ended reports whether the source has run out
func (r *renderReader) Ended() bool {
	return r.ended.Load()
}
