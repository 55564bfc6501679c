// ABOUTME: Completion waiter for playback
// ABOUTME: Blocks until the decoder signals end-of-stream or the context ends
package modplay

import (
	"context"
	"time"
)

// DefaultPollInterval is how often Wait re-checks the end flag and reports progress
const DefaultPollInterval = 500 * time.Millisecond

// Signal is the end-of-stream notification a decoder exposes
type Signal interface {
	Ended() bool
	Done() <-chan struct{}
}

// Wait blocks until sig ends or ctx is cancelled. It wakes immediately when
// Done closes and also re-checks Ended every interval, calling tick (if
// non-nil) on each interval that passes without the stream ending.
func Wait(ctx context.Context, sig Signal, interval time.Duration, tick func()) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if sig.Ended() {
			return nil
		}

		select {
		case <-sig.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if tick != nil && !sig.Ended() {
				tick()
			}
		}
	}
}
