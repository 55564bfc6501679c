// ABOUTME: Output configuration negotiation
// ABOUTME: Picks the stereo float32 48kHz stream configuration from device ranges
package output

import (
	"errors"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
)

// ErrNoMatch is returned when no supported range fits the required parameters
var ErrNoMatch = errors.New("output device doesn't support desired parameters")

// Matches reports whether r can carry the stream modules are rendered with:
// stereo, float32 and a maximum rate of at least 48kHz
func Matches(r audio.ConfigRange) bool {
	return r.Channels == audio.OutputChannels &&
		r.SampleFormat == audio.FormatF32 &&
		r.MaxSampleRate >= audio.OutputSampleRate
}

// SelectOutputConfig returns the first matching range, fixed at exactly 48kHz
func SelectOutputConfig(ranges []audio.ConfigRange) (audio.StreamConfig, error) {
	for _, r := range ranges {
		if Matches(r) {
			return r.WithSampleRate(audio.OutputSampleRate), nil
		}
	}
	return audio.StreamConfig{}, ErrNoMatch
}
