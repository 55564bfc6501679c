// ABOUTME: Playback state machine values
// ABOUTME: Names the states a Player moves through
package modplay

import "fmt"

// State is a playback state
type State int

const (
	StateIdle State = iota
	StateDecodingCreated
	StateDeviceNegotiated
	StateStreaming
	StateFinished
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDecodingCreated:
		return "decoding-created"
	case StateDeviceNegotiated:
		return "device-negotiated"
	case StateStreaming:
		return "streaming"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s == StateFinished || s == StateFailed || s == StateStopped
}
