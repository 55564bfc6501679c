// ABOUTME: High-level module playback API
// ABOUTME: Drives decode, device negotiation, streaming and completion
// Package modplay plays one tracker module on an output device.
//
// Player.Play walks the playback states in order:
//
//	Idle → DecodingCreated → DeviceNegotiated → Streaming → Finished
//
// Any setup failure ends in Failed; cancelling the context ends in Stopped.
// The stream and decoder are released before Play returns on every path.
//
// Example:
//
//	dev, err := output.New("malgo")
//	player, err := modplay.NewPlayer(modplay.Config{Device: dev})
//	err = player.Play(ctx, data)
package modplay
