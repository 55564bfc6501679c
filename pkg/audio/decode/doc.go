// ABOUTME: Module decoding package
// ABOUTME: Wraps a native module decoder with end-of-stream tracking
// Package decode turns tracker module bytes into interleaved stereo float32 PCM.
//
// A Module owns one decoder Source and tracks when it runs dry. The first
// render that yields no frames marks the end of the stream; from then on
// Render keeps returning silence and Done stays closed.
//
// Example:
//
//	mod, err := decode.NewModule(data, decode.OpenMPT, nil)
//	defer mod.Close()
//	buf := make([]float32, 2*1024)
//	for mod.Render(48000, buf) > 0 {
//	    // consume buf
//	}
package decode
