// ABOUTME: Metadata keys and string helpers for libopenmpt
// ABOUTME: Shared by the native binding and the cgo-less stub
package openmpt

import (
	"log"
	"strings"
)

// Metadata keys understood by Module.Metadata
const (
	KeyType         = "type"
	KeyTypeLong     = "type_long"
	KeyContainer    = "container"
	KeyTracker      = "tracker"
	KeyArtist       = "artist"
	KeyTitle        = "title"
	KeyDate         = "date"
	KeyMessage      = "message"
	KeyWarnings     = "warnings"
	KeyOriginalType = "originaltype"
)

// splitList splits libopenmpt's semicolon separated lists
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultLog(msg string) {
	log.Printf("openmpt: %s", strings.TrimRight(msg, "\n"))
}
