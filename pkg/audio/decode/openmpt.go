// ABOUTME: libopenmpt-backed decoder source
// ABOUTME: Default OpenFunc used by players and examples
package decode

import (
	"github.com/crumblingstatue/openmpt-go/pkg/openmpt"
)

// OpenMPT parses data with libopenmpt
func OpenMPT(data []byte, logf func(string)) (Source, error) {
	mod, err := openmpt.CreateFromMemory(data, logf)
	if err != nil {
		return nil, err
	}
	return mod, nil
}
