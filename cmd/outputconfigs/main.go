// ABOUTME: Output device capability listing
// ABOUTME: Prints the supported config ranges of the default device and the negotiated pick
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/crumblingstatue/openmpt-go/pkg/audio"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/output"
)

func main() {
	backend := flag.String("backend", "malgo", "Audio output backend (malgo, oto, portaudio)")
	flag.Parse()

	dev, err := output.New(*backend)
	if err != nil {
		log.Fatalf("Failed to open output device: %v", err)
	}
	defer dev.Close()

	ranges, err := dev.SupportedOutputConfigs()
	if err != nil {
		log.Printf("Failed to query output configs: %v", err)
		return
	}

	fmt.Printf("Device: %s\n\n", dev.Name())

	w := new(tabwriter.Writer)
	w.Init(os.Stdout, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "#\tchannels\tformat\tmin rate\tmax rate\tusable")
	for i, r := range ranges {
		usable := ""
		if output.Matches(r) {
			usable = "yes"
			if !r.SupportsRate(audio.OutputSampleRate) {
				usable = "yes (48000Hz below range)"
			}
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\t%s\n", i, r.Channels, r.SampleFormat, r.MinSampleRate, r.MaxSampleRate, usable)
	}
	w.Flush()

	cfg, err := output.SelectOutputConfig(ranges)
	switch {
	case errors.Is(err, output.ErrNoMatch):
		fmt.Println("\nOutput device doesn't support desired parameters")
	case err != nil:
		log.Printf("Negotiation failed: %v", err)
	default:
		fmt.Printf("\nSelected: %s\n", cfg)
	}
}
