// ABOUTME: Module metadata inspector
// ABOUTME: Prints what libopenmpt reports about a module without playing it
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/crumblingstatue/openmpt-go/pkg/openmpt"
)

var (
	formats = flag.Bool("formats", false, "Print libopenmpt version and supported extensions, then exit")
	allKeys = flag.Bool("all", false, "Print every metadata key the module reports")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: modinfo [flags] <module file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *formats {
		fmt.Printf("libopenmpt %s\n", openmpt.LibraryVersion())
		fmt.Println(strings.Join(openmpt.SupportedExtensions(), " "))
		return
	}

	path := flag.Arg(0)
	if path == "" {
		log.Fatal("Need path to module file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read module file: %v", err)
	}

	mod, err := openmpt.CreateFromMemory(data, func(msg string) {
		log.Printf("openmpt: %s", msg)
	})
	if err != nil {
		log.Fatalf("Failed to create module: %v", err)
	}
	defer mod.Close()

	w := new(tabwriter.Writer)
	w.Init(os.Stdout, 0, 8, 1, '\t', 0)

	keys := []string{
		openmpt.KeyTitle,
		openmpt.KeyArtist,
		openmpt.KeyTypeLong,
		openmpt.KeyTracker,
		openmpt.KeyDate,
	}
	if *allKeys {
		keys = mod.MetadataKeys()
	}
	for _, key := range keys {
		if key == openmpt.KeyMessage {
			continue
		}
		fmt.Fprintf(w, "%s:\t%s\n", key, mod.Metadata(key))
	}

	duration := time.Duration(mod.DurationSeconds() * float64(time.Second))
	fmt.Fprintf(w, "duration:\t%s\n", duration.Round(time.Millisecond))
	fmt.Fprintf(w, "channels:\t%d\n", mod.NumChannels())
	fmt.Fprintf(w, "subsongs:\t%d\n", mod.NumSubsongs())
	fmt.Fprintf(w, "patterns:\t%d\n", mod.NumPatterns())
	fmt.Fprintf(w, "orders:\t%d\n", mod.NumOrders())
	fmt.Fprintf(w, "instruments:\t%d\n", mod.NumInstruments())
	fmt.Fprintf(w, "samples:\t%d\n", mod.NumSamples())
	w.Flush()

	if msg := mod.Metadata(openmpt.KeyMessage); msg != "" {
		fmt.Printf("\n%s\n", msg)
	}
	if warnings := mod.Metadata(openmpt.KeyWarnings); warnings != "" {
		fmt.Fprintf(os.Stderr, "\nwarnings:\n%s\n", warnings)
	}
}
