// ABOUTME: Entry point for the module player
// ABOUTME: Parses CLI flags, plays one tracker module and exits when it ends
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/crumblingstatue/openmpt-go/internal/ui"
	"github.com/crumblingstatue/openmpt-go/internal/version"
	"github.com/crumblingstatue/openmpt-go/pkg/audio"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/decode"
	"github.com/crumblingstatue/openmpt-go/pkg/audio/output"
	"github.com/crumblingstatue/openmpt-go/pkg/modplay"
)

var (
	backend     = flag.String("backend", "malgo", "Audio output backend (malgo, oto, portaudio)")
	logFile     = flag.String("log-file", "", "Log file path (default: stderr, or openmpt-play.log with -tui)")
	repeat      = flag.Int("repeat", 0, "Times to repeat the module after the first play (-1 loops forever)")
	useTUI      = flag.Bool("tui", false, "Show a status screen while playing")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <module file>\n", version.Product)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	path := flag.Arg(0)
	if path == "" {
		log.Fatal("Need path to module file")
	}

	logOut, err := openLog()
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}

	code := playFile(path)
	if logOut != nil {
		_ = logOut.Close()
	}
	os.Exit(code)
}

// openLog points the standard logger at -log-file. With -tui the terminal
// belongs to the status screen, so logs go only to the file.
func openLog() (*os.File, error) {
	if *logFile == "" && *useTUI {
		*logFile = version.Product + ".log"
	}
	if *logFile == "" {
		return nil, nil
	}

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	if *useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}
	return f, nil
}

// playFile plays the module at path and returns the process exit code
func playFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to read module file: %v", err)
		return 1
	}

	err = run(data)
	switch {
	case err == nil:
		log.Printf("Playback finished")
	case errors.Is(err, decode.ErrDecode):
		log.Printf("Decode failed: %v", err)
		fmt.Fprintln(os.Stderr, "Failed to create module. Exiting")
	case errors.Is(err, output.ErrNoMatch):
		fmt.Println("Output device doesn't support desired parameters")
	case errors.Is(err, context.Canceled):
		log.Printf("Playback interrupted")
	default:
		log.Printf("Playback failed: %v", err)
		return 1
	}
	return 0
}

// run plays data to completion; every resource it opens is released before it returns
func run(data []byte) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting %s", version.String())

	dev, err := output.New(*backend)
	if err != nil {
		return fmt.Errorf("failed to open output device: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Printf("Warning: failed to close output device: %v", err)
		}
	}()

	// TUI setup
	var tuiProg *tea.Program
	tuiDone := make(chan struct{})
	if *useTUI {
		controls := ui.NewControls()
		tuiProg, err = ui.Run(controls)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		go func() {
			defer close(tuiDone)
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
		go func() {
			select {
			case <-controls.Quit:
				stop()
			case <-ctx.Done():
			}
		}()
		defer func() {
			tuiProg.Quit()
			<-tuiDone
		}()
	}

	// Helper to update TUI
	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}
	updateTUI(ui.StatusMsg{Backend: dev.Name()})

	player, err := modplay.NewPlayer(modplay.Config{
		Device: dev,
		Repeat: *repeat,
		OnStateChange: func(state modplay.State) {
			log.Printf("State: %s", state)
			updateTUI(ui.StatusMsg{State: state.String()})
		},
		OnMetadata: func(info decode.Info) {
			log.Printf("Loaded %q (%s) by %q, %s", info.Title, info.TypeLong, info.Artist, info.Duration)
			updateTUI(ui.StatusMsg{
				Title:    info.Title,
				Artist:   info.Artist,
				Tracker:  info.Tracker,
				TypeLong: info.TypeLong,
				Message:  info.Message,
				Duration: info.Duration,
			})
		},
		OnStreamConfig: func(cfg audio.StreamConfig) {
			log.Printf("Negotiated output: %s on %s", cfg, dev.Name())
			updateTUI(ui.StatusMsg{
				SampleRate: cfg.SampleRate,
				Channels:   cfg.Channels,
				Format:     cfg.SampleFormat.String(),
			})
		},
		OnProgress: func(p modplay.Progress) {
			updateTUI(ui.StatusMsg{Frames: p.Frames, Position: p.Position})
		},
		OnError: func(err error) {
			updateTUI(ui.StatusMsg{Error: err.Error()})
		},
	})
	if err != nil {
		return err
	}

	return player.Play(ctx, data)
}
