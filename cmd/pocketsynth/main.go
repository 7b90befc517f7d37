// Command pocketsynth runs the synth engine against the default audio
// device with a terminal front panel standing in for the hardware knobs,
// keys and buttons.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-synth/audioio"
	"github.com/cwbudde/algo-synth/synth/engine"
)

func main() {
	rate := flag.Int("rate", engine.DefaultSampleRate, "sample rate in Hz")
	echoMs := flag.Int("echo-buffer", 1000, "echo line capacity in ms")
	useMIDI := flag.Bool("midi", false, "accept note input from the first MIDI port")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(*rate, *echoMs, *useMIDI, log); err != nil {
		fmt.Fprintln(os.Stderr, "pocketsynth:", err)
		os.Exit(1)
	}
}

func run(rate, echoMs int, useMIDI bool, log *slog.Logger) error {
	params := engine.NewParams()
	eng, err := engine.New(params, engine.Config{
		SampleRate:   float64(rate),
		EchoCapacity: rate * echoMs / 1000,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	out, err := audioio.NewOutput(rate)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.Start(eng); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan engine.Event, 64)
	ctrl := engine.NewController(params)
	go ctrl.Run(ctx, events)

	if useMIDI {
		stop, err := listenMIDI(events, log)
		if err != nil {
			log.Warn("midi input unavailable", "err", err)
		} else {
			defer stop()
		}
	}

	m := newModel(eng, events)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
