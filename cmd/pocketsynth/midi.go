package main

import (
	"fmt"
	"log/slog"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver

	"github.com/cwbudde/algo-synth/synth/engine"
)

// listenMIDI maps note on/off from the first MIDI input port onto the
// eight-key keyboard. Notes fold onto the keys by semitone, so any octave
// of a connected keyboard plays.
func listenMIDI(events chan<- engine.Event, log *slog.Logger) (func(), error) {
	ins := gomidi.GetInPorts()
	if len(ins) == 0 {
		return nil, fmt.Errorf("no MIDI input ports")
	}
	port := ins[0]
	log.Info("midi input", "port", port.String())

	stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
		var channel, note, velocity uint8
		switch {
		case msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0:
			push(events, engine.Event{Kind: engine.EventKeyDown, Index: int(note) % engine.KeyCount})
		case msg.GetNoteOff(&channel, &note, &velocity),
			msg.GetNoteOn(&channel, &note, &velocity): // velocity 0 note-on
			push(events, engine.Event{Kind: engine.EventKeyUp, Index: int(note) % engine.KeyCount})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("midi listen: %w", err)
	}
	return func() {
		stop()
		gomidi.CloseDriver()
	}, nil
}

// push drops events rather than blocking the MIDI callback.
func push(events chan<- engine.Event, ev engine.Event) {
	select {
	case events <- ev:
	default:
	}
}
