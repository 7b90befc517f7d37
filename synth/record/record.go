// Package record implements the phrase recorder: a fixed five-second
// capture of the final mixed signal, replayed as a 50/50 blend with the
// live output. One control key cycles the recorder through its states.
package record

import (
	"fmt"
)

// DefaultCapacity is five seconds at the 22,050 Hz engine rate.
const DefaultCapacity = 110250

// State is the recorder's position in its capture/replay cycle.
type State int

// Recorder states. Ready is the idle-with-recording state between a
// capture and its replay.
const (
	Idle State = iota
	Recording
	Ready
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Recorder captures the mixed output into a fixed buffer and replays it
// mixed 50/50 with the live signal. The buffer fills once per capture;
// hitting capacity force-stops the recording and marks it ready.
type Recorder struct {
	buf    []int16
	length int // valid samples in buf
	pos    int // replay cursor
	state  State
	loop   bool
}

// NewRecorder allocates a recorder holding capacity samples.
func NewRecorder(capacity int) (*Recorder, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("record: capacity must be positive, got %d", capacity)
	}
	return &Recorder{buf: make([]int16, capacity)}, nil
}

// State returns the recorder's current state.
func (r *Recorder) State() State { return r.state }

// HasRecording reports whether a captured phrase is available.
func (r *Recorder) HasRecording() bool { return r.length > 0 }

// Length returns the number of captured samples.
func (r *Recorder) Length() int { return r.length }

// Capacity returns the capture buffer size in samples.
func (r *Recorder) Capacity() int { return len(r.buf) }

// SetLoop controls whether replay restarts at the end of the phrase.
func (r *Recorder) SetLoop(loop bool) { r.loop = loop }

// Loop reports whether replay loops.
func (r *Recorder) Loop() bool { return r.loop }

// Advance is the one-key state cycle: Idle starts a capture, Recording
// stops it, Ready starts replay, Playing stops back to Ready.
func (r *Recorder) Advance() {
	switch r.state {
	case Idle:
		r.length = 0
		r.state = Recording
	case Recording:
		if r.length > 0 {
			r.state = Ready
		} else {
			r.state = Idle
		}
	case Ready:
		r.pos = 0
		r.state = Playing
	case Playing:
		r.state = Ready
	}
}

// Clear drops the captured phrase and returns to Idle.
func (r *Recorder) Clear() {
	r.state = Idle
	r.length = 0
	r.pos = 0
}

// Process passes one sample of the final mix through the recorder. While
// recording it captures the sample, force-stopping at capacity; while
// playing it returns the live sample blended 50/50 with the phrase. In
// every other state the live sample passes through untouched.
func (r *Recorder) Process(live int16) int16 {
	switch r.state {
	case Recording:
		r.buf[r.length] = live
		r.length++
		if r.length >= len(r.buf) {
			r.state = Ready
		}
		return live

	case Playing:
		rec := r.buf[r.pos]
		r.pos++
		if r.pos >= r.length {
			r.pos = 0
			if !r.loop {
				r.state = Ready
			}
		}
		return int16((int32(live) + int32(rec)) / 2)

	default:
		return live
	}
}
