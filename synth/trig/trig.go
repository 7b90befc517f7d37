package trig

import (
	"fmt"
)

// Source identifies which input currently owns the gate.
type Source int

// Gate sources in priority order, highest first.
const (
	SourceNone Source = iota
	SourceKeyboard
	SourceButton
	SourceSync
)

func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceKeyboard:
		return "keyboard"
	case SourceButton:
		return "button"
	case SourceSync:
		return "sync"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// SyncGatePresets are the selectable sync gate durations in milliseconds.
var SyncGatePresets = [4]int{50, 125, 250, 500}

// External sync counts as disconnected after this long without a pulse.
const syncTimeoutMs = 2000

// Arbiter merges the keyboard, the trigger button and the external sync
// line into one gate by fixed priority. Holds gate directly; sync pulses
// start a timed gate that auto-closes after the selected preset.
type Arbiter struct {
	sampleRate float64

	source   Source
	gate     bool
	edge     bool
	age      int
	syncLeft int // remaining ticks on the timed sync gate

	syncPreset int
	sinceSync  int // ticks since the last sync pulse, capped at the timeout
}

// NewArbiter returns an arbiter with the gate closed and the shortest
// sync gate preset selected.
func NewArbiter(sampleRate float64) (*Arbiter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("trig: sample rate must be positive, got %f", sampleRate)
	}
	return &Arbiter{
		sampleRate: sampleRate,
		sinceSync:  timeoutTicks(sampleRate),
	}, nil
}

func timeoutTicks(sampleRate float64) int {
	return int(sampleRate * syncTimeoutMs / 1000)
}

// SetSyncGatePreset selects a sync gate duration, wrapped onto the preset
// table.
func (a *Arbiter) SetSyncGatePreset(i int) {
	n := len(SyncGatePresets)
	i %= n
	if i < 0 {
		i += n
	}
	a.syncPreset = i
}

// SyncGatePreset returns the selected preset index.
func (a *Arbiter) SyncGatePreset() int { return a.syncPreset }

// SyncGateMs returns the selected sync gate duration in milliseconds.
func (a *Arbiter) SyncGateMs() int { return SyncGatePresets[a.syncPreset] }

// Tick advances the arbiter by one sample period with the current input
// states. keyHeld and buttonHeld are level signals; syncEdge is true only
// on the tick a sync pulse arrives.
func (a *Arbiter) Tick(keyHeld, buttonHeld, syncEdge bool) {
	if syncEdge {
		a.sinceSync = 0
		a.syncLeft = int(a.sampleRate * float64(a.SyncGateMs()) / 1000)
	} else {
		if a.sinceSync < timeoutTicks(a.sampleRate) {
			a.sinceSync++
		}
		if a.syncLeft > 0 {
			a.syncLeft--
		}
	}

	prev := a.gate
	switch {
	case keyHeld:
		a.source = SourceKeyboard
		a.gate = true
	case buttonHeld:
		a.source = SourceButton
		a.gate = true
	case a.syncLeft > 0:
		a.source = SourceSync
		a.gate = true
	default:
		a.source = SourceNone
		a.gate = false
	}

	a.edge = a.gate && !prev
	if a.edge {
		a.age = 0
	} else if a.gate {
		a.age++
	}
}

// Gate reports whether the output gate is open.
func (a *Arbiter) Gate() bool { return a.gate }

// Source returns the input currently owning the gate.
func (a *Arbiter) Source() Source { return a.source }

// TriggerEdge reports whether the gate opened on the last Tick. Mutation
// and envelope retriggers key off this edge.
func (a *Arbiter) TriggerEdge() bool { return a.edge }

// TriggerAge returns the number of ticks since the gate last opened.
func (a *Arbiter) TriggerAge() int { return a.age }

// SyncConnected reports whether a sync pulse arrived within the last two
// seconds; past that the line counts as unplugged and internal timing
// takes over.
func (a *Arbiter) SyncConnected() bool {
	return a.sinceSync < timeoutTicks(a.sampleRate)
}

// Reset closes the gate and forgets all sync activity.
func (a *Arbiter) Reset() {
	a.source = SourceNone
	a.gate = false
	a.edge = false
	a.age = 0
	a.syncLeft = 0
	a.sinceSync = timeoutTicks(a.sampleRate)
}
