package trig

import (
	"fmt"
)

// Function names a modal special function. Exactly one can be active at a
// time; entering a new one silently exits the previous.
type Function int

// Special functions, indexed by the key chorded with the function shift.
const (
	FuncNone Function = iota
	FuncSequencer
	FuncRecorder
	FuncReverse
	FuncHold
	FuncLFO2
	FuncDrone
	FuncSidechain
	FuncLoop

	functionCount
)

var functionNames = [functionCount]string{
	"none", "sequencer", "recorder", "reverse", "hold",
	"lfo2", "drone", "sidechain", "loop",
}

func (f Function) String() string {
	if f < 0 || f >= functionCount {
		return fmt.Sprintf("function(%d)", int(f))
	}
	return functionNames[f]
}

// A double press of the shift control within this window exits the active
// function.
const doublePressMs = 500

// Sentinel meaning "no prior press arms the double-press window".
const noPress = int64(-1) << 62

// Selector is the special-function state machine. Holding the function
// shift and pressing a key enters that key's function; double-pressing
// the shift on its own within half a second exits back to the plain
// instrument. Runs on the control task, so it is clocked in wall
// milliseconds rather than sample ticks.
type Selector struct {
	active Function

	shiftDown   bool
	chorded     bool  // a key was consumed during the current shift hold
	lastPressMs int64 // previous shift press that ended without a chord
}

// NewSelector returns a selector with no function active.
func NewSelector() *Selector {
	return &Selector{lastPressMs: noPress}
}

// Active returns the current modal function.
func (s *Selector) Active() Function { return s.active }

// IsActive reports whether the given function is the active one.
func (s *Selector) IsActive(f Function) bool { return s.active == f }

// ShiftDown reports whether the function shift is currently held.
func (s *Selector) ShiftDown() bool { return s.shiftDown }

// PressShift records a function-shift press at nowMs. Returns true when
// this press completed a double press and exited the active function.
func (s *Selector) PressShift(nowMs int64) bool {
	s.shiftDown = true
	s.chorded = false

	if s.active != FuncNone && nowMs-s.lastPressMs <= doublePressMs {
		s.active = FuncNone
		s.lastPressMs = noPress
		return true
	}
	return false
}

// ReleaseShift records the shift release. A hold that chorded a key does
// not arm the double-press window.
func (s *Selector) ReleaseShift(nowMs int64) {
	s.shiftDown = false
	if !s.chorded {
		s.lastPressMs = nowMs
	} else {
		s.lastPressMs = noPress
	}
}

// PressKey offers a key press to the selector. While the shift is held
// the key is consumed as a function chord (keys 0-7 map onto the eight
// functions) and true is returned; otherwise the key is the caller's to
// play and false is returned.
func (s *Selector) PressKey(key int) bool {
	if !s.shiftDown {
		return false
	}
	if key < 0 || key >= int(functionCount)-1 {
		return true // consumed, but no such function
	}
	s.chorded = true
	s.active = Function(key + 1)
	return true
}

// Exit deactivates whatever function is active.
func (s *Selector) Exit() { s.active = FuncNone }

// Reset returns the selector to power-up state.
func (s *Selector) Reset() {
	s.active = FuncNone
	s.shiftDown = false
	s.chorded = false
	s.lastPressMs = noPress
}
