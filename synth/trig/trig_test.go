package trig

import (
	"testing"
)

const testRate = 22050.0

// --- arbitration priority ---

func TestPriorityKeyboardOverButtonOverSync(t *testing.T) {
	a, err := NewArbiter(testRate)
	if err != nil {
		t.Fatal(err)
	}

	a.Tick(true, true, true)
	if a.Source() != SourceKeyboard {
		t.Fatalf("got %v, want keyboard", a.Source())
	}
	a.Tick(false, true, false)
	if a.Source() != SourceButton {
		t.Fatalf("got %v, want button", a.Source())
	}
	a.Tick(false, false, false) // sync gate from the first tick still runs
	if a.Source() != SourceSync {
		t.Fatalf("got %v, want sync", a.Source())
	}
}

func TestNewArbiterValidation(t *testing.T) {
	if _, err := NewArbiter(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewArbiter(-22050); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

// --- gate behavior ---

func TestHoldGatesDirectly(t *testing.T) {
	a, err := NewArbiter(testRate)
	if err != nil {
		t.Fatal(err)
	}

	a.Tick(true, false, false)
	if !a.Gate() || !a.TriggerEdge() {
		t.Fatal("key press did not open the gate with an edge")
	}
	a.Tick(true, false, false)
	if a.TriggerEdge() {
		t.Fatal("edge persisted past the opening tick")
	}
	if a.TriggerAge() != 1 {
		t.Fatalf("got age %d want 1", a.TriggerAge())
	}

	a.Tick(false, false, false)
	if a.Gate() {
		t.Fatal("gate stayed open after key release")
	}
}

func TestSyncGateAutoCloses(t *testing.T) {
	a, err := NewArbiter(testRate)
	if err != nil {
		t.Fatal(err)
	}
	a.SetSyncGatePreset(0) // 50 ms

	a.Tick(false, false, true)
	if !a.Gate() || a.Source() != SourceSync {
		t.Fatal("sync pulse did not open the gate")
	}

	rate := float64(testRate)
	gateTicks := int(rate * 50 / 1000)
	for i := 0; i < gateTicks-1; i++ {
		a.Tick(false, false, false)
		if !a.Gate() {
			t.Fatalf("sync gate closed early at tick %d of %d", i+1, gateTicks)
		}
	}
	a.Tick(false, false, false)
	if a.Gate() {
		t.Fatal("sync gate still open past the preset duration")
	}
}

func TestSyncGatePresetsSelectable(t *testing.T) {
	a, err := NewArbiter(testRate)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range SyncGatePresets {
		a.SetSyncGatePreset(i)
		if got := a.SyncGateMs(); got != want {
			t.Fatalf("preset %d: got %d ms want %d ms", i, got, want)
		}
	}
	a.SetSyncGatePreset(-1)
	if a.SyncGatePreset() != len(SyncGatePresets)-1 {
		t.Fatalf("negative preset not wrapped: %d", a.SyncGatePreset())
	}
	a.SetSyncGatePreset(len(SyncGatePresets))
	if a.SyncGatePreset() != 0 {
		t.Fatalf("overflow preset not wrapped: %d", a.SyncGatePreset())
	}
}

func TestKeyReleaseFallsBackToRunningSyncGate(t *testing.T) {
	a, err := NewArbiter(testRate)
	if err != nil {
		t.Fatal(err)
	}
	a.SetSyncGatePreset(3) // 500 ms

	a.Tick(true, false, true) // key wins, sync gate starts anyway
	a.Tick(false, false, false)
	if !a.Gate() || a.Source() != SourceSync {
		t.Fatalf("expected sync gate after key release, got %v gate=%v", a.Source(), a.Gate())
	}
	// Releasing into a running gate is not a fresh trigger.
	if a.TriggerEdge() {
		t.Fatal("source handoff produced a spurious edge")
	}
}

// --- sync activity timeout ---

func TestSyncTimeout(t *testing.T) {
	a, err := NewArbiter(1000) // 1 kHz keeps the timeout at 2000 ticks
	if err != nil {
		t.Fatal(err)
	}
	if a.SyncConnected() {
		t.Fatal("sync connected before any pulse")
	}

	a.Tick(false, false, true)
	if !a.SyncConnected() {
		t.Fatal("sync not connected right after a pulse")
	}

	for i := 0; i < 1999; i++ {
		a.Tick(false, false, false)
	}
	if !a.SyncConnected() {
		t.Fatal("sync timed out early")
	}
	a.Tick(false, false, false)
	if a.SyncConnected() {
		t.Fatal("sync still connected past the two-second timeout")
	}
}

func TestResetClosesEverything(t *testing.T) {
	a, err := NewArbiter(testRate)
	if err != nil {
		t.Fatal(err)
	}
	a.Tick(false, false, true)
	a.Reset()
	if a.Gate() || a.SyncConnected() || a.Source() != SourceNone {
		t.Fatal("reset left state behind")
	}
}

// --- special-function selector ---

func TestChordEntersFunction(t *testing.T) {
	s := NewSelector()

	s.PressShift(1000)
	if !s.PressKey(0) {
		t.Fatal("chorded key not consumed")
	}
	s.ReleaseShift(1100)

	if s.Active() != FuncSequencer {
		t.Fatalf("got %v, want sequencer", s.Active())
	}

	// Without the shift, keys are playable and do not switch functions.
	if s.PressKey(3) {
		t.Fatal("bare key press consumed by the selector")
	}
	if s.Active() != FuncSequencer {
		t.Fatalf("bare key changed the function to %v", s.Active())
	}
}

func TestChordReplacesActiveFunction(t *testing.T) {
	s := NewSelector()
	s.PressShift(0)
	s.PressKey(5)
	s.ReleaseShift(50)

	s.PressShift(2000)
	s.PressKey(1)
	s.ReleaseShift(2050)

	if s.Active() != FuncRecorder {
		t.Fatalf("got %v, want recorder", s.Active())
	}
}

func TestDoublePressExits(t *testing.T) {
	s := NewSelector()
	s.PressShift(0)
	s.PressKey(2)
	s.ReleaseShift(100)
	if s.Active() != FuncReverse {
		t.Fatalf("got %v", s.Active())
	}

	s.PressShift(5000)
	s.ReleaseShift(5050)
	if s.Active() == FuncNone {
		t.Fatal("single press exited the function")
	}
	if exited := s.PressShift(5300); !exited {
		t.Fatal("double press within the window did not exit")
	}
	s.ReleaseShift(5350)
	if s.Active() != FuncNone {
		t.Fatalf("still active: %v", s.Active())
	}
}

func TestSlowDoublePressDoesNotExit(t *testing.T) {
	s := NewSelector()
	s.PressShift(0)
	s.PressKey(5)
	s.ReleaseShift(100)

	s.PressShift(5000)
	s.ReleaseShift(5050)
	if exited := s.PressShift(5700); exited {
		t.Fatal("press past the 500 ms window exited the function")
	}
	if s.Active() != FuncDrone {
		t.Fatalf("got %v, want drone", s.Active())
	}
}

func TestChordedHoldDoesNotArmDoublePress(t *testing.T) {
	s := NewSelector()
	s.PressShift(0)
	s.PressKey(4)
	s.ReleaseShift(100)

	// The chorded press must not pair with the next press as a double.
	if exited := s.PressShift(300); exited {
		t.Fatal("chorded press armed the double-press window")
	}
	if s.Active() != FuncLFO2 {
		t.Fatalf("got %v, want lfo2", s.Active())
	}
}

func TestOutOfRangeChordKeyConsumedHarmlessly(t *testing.T) {
	s := NewSelector()
	s.PressShift(0)
	if !s.PressKey(42) {
		t.Fatal("out-of-range key leaked through while shifted")
	}
	s.ReleaseShift(100)
	if s.Active() != FuncNone {
		t.Fatalf("phantom function activated: %v", s.Active())
	}
}
