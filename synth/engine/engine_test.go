package engine

import (
	"sync"
	"testing"

	"github.com/cwbudde/algo-synth/synth/analyze"
	"github.com/cwbudde/algo-synth/synth/record"
	"github.com/cwbudde/algo-synth/synth/seq"
	"github.com/cwbudde/algo-synth/synth/trig"
	"github.com/cwbudde/algo-synth/synth/voice"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(NewParams(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected error for nil params")
	}
}

func TestBootDegradation(t *testing.T) {
	e, err := New(NewParams(), Config{RecordCapacity: -1, ReverseCapacity: -1})
	if err != nil {
		t.Fatalf("degraded boot must not fail: %v", err)
	}
	if e.RecorderEnabled() || e.ReverseEnabled() {
		t.Fatal("failed buffers still report enabled")
	}
	// The rest of the synth keeps playing.
	e.Params().SetButton(true)
	var energy float64
	for i := 0; i < 22050; i++ {
		s := e.Tick()
		energy += float64(s) * float64(s)
	}
	if energy == 0 {
		t.Fatal("degraded engine is silent")
	}
}

func TestSilentUntilTriggered(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 2000; i++ {
		if s := e.Tick(); s != 0 {
			t.Fatalf("sample %d with no trigger", s)
		}
	}
}

// Siren in its first mode at the power-up defaults: one second of
// triggered output has real energy, and it concentrates inside the
// 440 Hz +/- depth*400 Hz sweep band.
func TestEndToEndSirenSweep(t *testing.T) {
	e := newTestEngine(t)
	e.Params().SetButton(true)

	out := make([]int16, 22050)
	e.Render(out)

	if rms := analyze.RMS(out); rms < 100 {
		t.Fatalf("rms %f, expected a loud signal", rms)
	}

	sp, err := analyze.NewSpectrum(4096, DefaultSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	block := out[len(out)-4096:]
	dom, err := sp.DominantFrequency(block)
	if err != nil {
		t.Fatal(err)
	}
	// Sweep band is 240..640 Hz; allow one bin of slack.
	if dom < 240-sp.BinWidth() || dom > 640+sp.BinWidth() {
		t.Fatalf("dominant frequency %f Hz outside the sweep band", dom)
	}
	frac, err := sp.BandEnergy(block, 200, 700)
	if err != nil {
		t.Fatal(err)
	}
	if frac < 0.4 {
		t.Fatalf("only %f of the energy inside the sweep band", frac)
	}
}

func TestKeyboardQuantizesToScale(t *testing.T) {
	e := newTestEngine(t)
	p := e.Params()
	p.SetKey(0, true)

	out := make([]int16, 22050)
	e.Render(out)

	sp, err := analyze.NewSpectrum(4096, DefaultSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	dom, err := sp.DominantFrequency(out[len(out)-4096:])
	if err != nil {
		t.Fatal(err)
	}
	// Key 0 plays the root, 440 Hz at the default pitch knob; the LFO
	// sweep widens the band.
	if dom < 200 || dom > 700 {
		t.Fatalf("dominant frequency %f Hz, expected near the 440 Hz root", dom)
	}
}

func TestInstrumentSwitchTakesEffect(t *testing.T) {
	e := newTestEngine(t)
	p := e.Params()
	p.SetButton(true)

	for _, inst := range []int{InstrumentRayGun, InstrumentLead, InstrumentDisco, InstrumentSiren} {
		p.SetInstrument(inst)
		var energy float64
		for i := 0; i < 22050; i++ {
			s := e.Tick()
			energy += float64(s) * float64(s)
		}
		if energy == 0 {
			t.Fatalf("instrument %d silent after switch", inst)
		}
	}
}

func TestSequencerFunctionPlays(t *testing.T) {
	e := newTestEngine(t)
	p := e.Params()
	p.SetFunction(int(trig.FuncSequencer))
	p.SetStepInterval(500)
	p.SetSequencerRunning(true)

	var energy float64
	steps := map[int]bool{}
	for i := 0; i < 8000; i++ {
		s := e.Tick()
		energy += float64(s) * float64(s)
		steps[int(e.seqStep.Load())] = true
	}
	if energy == 0 {
		t.Fatal("sequencer silent")
	}
	if len(steps) < seq.StepCount {
		t.Fatalf("only %d distinct steps seen", len(steps))
	}
}

// Two sync pulses 2000 ticks apart set the sequencer tempo; the tapped
// interval keeps driving steps after the pulses stop, until the sync
// input times out.
func TestSyncTapSetsSequencerTempo(t *testing.T) {
	e := newTestEngine(t)
	p := e.Params()
	p.SetFunction(int(trig.FuncSequencer))
	p.SetStepInterval(22050) // one second per step from the knob
	p.SetSequencerRunning(true)

	p.PulseSync()
	e.Tick()
	for i := 0; i < 1999; i++ {
		e.Tick()
	}
	p.PulseSync()
	e.Tick()

	prev := int(e.seqStep.Load())
	transitions := 0
	for i := 0; i < 6500; i++ {
		e.Tick()
		if cur := int(e.seqStep.Load()); cur != prev {
			transitions++
			prev = cur
		}
	}
	if transitions < 3 {
		t.Fatalf("%d step transitions in 6500 ticks, tap tempo not followed", transitions)
	}
}

func TestSyncTapIgnoresLoneFirstPulse(t *testing.T) {
	e := newTestEngine(t)
	p := e.Params()
	p.SetFunction(int(trig.FuncSequencer))
	p.SetStepInterval(22050)
	p.SetSequencerRunning(true)

	// One second of silence, then a single pulse. The pre-pulse gap must
	// not read as a tempo.
	for i := 0; i < 22050; i++ {
		e.Tick()
	}
	p.PulseSync()
	e.Tick()
	if e.tapInterval != 0 {
		t.Fatalf("lone pulse tapped interval %d", e.tapInterval)
	}
}

func TestRecorderCycleFromControlSide(t *testing.T) {
	e := newTestEngine(t)
	p := e.Params()

	p.PressRecorder()
	e.Tick()
	if got := record.State(e.recState.Load()); got != record.Recording {
		t.Fatalf("got %v want recording", got)
	}

	p.SetButton(true)
	for i := 0; i < 1000; i++ {
		e.Tick()
	}
	p.PressRecorder()
	e.Tick()
	if got := record.State(e.recState.Load()); got != record.Ready {
		t.Fatalf("got %v want ready", got)
	}
}

func TestSnapshotReflectsParams(t *testing.T) {
	e := newTestEngine(t)
	p := e.Params()
	p.SetInstrument(InstrumentDisco)
	p.SetMode(2)
	p.SetKnob(voice.KnobDepth, 0.25)
	p.ToggleStep(3)
	p.SetButton(true)
	e.Tick()

	s := e.Snapshot()
	if s.Instrument != InstrumentDisco || s.Mode != 2 {
		t.Fatalf("snapshot instrument/mode: %d/%d", s.Instrument, s.Mode)
	}
	if s.Knobs[voice.KnobDepth] != 0.25 {
		t.Fatalf("snapshot knob: %f", s.Knobs[voice.KnobDepth])
	}
	if s.SeqSteps[3] {
		t.Fatal("toggled step still enabled in snapshot")
	}
	if !s.GateOpen {
		t.Fatal("gate not open in snapshot")
	}
	if s.KnobLabels != knobLabels[InstrumentDisco] {
		t.Fatalf("knob labels %v for disco", s.KnobLabels)
	}
}

func TestControllerRoutesEvents(t *testing.T) {
	p := NewParams()
	c := NewController(p)
	ms := int64(0)
	c.now = func() int64 { return ms }

	c.Apply(Event{Kind: EventKnob, Index: voice.KnobPitch, Value: 0.5})
	if p.Knob(voice.KnobPitch) != 0.5 {
		t.Fatal("knob event not applied")
	}

	c.Apply(Event{Kind: EventKeyDown, Index: 2})
	if p.Keys()&(1<<2) == 0 {
		t.Fatal("key event not applied")
	}
	c.Apply(Event{Kind: EventKeyUp, Index: 2})
	if p.Keys() != 0 {
		t.Fatal("key release not applied")
	}

	// Shift+key enters a function and swallows the key.
	c.Apply(Event{Kind: EventShiftDown})
	c.Apply(Event{Kind: EventKeyDown, Index: 0})
	ms = 100
	c.Apply(Event{Kind: EventShiftUp})
	if trig.Function(p.Function()) != trig.FuncSequencer {
		t.Fatalf("got function %d", p.Function())
	}
	if p.Keys() != 0 {
		t.Fatal("chorded key leaked into the keyboard mask")
	}

	// Double press exits.
	ms = 5000
	c.Apply(Event{Kind: EventShiftDown})
	ms = 5050
	c.Apply(Event{Kind: EventShiftUp})
	ms = 5300
	c.Apply(Event{Kind: EventShiftDown})
	if trig.Function(p.Function()) != trig.FuncNone {
		t.Fatalf("double press left function %d active", p.Function())
	}
}

// The control task hammers every parameter while the audio task renders.
// Run with -race: the parameter block must stay tear-free without locks.
func TestConcurrentControlAndAudio(t *testing.T) {
	e := newTestEngine(t)
	p := e.Params()

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		for {
			select {
			case <-done:
				return
			default:
			}
			p.SetKnob(i%voice.KnobCount, float64(i%100)/100)
			p.SetKey(i%KeyCount, i%2 == 0)
			p.SetInstrument(i % InstrumentCount)
			p.SetMode(i)
			p.SetButton(i%3 == 0)
			p.SetTier(i % 4)
			p.SetEchoDelay(i % 5000)
			p.PulseSync()
			i++
		}
	}()

	for i := 0; i < 44100; i++ {
		e.Tick()
	}
	close(done)
	wg.Wait()
}
