package engine

import (
	"context"
	"time"

	"github.com/cwbudde/algo-synth/synth/record"
	"github.com/cwbudde/algo-synth/synth/seq"
	"github.com/cwbudde/algo-synth/synth/trig"
	"github.com/cwbudde/algo-synth/synth/voice"
)

// EventKind discriminates control events.
type EventKind int

// Control events, produced by whatever front panel drives the synth.
const (
	EventKnob EventKind = iota
	EventKeyDown
	EventKeyUp
	EventButtonDown
	EventButtonUp
	EventSyncPulse
	EventShiftDown
	EventShiftUp
	EventInstrument
	EventMode
	EventScale
	EventTier
	EventLFOShape
	EventEchoDelay
	EventReverseShift
	EventLFO2Rate
	EventLFO2Depth
	EventSeqToggleRun
	EventSeqToggleStep
	EventSeqStepFreq
	EventSeqOctave
	EventSeqTimbre
	EventRecorderKey
	EventRecorderLoop
	EventLoopPattern
	EventSyncPreset
	EventDrone
	EventExitFunction
)

// Event is one normalized front-panel input. Index and Value carry the
// kind-specific payload; continuous values are pre-normalized to [0, 1]
// by the input collaborator.
type Event struct {
	Kind  EventKind
	Index int
	Value float64
}

// Controller is the control task: it folds input events into the shared
// parameter block and runs the special-function selector. It never touches
// audio-owned state.
type Controller struct {
	params *Params
	sel    *trig.Selector
	now    func() int64 // wall clock in ms, swappable for tests
}

// NewController wires a controller to a parameter block.
func NewController(params *Params) *Controller {
	return &Controller{
		params: params,
		sel:    trig.NewSelector(),
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

// Selector exposes the special-function state machine.
func (c *Controller) Selector() *trig.Selector { return c.sel }

// Apply folds one event into the shared parameters.
func (c *Controller) Apply(ev Event) {
	p := c.params
	switch ev.Kind {
	case EventKnob:
		p.SetKnob(ev.Index, ev.Value)

	case EventKeyDown:
		if c.sel.PressKey(ev.Index) {
			p.SetFunction(int(c.sel.Active()))
			return
		}
		p.SetKey(ev.Index, true)

	case EventKeyUp:
		p.SetKey(ev.Index, false)

	case EventButtonDown:
		p.SetButton(true)
	case EventButtonUp:
		p.SetButton(false)
	case EventSyncPulse:
		p.PulseSync()

	case EventShiftDown:
		if c.sel.PressShift(c.now()) {
			p.SetFunction(int(trig.FuncNone))
		}
	case EventShiftUp:
		c.sel.ReleaseShift(c.now())

	case EventInstrument:
		p.SetInstrument(ev.Index)
	case EventMode:
		p.SetMode(ev.Index)
	case EventScale:
		p.SetScale(ev.Index)
	case EventTier:
		p.SetTier(ev.Index)
	case EventLFOShape:
		p.SetLFOShape(ev.Index)
	case EventLFO2Rate:
		p.SetLFO2(ev.Value, loadFloat(&p.lfo2Depth), int(p.lfo2Shape.Load()))
	case EventLFO2Depth:
		p.SetLFO2(loadFloat(&p.lfo2Rate), ev.Value, int(p.lfo2Shape.Load()))

	case EventEchoDelay:
		p.SetEchoDelay(ev.Index)
	case EventReverseShift:
		p.SetReverse(ev.Index, ev.Value)

	case EventSeqToggleRun:
		p.SetSequencerRunning(!p.SequencerRunning())
	case EventSeqToggleStep:
		p.ToggleStep(ev.Index)
	case EventSeqStepFreq:
		p.SetStepFrequency(ev.Index, ev.Value)
	case EventSeqOctave:
		p.SetSeqOctave(ev.Index)
	case EventSeqTimbre:
		p.SetSeqTimbre(ev.Index)

	case EventRecorderKey:
		p.PressRecorder()
	case EventRecorderLoop:
		p.SetRecorderLoop(ev.Index != 0)

	case EventLoopPattern:
		p.SetLoopPattern(ev.Index)
	case EventSyncPreset:
		p.SetSyncGatePreset(ev.Index)

	case EventDrone:
		p.SetDrone(ev.Index, int(ev.Value), loadFloat(&p.droneBrightness))

	case EventExitFunction:
		c.sel.Exit()
		p.SetFunction(int(trig.FuncNone))
	}
}

// Run drains events into the parameters until the context ends or the
// event channel closes.
func (c *Controller) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.Apply(ev)
		}
	}
}

// knobLabels names what each knob controls per instrument, for the display.
// Pitch is pitch everywhere; the other three shift meaning with the engine.
var knobLabels = [InstrumentCount][voice.KnobCount]string{
	InstrumentSiren:  {"pitch", "sweep", "depth", "tone"},
	InstrumentRayGun: {"pitch", "zap", "depth", "filter"},
	InstrumentLead:   {"pitch", "tempo", "depth", "cutoff"},
	InstrumentDisco:  {"pitch", "rate", "depth", "accent"},
}

// Snapshot is the read-only view the display consumes once per
// control-rate tick. Building one reads only atomics.
type Snapshot struct {
	Instrument int
	Mode       int
	Function   trig.Function

	Knobs      [voice.KnobCount]float64
	KnobLabels [voice.KnobCount]string
	Keys       uint32

	GateOpen      bool
	Meter         int16
	SeqRunning    bool
	SeqStep       int
	SeqSteps      [seq.StepCount]bool
	SeqStarved    bool
	RecorderState record.State
}

// Snapshot assembles the current display view from the parameter block and
// the engine's published meters.
func (e *Engine) Snapshot() Snapshot {
	p := e.params
	inst := p.Instrument() % InstrumentCount
	if inst < 0 {
		inst += InstrumentCount
	}
	s := Snapshot{
		Instrument:    inst,
		Mode:          p.Mode(),
		Function:      trig.Function(p.function.Load()),
		Keys:          p.Keys(),
		GateOpen:      e.gateOpen.Load(),
		Meter:         int16(e.meter.Load()),
		SeqRunning:    p.SequencerRunning(),
		SeqStep:       int(e.seqStep.Load()),
		SeqStarved:    e.starved.Load(),
		RecorderState: record.State(e.recState.Load()),
	}
	for i := range s.Knobs {
		s.Knobs[i] = p.Knob(i)
	}
	s.KnobLabels = knobLabels[s.Instrument]
	for i := range s.SeqSteps {
		s.SeqSteps[i] = p.StepEnabled(i)
	}
	return s
}
