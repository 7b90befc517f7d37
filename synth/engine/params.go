package engine

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/synth/seq"
	"github.com/cwbudde/algo-synth/synth/voice"
)

// Params is the shared state between the control task and the audio task.
// The control task is the sole writer and the audio task the sole reader;
// every field is one atomic word, so a read may be one update stale but is
// never torn. Edge-like inputs (sync pulses, recorder key presses) travel
// as counters the audio task diffs against its last seen value.
type Params struct {
	knobs [voice.KnobCount]atomic.Uint64 // float64 bits, 0..1

	keys   atomic.Uint32 // bitmask of held keyboard keys
	button atomic.Bool

	syncPulses      atomic.Uint32
	recorderPresses atomic.Uint32

	instrument atomic.Int32
	mode       atomic.Int32
	function   atomic.Int32 // trig.Function

	scale       atomic.Int32
	tier        atomic.Int32 // mod.Tier
	probability atomic.Uint64

	lfoShape  atomic.Int32
	lfo2Rate  atomic.Uint64
	lfo2Depth atomic.Uint64
	lfo2Shape atomic.Int32

	echoDelay    atomic.Int32 // samples, 0 bypasses
	echoFeedback atomic.Uint64
	reverseShift atomic.Int32
	reverseMix   atomic.Uint64
	sideDepth    atomic.Uint64

	droneState      atomic.Int32
	droneVoicing    atomic.Int32
	droneBrightness atomic.Uint64

	seqRunning  atomic.Bool
	seqInterval atomic.Int32 // ticks per step, before tempo mutation
	seqGate     atomic.Int32 // percent
	seqOctave   atomic.Int32
	seqTimbre   atomic.Int32
	seqEnabled  atomic.Uint32 // 8-bit step mask
	seqFreqs    [seq.StepCount]atomic.Uint64

	loopPattern atomic.Int32
	loopPeriod  atomic.Int32 // ticks

	syncPreset   atomic.Int32
	recorderLoop atomic.Bool
}

func storeFloat(dst *atomic.Uint64, v float64) { dst.Store(math.Float64bits(v)) }
func loadFloat(src *atomic.Uint64) float64     { return math.Float64frombits(src.Load()) }

// NewParams returns a parameter block at power-up defaults: siren in its
// first mode, pentatonic minor scale, mutation off, all effects idle and
// every sequencer step enabled at 220 Hz.
func NewParams() *Params {
	p := &Params{}
	storeFloat(&p.knobs[voice.KnobPitch], defaultPitchKnob)
	storeFloat(&p.knobs[voice.KnobRate], defaultRateKnob)
	storeFloat(&p.knobs[voice.KnobDepth], defaultDepthKnob)
	storeFloat(&p.knobs[voice.KnobCharacter], 1)

	storeFloat(&p.probability, defaultProbability)
	storeFloat(&p.echoFeedback, defaultEchoFeedback)
	storeFloat(&p.reverseMix, defaultReverseMix)
	storeFloat(&p.sideDepth, defaultSideDepth)
	storeFloat(&p.droneBrightness, defaultDroneBrightness)
	storeFloat(&p.lfo2Rate, defaultLFO2Rate)
	storeFloat(&p.lfo2Depth, defaultLFO2Depth)

	p.seqInterval.Store(defaultSeqIntervalTicks)
	p.seqGate.Store(defaultSeqGate)
	p.seqEnabled.Store(1<<seq.StepCount - 1)
	for i := range p.seqFreqs {
		storeFloat(&p.seqFreqs[i], defaultStepFreq)
	}
	p.loopPeriod.Store(defaultLoopPeriodTicks)
	return p
}

// SetKnob stores one continuous control, clamped to [0, 1].
func (p *Params) SetKnob(index int, value float64) {
	if index < 0 || index >= voice.KnobCount {
		return
	}
	if math.IsNaN(value) || value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	storeFloat(&p.knobs[index], value)
}

// Knob returns one continuous control in [0, 1].
func (p *Params) Knob(index int) float64 {
	if index < 0 || index >= voice.KnobCount {
		return 0
	}
	return loadFloat(&p.knobs[index])
}

// SetKey records a keyboard key state change.
func (p *Params) SetKey(key int, down bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	mask := p.keys.Load()
	if down {
		mask |= 1 << key
	} else {
		mask &^= 1 << key
	}
	p.keys.Store(mask)
}

// Keys returns the held-key bitmask.
func (p *Params) Keys() uint32 { return p.keys.Load() }

// SetButton records the trigger button state.
func (p *Params) SetButton(down bool) { p.button.Store(down) }

// PulseSync records one external sync pulse.
func (p *Params) PulseSync() { p.syncPulses.Add(1) }

// PressRecorder records one press of the recorder cycle key.
func (p *Params) PressRecorder() { p.recorderPresses.Add(1) }

// SetInstrument selects the instrument engine by index.
func (p *Params) SetInstrument(i int) { p.instrument.Store(int32(i)) }

// Instrument returns the selected instrument index.
func (p *Params) Instrument() int { return int(p.instrument.Load()) }

// SetMode selects the sub-mode within the current instrument.
func (p *Params) SetMode(m int) { p.mode.Store(int32(m)) }

// Mode returns the selected sub-mode.
func (p *Params) Mode() int { return int(p.mode.Load()) }

// SetFunction activates a modal special function.
func (p *Params) SetFunction(f int) { p.function.Store(int32(f)) }

// Function returns the active modal function.
func (p *Params) Function() int { return int(p.function.Load()) }

// SetScale selects the quantization scale.
func (p *Params) SetScale(s int) { p.scale.Store(int32(s)) }

// SetTier selects the mutation tier.
func (p *Params) SetTier(t int) { p.tier.Store(int32(t)) }

// SetProbability sets the mutation probability in [0, 1].
func (p *Params) SetProbability(v float64) { storeFloat(&p.probability, v) }

// SetLFOShape selects the primary LFO waveform.
func (p *Params) SetLFOShape(s int) { p.lfoShape.Store(int32(s)) }

// SetLFO2 configures the secondary LFO.
func (p *Params) SetLFO2(rate, depth float64, shape int) {
	storeFloat(&p.lfo2Rate, rate)
	storeFloat(&p.lfo2Depth, depth)
	p.lfo2Shape.Store(int32(shape))
}

// SetEchoDelay sets the echo delay in samples; 0 bypasses the line.
func (p *Params) SetEchoDelay(samples int) { p.echoDelay.Store(int32(samples)) }

// EchoDelay returns the echo delay in samples.
func (p *Params) EchoDelay() int { return int(p.echoDelay.Load()) }

// SetEchoFeedback sets the echo feedback amount.
func (p *Params) SetEchoFeedback(v float64) { storeFloat(&p.echoFeedback, v) }

// SetReverse configures the reverse tap.
func (p *Params) SetReverse(shift int, mix float64) {
	p.reverseShift.Store(int32(shift))
	storeFloat(&p.reverseMix, mix)
}

// SetSidechainDepth sets the duck depth in [0, 1].
func (p *Params) SetSidechainDepth(v float64) { storeFloat(&p.sideDepth, v) }

// SetDrone configures the drone bank.
func (p *Params) SetDrone(state, voicing int, brightness float64) {
	p.droneState.Store(int32(state))
	p.droneVoicing.Store(int32(voicing))
	storeFloat(&p.droneBrightness, brightness)
}

// SetSequencerRunning starts or stops the sequencer.
func (p *Params) SetSequencerRunning(running bool) { p.seqRunning.Store(running) }

// SequencerRunning reports the requested sequencer run state.
func (p *Params) SequencerRunning() bool { return p.seqRunning.Load() }

// SetStepInterval sets the sequencer step duration in ticks.
func (p *Params) SetStepInterval(ticks int) { p.seqInterval.Store(int32(ticks)) }

// StepInterval returns the sequencer step duration in ticks.
func (p *Params) StepInterval() int { return int(p.seqInterval.Load()) }

// SetGateLength sets the sequencer gate percentage.
func (p *Params) SetGateLength(percent int) { p.seqGate.Store(int32(percent)) }

// SetSeqOctave sets the sequencer octave shift.
func (p *Params) SetSeqOctave(shift int) { p.seqOctave.Store(int32(shift)) }

// SetSeqTimbre selects the sequencer step voice.
func (p *Params) SetSeqTimbre(t int) { p.seqTimbre.Store(int32(t)) }

// ToggleStep flips one sequencer step's enabled flag.
func (p *Params) ToggleStep(i int) {
	if i < 0 || i >= seq.StepCount {
		return
	}
	p.seqEnabled.Store(p.seqEnabled.Load() ^ 1<<i)
}

// StepEnabled reports whether sequencer step i is enabled.
func (p *Params) StepEnabled(i int) bool {
	if i < 0 || i >= seq.StepCount {
		return false
	}
	return p.seqEnabled.Load()&(1<<i) != 0
}

// SetStepFrequency locks one sequencer step to a frequency in Hz.
func (p *Params) SetStepFrequency(i int, freqHz float64) {
	if i < 0 || i >= seq.StepCount {
		return
	}
	storeFloat(&p.seqFreqs[i], freqHz)
}

// SetLoopPattern selects the loop gate pattern.
func (p *Params) SetLoopPattern(pat int) { p.loopPattern.Store(int32(pat)) }

// SetLoopPeriod sets the loop pattern period in ticks.
func (p *Params) SetLoopPeriod(ticks int) { p.loopPeriod.Store(int32(ticks)) }

// SetSyncGatePreset selects a timed sync gate duration.
func (p *Params) SetSyncGatePreset(i int) { p.syncPreset.Store(int32(i)) }

// SetRecorderLoop controls looping replay.
func (p *Params) SetRecorderLoop(loop bool) { p.recorderLoop.Store(loop) }
