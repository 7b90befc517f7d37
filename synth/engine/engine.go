// Package engine assembles the synth: it owns the audio-rate tick that
// arbitrates triggers, runs the active instrument or sequencer, layers the
// drone and drives the effects chain, plus the control-rate side that
// feeds it parameters. The two tasks share only the atomic Params block
// and a handful of audio-published meters.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/synth/fx"
	"github.com/cwbudde/algo-synth/synth/mod"
	"github.com/cwbudde/algo-synth/synth/record"
	"github.com/cwbudde/algo-synth/synth/ring"
	"github.com/cwbudde/algo-synth/synth/seq"
	"github.com/cwbudde/algo-synth/synth/trig"
	"github.com/cwbudde/algo-synth/synth/tune"
	"github.com/cwbudde/algo-synth/synth/voice"
)

// DefaultSampleRate is the firmware's fixed generation rate in Hz.
const DefaultSampleRate = 22050

// KeyCount is the number of keyboard keys.
const KeyCount = 8

// Instrument engine indices.
const (
	InstrumentSiren = iota
	InstrumentRayGun
	InstrumentLead
	InstrumentDisco

	InstrumentCount
)

// Power-up defaults.
const (
	defaultPitchKnob   = 0.75 // 440 Hz on the exponential root map
	defaultRateKnob    = 0.565
	defaultDepthKnob   = 0.5
	defaultProbability = 0.5

	defaultEchoFeedback    = 0.35
	defaultReverseMix      = 0.5
	defaultSideDepth       = 0.6
	defaultDroneBrightness = 0.3
	defaultLFO2Rate        = 0.5
	defaultLFO2Depth       = 0.5

	defaultSeqIntervalTicks = 5512 // 250 ms
	defaultSeqGate          = 80
	defaultStepFreq         = 220.0
	defaultLoopPeriodTicks  = 11025 // 500 ms

	// Root pitch knob map: minRootHz * 2^(knob * rootOctaves).
	minRootHz   = 55.0
	rootOctaves = 4.0

	// LFO2 multiplies the carrier by up to this much at full depth.
	lfo2PitchRange = 0.6

	meterDecay = 0.995

	// Sync pulse spacings outside this window (in seconds) are ignored by
	// the tap-tempo follower.
	minTapSeconds = 0.05
	maxTapSeconds = 2.0
)

// Config sizes the engine's buffers. Zero values take the defaults.
type Config struct {
	SampleRate      float64
	EchoCapacity    int
	ReverseCapacity int
	RecordCapacity  int
	Logger          *slog.Logger
}

func (c *Config) fill() {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.EchoCapacity == 0 {
		c.EchoCapacity = DefaultSampleRate // one second
	}
	if c.ReverseCapacity == 0 {
		c.ReverseCapacity = DefaultSampleRate
	}
	if c.RecordCapacity == 0 {
		c.RecordCapacity = record.DefaultCapacity
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Engine is the audio task's world. All fields below params are owned by
// whoever calls Tick; nothing in here is safe for concurrent use beyond
// the Params block and the published meter atomics.
type Engine struct {
	params *Params
	log    *slog.Logger

	sampleRate float64

	instruments [InstrumentCount]voice.Instrument
	lead        *voice.Lead
	current     int

	drone *voice.Drone
	lfo1  *mod.LFO
	lfo2  *mod.LFO
	mut   *mod.Mutation
	locks [voice.KnobCount]mod.ParamLock

	arb    *trig.Arbiter
	seqr   *seq.Sequencer
	looper *seq.Looper

	echo *fx.Echo
	rev  *fx.Reverse // nil when its buffer could not be reserved
	rec  *record.Recorder
	side *fx.Sidechain

	prevGate     bool
	prevTier     mod.Tier
	lastSync     uint32
	lastRecPress uint32

	// Tap tempo off the sync input: sincePulse counts ticks since the last
	// pulse, tapInterval holds the last plausible pulse spacing.
	sincePulse  int
	tapInterval int

	// Audio-published state for the display; control task reads only.
	meter    atomic.Int32
	seqStep  atomic.Int32
	recState atomic.Int32
	gateOpen atomic.Bool
	starved  atomic.Bool
}

// New builds an engine around the given parameter block. Echo allocation
// failure is fatal; a failed reverse or record buffer logs once and
// permanently disables that feature for the session.
func New(params *Params, cfg Config) (*Engine, error) {
	if params == nil {
		return nil, fmt.Errorf("engine: params must not be nil")
	}
	cfg.fill()

	lead := voice.NewLead()
	e := &Engine{
		params:     params,
		log:        cfg.Logger,
		sampleRate: cfg.SampleRate,
		lead:       lead,
		drone:      voice.NewDrone(),
		mut:        mod.NewMutation(),
	}
	e.instruments = [InstrumentCount]voice.Instrument{
		voice.NewSiren(), voice.NewRayGun(), lead, voice.NewDisco(),
	}
	// Saturated, so a lone first pulse never reads as a tempo.
	e.sincePulse = int(cfg.SampleRate * maxTapSeconds)

	var err error
	if e.lfo1, err = mod.NewLFO(cfg.SampleRate); err != nil {
		return nil, err
	}
	if e.lfo2, err = mod.NewLFO(cfg.SampleRate); err != nil {
		return nil, err
	}
	if e.arb, err = trig.NewArbiter(cfg.SampleRate); err != nil {
		return nil, err
	}
	if e.seqr, err = seq.NewSequencer(defaultSeqIntervalTicks); err != nil {
		return nil, err
	}
	if e.looper, err = seq.NewLooper(defaultLoopPeriodTicks); err != nil {
		return nil, err
	}
	if e.echo, err = fx.NewEcho(cfg.EchoCapacity); err != nil {
		return nil, fmt.Errorf("engine: echo line: %w", err)
	}
	if e.side, err = fx.NewSidechain(cfg.SampleRate); err != nil {
		return nil, err
	}

	if e.rev, err = fx.NewReverse(cfg.ReverseCapacity); err != nil {
		e.log.Warn("reverse tap disabled for this session", "err", err)
		e.rev = nil
	}
	if e.rec, err = record.NewRecorder(cfg.RecordCapacity); err != nil {
		e.log.Warn("recorder disabled for this session", "err", err)
		e.rec = nil
	}
	return e, nil
}

// Params returns the shared parameter block.
func (e *Engine) Params() *Params { return e.params }

// SampleRate returns the generation rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// rootHz maps the pitch knob exponentially across four octaves.
func rootHz(knob float64) float64 {
	return minRootHz * math.Pow(2, knob*rootOctaves)
}

// lfoRate maps the rate knob exponentially across the LFO's range.
func lfoRate(knob float64) float64 {
	return mod.MinLFORate * math.Pow(mod.MaxLFORate/mod.MinLFORate, knob)
}

// highestKey returns the index of the highest held key, keyboard priority
// going to the higher note.
func highestKey(mask uint32) int {
	for i := KeyCount - 1; i >= 0; i-- {
		if mask&(1<<i) != 0 {
			return i
		}
	}
	return 0
}

// knob reads one control through its mutation param lock.
func (e *Engine) knob(index int) float64 {
	return e.locks[index].Update(e.params.Knob(index))
}

// applyTier locks the knobs the new mutation tier takes over, so entering
// a tier never jumps the sound to a stale pot position.
func (e *Engine) applyTier(tier mod.Tier) {
	if tier == e.prevTier {
		return
	}
	raw := func(i int) float64 { return e.params.Knob(i) }
	if tier >= mod.TierPitch {
		e.locks[voice.KnobPitch].Lock(raw(voice.KnobPitch), raw(voice.KnobPitch))
	} else {
		e.locks[voice.KnobPitch].Release()
	}
	if tier >= mod.TierPitchRhythm {
		e.locks[voice.KnobRate].Lock(raw(voice.KnobRate), raw(voice.KnobRate))
	} else {
		e.locks[voice.KnobRate].Release()
	}
	if tier >= mod.TierPitchRhythmCutoff {
		e.locks[voice.KnobCharacter].Lock(raw(voice.KnobCharacter), raw(voice.KnobCharacter))
	} else {
		e.locks[voice.KnobCharacter].Release()
	}
	e.prevTier = tier
}

// syncSequencer pushes the control-side sequencer parameters into the
// audio-owned state machine.
func (e *Engine) syncSequencer() {
	p := e.params
	for i := 0; i < seq.StepCount; i++ {
		e.seqr.SetStepEnabled(i, p.StepEnabled(i))
		e.seqr.SetStepFrequency(i, loadFloat(&p.seqFreqs[i]))
	}
	// The step interval tracks the tapped sync tempo while the sync input
	// is live; two seconds of silence reverts to the knob setting.
	base := float64(p.StepInterval())
	if e.tapInterval > 0 && e.arb.SyncConnected() {
		base = float64(e.tapInterval)
	}
	e.seqr.SetStepInterval(int(base * e.mut.TempoScale()))
	e.seqr.SetGateLength(int(p.seqGate.Load()))
	e.seqr.SetOctaveShift(int(p.seqOctave.Load()))
	e.seqr.SetTimbre(int(p.seqTimbre.Load()))

	if p.SequencerRunning() != (e.seqr.State() == seq.Running) {
		e.seqr.ToggleRunning()
	}
}

// Tick renders one sample. It allocates nothing and never blocks; the
// caller clocks it at the sample rate.
func (e *Engine) Tick() int16 {
	p := e.params

	pulses := p.syncPulses.Load()
	syncEdge := pulses != e.lastSync
	e.lastSync = pulses

	// Follow the sync tempo while pulses keep arriving at a usable spacing.
	maxTap := int(e.sampleRate * maxTapSeconds)
	if syncEdge {
		if minTap := int(e.sampleRate * minTapSeconds); e.sincePulse >= minTap && e.sincePulse < maxTap {
			e.tapInterval = e.sincePulse
		}
		e.sincePulse = 0
	} else if e.sincePulse < maxTap {
		e.sincePulse++
	}

	fn := trig.Function(p.function.Load())

	keys := p.keys.Load()
	e.arb.SetSyncGatePreset(int(p.syncPreset.Load()))
	e.arb.Tick(keys != 0, p.button.Load(), syncEdge)

	gate := e.arb.Gate()
	if fn == trig.FuncLoop {
		e.looper.SetPattern(seq.Pattern(p.loopPattern.Load()))
		e.looper.SetPeriod(int(p.loopPeriod.Load()))
		e.looper.Tick()
		gate = e.looper.Gate(gate)
	}
	// Loop-gate edges retrigger mutation just like raw trigger edges.
	edge := gate && !e.prevGate
	e.prevGate = gate
	e.gateOpen.Store(gate)

	tier := mod.NormalizeTier(int(p.tier.Load()))
	e.applyTier(tier)
	e.mut.SetTier(tier)
	scale := tune.Normalize(int(p.scale.Load()))
	e.mut.SetScale(scale)
	e.mut.SetProbability(loadFloat(&p.probability))
	e.lead.SetScale(scale)

	if edge {
		e.mut.OnTrigger()
		e.side.Trigger()
	}

	pitch := e.knob(voice.KnobPitch)
	rate := e.knob(voice.KnobRate)
	depth := e.knob(voice.KnobDepth)
	char := e.knob(voice.KnobCharacter)
	if tier >= mod.TierPitchRhythmCutoff {
		char = float64(e.mut.Cutoff()) / float64(fx.MaxCutoff)
	}

	e.lfo1.SetShape(mod.LFOShape(p.lfoShape.Load()))
	e.lfo1.SetRate(lfoRate(rate))
	e.lfo1.SetDepth(depth)
	lfo := e.lfo1.Tick()

	e.lfo2.SetShape(mod.LFOShape(p.lfo2Shape.Load()))
	e.lfo2.SetRate(loadFloat(&p.lfo2Rate))
	e.lfo2.SetDepth(loadFloat(&p.lfo2Depth))
	lfo2 := e.lfo2.Tick()
	pitchScale := 1.0
	if fn == trig.FuncLFO2 {
		pitchScale = 1 + lfo2*lfo2PitchRange
	}

	root := rootHz(pitch)
	var baseFreq float64
	if keys != 0 {
		baseFreq = tune.Quantize(root, scale, highestKey(keys)+e.mut.PitchStep())
	} else {
		baseFreq = e.mut.Frequency(root)
	}

	// Source: the sequencer replaces the instrument while its function is
	// active and it is running.
	var dry int16
	if fn == trig.FuncSequencer {
		e.syncSequencer()
		e.seqr.Tick(syncEdge)
		dry = e.seqr.GenerateSample(e.sampleRate)
		e.seqStep.Store(int32(e.seqr.Step()))
		starved := e.seqr.State() == seq.Running && !e.seqr.Gate() && e.seqr.Frequency() == 0
		if starved && !e.starved.Load() {
			e.log.Warn("sequencer running with every step disabled")
		}
		e.starved.Store(starved)
	} else {
		inst := e.currentInstrument()
		inst.SetControl(voice.KnobCharacter, char)
		inst.SetControl(voice.KnobRate, rate)
		inst.SetControl(voice.KnobDepth, depth)
		ctx := voice.Context{
			SampleRate: e.sampleRate,
			BaseFreq:   baseFreq,
			Gate:       gate,
			TriggerAge: e.arb.TriggerAge(),
			LFO:        lfo,
			LFORate:    e.lfo1.Rate(),
			PitchScale: pitchScale,
		}
		dry = inst.GenerateSample(ctx)
	}

	// The drone layers additively under everything.
	e.drone.SetState(voice.DroneState(p.droneState.Load()))
	e.drone.SetVoicing(int(p.droneVoicing.Load()))
	e.drone.SetBrightness(loadFloat(&p.droneBrightness))
	mixed := ring.Saturate(int32(dry) + int32(e.drone.GenerateSample(root, gate, e.sampleRate)))

	// Effects chain: echo, reverse tap, recorder capture, sidechain.
	e.echo.SetDelay(p.EchoDelay())
	e.echo.SetFeedback(loadFloat(&p.echoFeedback))
	e.echo.SetHold(fn == trig.FuncHold)
	out := e.echo.ProcessSample(mixed)

	if fn == trig.FuncReverse && e.rev != nil {
		e.rev.SetShift(int(p.reverseShift.Load()))
		e.rev.SetMix(loadFloat(&p.reverseMix))
		out = e.rev.ProcessSample(out)
	}

	if e.rec != nil {
		if presses := p.recorderPresses.Load(); presses != e.lastRecPress {
			e.lastRecPress = presses
			e.rec.Advance()
		}
		e.rec.SetLoop(p.recorderLoop.Load())
		out = e.rec.Process(out)
		e.recState.Store(int32(e.rec.State()))
	}

	if fn == trig.FuncSidechain {
		e.side.SetDepth(loadFloat(&p.sideDepth))
	} else {
		e.side.SetDepth(0)
	}
	e.side.Tick()
	out = e.side.Apply(out)

	e.publishMeter(out)
	return out
}

func (e *Engine) currentInstrument() voice.Instrument {
	idx := int(e.params.instrument.Load()) % InstrumentCount
	if idx < 0 {
		idx += InstrumentCount
	}
	inst := e.instruments[idx]
	if idx != e.current {
		inst.Reset()
		e.current = idx
	}
	inst.SetMode(int(e.params.mode.Load()))
	return inst
}

// publishMeter tracks a peak level with exponential decay for the display.
func (e *Engine) publishMeter(sample int16) {
	v := int32(sample)
	if v < 0 {
		v = -v
	}
	prev := e.meter.Load()
	decayed := int32(float64(prev) * meterDecay)
	if v > decayed {
		decayed = v
	}
	e.meter.Store(decayed)
}

// Render fills dst with consecutive samples, one Tick each.
func (e *Engine) Render(dst []int16) {
	for i := range dst {
		dst[i] = e.Tick()
	}
}

// RecorderEnabled reports whether the phrase recorder survived boot.
func (e *Engine) RecorderEnabled() bool { return e.rec != nil }

// ReverseEnabled reports whether the reverse tap survived boot.
func (e *Engine) ReverseEnabled() bool { return e.rev != nil }

// Reset returns every audio-owned state machine to power-up state. The
// parameter block is left alone.
func (e *Engine) Reset() {
	for _, inst := range e.instruments {
		inst.Reset()
	}
	e.drone.Reset()
	e.lfo1.Reset()
	e.lfo2.Reset()
	e.mut.Reset()
	e.arb.Reset()
	e.seqr.Reset()
	e.looper.Reset()
	e.echo.Reset()
	if e.rev != nil {
		e.rev.Reset()
	}
	if e.rec != nil {
		e.rec.Clear()
	}
	e.side.Reset()
	e.prevGate = false
	e.sincePulse = int(e.sampleRate * maxTapSeconds)
	e.tapInterval = 0
	e.meter.Store(0)
}
