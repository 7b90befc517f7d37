package voice

import (
	"math"

	"github.com/cwbudde/algo-synth/synth/fx"
	"github.com/cwbudde/algo-synth/synth/osc"
)

// Disco sub-modes.
const (
	DiscoOrchestraHit = iota
	DiscoStrings
	DiscoFunkBlast
	DiscoSpaceWhoosh
	DiscoBubblePop
	DiscoPWMPad

	discoModeCount
)

var discoModeNames = [discoModeCount]string{
	"orchestra hit", "strings", "funk blast", "space whoosh", "bubble pop", "pwm pad",
}

// Per-mode loudness boosts compensating perceived level differences.
var discoBoost = [discoModeCount]float64{2.0, 1.5, 1.8, 2.5, 2.2, 1.5}

// Disco is the effect-bank instrument: six one-shot and pad voices, each
// with its own envelope law parameterized by the character knob.
type Disco struct {
	mode  int
	knobs [KnobCount]float64

	oscs   [4]osc.Phase
	pwmLFO osc.Phase
	rnd    noise
	filter *fx.Lowpass
}

// NewDisco returns a disco bank in orchestra-hit mode.
func NewDisco() *Disco {
	d := &Disco{filter: fx.NewLowpass()}
	d.knobs[KnobCharacter] = 0.5
	return d
}

// Name returns "disco".
func (d *Disco) Name() string { return "disco" }

// ModeCount returns the number of disco sub-modes.
func (d *Disco) ModeCount() int { return discoModeCount }

// SetMode selects a sub-mode, wrapped onto the mode count.
func (d *Disco) SetMode(mode int) { d.mode = wrapMode(mode, discoModeCount) }

// Mode returns the active sub-mode.
func (d *Disco) Mode() int { return d.mode }

// ModeName returns the active sub-mode's display name.
func (d *Disco) ModeName() string { return discoModeNames[d.mode] }

// SetControl feeds a normalized knob. Character shapes each mode's
// envelope: decay times, sweep speeds, pulse-width travel.
func (d *Disco) SetControl(index int, value float64) {
	if index < 0 || index >= KnobCount {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	d.knobs[index] = value
}

// GenerateSample renders one disco sample.
func (d *Disco) GenerateSample(ctx Context) int16 {
	char := d.knobs[KnobCharacter]
	age := ctx.TriggerAge
	sr := ctx.SampleRate
	base := clampCarrier(ctx.BaseFreq * ctx.PitchScale)

	var sample int16
	var env float64

	switch d.mode {
	case DiscoOrchestraHit:
		if !ctx.Gate {
			return d.silence()
		}
		// Harmonic stack with a downward filter sweep; character sets decay.
		ratios := [4]float64{1, 1.5, 2, 3}
		var sum int32
		for i := range d.oscs {
			d.oscs[i].SetFrequency(base*ratios[i], sr)
			sum += int32(osc.Sawtooth(d.oscs[i].Advance())) / 4
		}
		decay := sr * (0.2 + char*0.8)
		env = expDecay(age, decay/4)
		cutoff := int(env * float64(fx.MaxCutoff))
		d.filter.SetCutoff(cutoff)
		sample = d.filter.ProcessSample(int16(sum))

	case DiscoStrings:
		if !ctx.Gate {
			return d.silence()
		}
		// Three detuned saws, rising filter, sustains while held.
		detunes := [3]float64{0.996, 1, 1.004}
		var sum int32
		for i := 0; i < 3; i++ {
			d.oscs[i].SetFrequency(base*detunes[i], sr)
			sum += int32(osc.Sawtooth(d.oscs[i].Advance())) / 3
		}
		env = linearRamp(age, int(sr*(0.1+char*0.4)))
		d.filter.SetCutoff(400 + int(env*float64(fx.MaxCutoff-400)))
		sample = d.filter.ProcessSample(int16(sum))

	case DiscoFunkBlast:
		if !ctx.Gate {
			return d.silence()
		}
		// Square+saw blend bending down an octave; character sets bend speed.
		bendTicks := sr * (0.05 + char*0.3)
		bend := 1 - 0.5*math.Min(1, float64(age)/bendTicks)
		d.oscs[0].SetFrequency(base*bend, sr)
		p := d.oscs[0].Advance()
		sample = int16((int32(osc.Square(p)) + int32(osc.Sawtooth(p))) / 2)
		env = expDecay(age, sr*0.3)
		sample = scaleSample(sample, env)

	case DiscoSpaceWhoosh:
		if !ctx.Gate {
			return d.silence()
		}
		// Filtered noise with a slow swept cutoff.
		sweep := 0.5 + 0.5*math.Sin(2*math.Pi*float64(age)/(sr*(0.5+char*2)))
		d.filter.SetCutoff(100 + int(sweep*2000))
		sample = d.filter.ProcessSample(d.rnd.next())

	case DiscoBubblePop:
		if !ctx.Gate {
			return d.silence()
		}
		// Fast pitch drop with a noise snap on top, exponential decay.
		dropTicks := sr * 0.05
		drop := math.Max(0.25, 1-0.75*float64(age)/dropTicks)
		d.oscs[0].SetFrequency(base*2*drop, sr)
		sample = osc.FastSine(d.oscs[0].Advance())
		if age < int(sr*0.005) {
			sample = int16((int32(sample) + int32(d.rnd.next())) / 2)
		}
		env = expDecay(age, sr*(0.02+char*0.1))
		sample = scaleSample(sample, env)

	case DiscoPWMPad:
		if !ctx.Gate {
			return d.silence()
		}
		// Two pulse-width voices with slowly moving duty plus a sub octave.
		d.pwmLFO.SetFrequency(0.2+char*1.5, sr)
		duty := 0.5 + 0.4*float64(osc.Triangle(d.pwmLFO.Advance()))/16384
		d.oscs[0].SetFrequency(base, sr)
		d.oscs[1].SetFrequency(base*1.005, sr)
		d.oscs[2].SetFrequency(base/2, sr)
		sum := int32(pulse(d.oscs[0].Advance(), duty)) +
			int32(pulse(d.oscs[1].Advance(), 1-duty)) +
			int32(osc.Square(d.oscs[2].Advance()))/2
		env = linearRamp(age, int(sr*0.08))
		sample = scaleSample(int16(sum/3), env)
	}

	return scaleSample(sample, discoBoost[d.mode]*0.6)
}

// pulse is a variable-duty square derived from the phase fraction.
func pulse(phase uint32, duty float64) int16 {
	if duty < 0.05 {
		duty = 0.05
	}
	if duty > 0.95 {
		duty = 0.95
	}
	if float64(phase)/float64(1<<32) < duty {
		return osc.MaxSample
	}
	return osc.MinSample
}

func (d *Disco) silence() int16 {
	d.filter.ProcessSample(0)
	return 0
}

// Reset rewinds all oscillator and filter state.
func (d *Disco) Reset() {
	for i := range d.oscs {
		d.oscs[i].Reset()
	}
	d.pwmLFO.Reset()
	d.filter.Reset()
}
