// Package voice implements the instrument synthesis engines. Each engine is
// a tagged variant behind the Instrument interface: one GenerateSample call
// per audio tick, a pure function of its own oscillator state and the
// render context handed in by the engine.
package voice

import "github.com/cwbudde/algo-synth/synth/osc"

// Knob indices as wired on the panel. The engine owns pitch/rate/depth;
// instruments mostly read the character knob, though some modes repurpose
// rate and depth for their own sweep controls.
const (
	KnobPitch = iota
	KnobRate
	KnobDepth
	KnobCharacter

	KnobCount
)

// Context is the per-tick render input shared by all instruments. The
// engine fills it once per sample; instruments only read it.
type Context struct {
	SampleRate float64
	// BaseFreq is the arbitrated root frequency in Hz: knob tuning,
	// keyboard quantization and mutation already applied.
	BaseFreq float64
	// Gate is the audible-now signal from trigger arbitration.
	Gate bool
	// TriggerAge counts ticks since the last trigger rising edge.
	TriggerAge int
	// LFO is the primary LFO level, bipolar and already depth-scaled.
	LFO float64
	// LFORate is the primary LFO rate in Hz, for modes that turn the rate
	// knob into a sweep speed.
	LFORate float64
	// PitchScale is the secondary LFO's multiplicative factor on the
	// carrier (1 when LFO2 is off).
	PitchScale float64
}

// Instrument is the capability interface every synthesis engine satisfies.
type Instrument interface {
	// Name returns the display name.
	Name() string
	// ModeCount returns the number of sub-modes.
	ModeCount() int
	// SetMode selects a sub-mode; any integer wraps onto the mode count.
	SetMode(mode int)
	// Mode returns the active sub-mode index.
	Mode() int
	// ModeName returns the active sub-mode's display name.
	ModeName() string
	// SetControl feeds one normalized knob value in [0, 1].
	SetControl(index int, value float64)
	// GenerateSample renders one sample.
	GenerateSample(ctx Context) int16
	// Reset returns all internal state to power-up values.
	Reset()
}

// Carrier frequencies are floor-clamped here; a sweep can never push an
// oscillator into sub-audio denormal territory.
const minCarrierHz = 20.0

func clampCarrier(freq float64) float64 {
	if freq < minCarrierHz {
		return minCarrierHz
	}
	return freq
}

func wrapMode(mode, count int) int {
	mode %= count
	if mode < 0 {
		mode += count
	}
	return mode
}

// triSawBlend is the house waveform: 75% triangle, 25% sawtooth off the
// same phase.
func triSawBlend(phase uint32) int16 {
	return int16((3*int32(osc.Triangle(phase)) + int32(osc.Sawtooth(phase))) / 4)
}

// noise is a tiny xorshift generator for burst and snap textures. Cheap,
// stateful, and by firmware standards plenty random.
type noise struct {
	state uint32
}

func (n *noise) next() int16 {
	if n.state == 0 {
		n.state = 0x2545F491
	}
	n.state ^= n.state << 13
	n.state ^= n.state >> 17
	n.state ^= n.state << 5
	return int16(int32(n.state&0x7FFF) - 16384)
}

// linearRamp maps age onto a 0..1 rise over riseTicks, clamped at 1.
func linearRamp(age, riseTicks int) float64 {
	if riseTicks <= 0 || age >= riseTicks {
		return 1
	}
	if age < 0 {
		return 0
	}
	return float64(age) / float64(riseTicks)
}

// expDecay is a cheap exponential-ish decay: 1/(1+age/tau).
func expDecay(age int, tau float64) float64 {
	if tau <= 0 {
		return 0
	}
	return 1 / (1 + float64(age)/tau)
}

func scaleSample(s int16, gain float64) int16 {
	v := int32(float64(s) * gain)
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
