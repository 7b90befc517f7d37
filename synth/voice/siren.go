package voice

import (
	"github.com/cwbudde/algo-synth/synth/fx"
	"github.com/cwbudde/algo-synth/synth/osc"
)

// Siren sub-modes.
const (
	SirenClassic = iota
	SirenDeepSub
	SirenSquare
	SirenLoFi
	SirenRingMod
	SirenPortamento

	sirenModeCount
)

var sirenModeNames = [sirenModeCount]string{
	"classic", "deep sub", "square", "lo-fi", "ring mod", "portamento",
}

// sirenSweepScale converts the LFO's ±1 level into a frequency offset in
// Hz at full depth.
const sirenSweepScale = 400.0

// Siren is the swept-tone instrument. The primary LFO adds a frequency
// sweep to the carrier; each sub-mode colors the result differently. The
// one-pole lowpass is always in circuit.
type Siren struct {
	mode  int
	knobs [KnobCount]float64

	carrier osc.Phase
	sub     osc.Phase
	modOsc  osc.Phase
	glide   *osc.Portamento
	filter  *fx.Lowpass
}

// NewSiren returns a siren in classic mode.
func NewSiren() *Siren {
	glide, _ := osc.NewPortamento(0.005)
	s := &Siren{
		glide:  glide,
		filter: fx.NewLowpass(),
	}
	s.knobs[KnobCharacter] = 1
	return s
}

// Name returns "siren".
func (s *Siren) Name() string { return "siren" }

// ModeCount returns the number of siren sub-modes.
func (s *Siren) ModeCount() int { return sirenModeCount }

// SetMode selects a sub-mode, wrapped onto the mode count.
func (s *Siren) SetMode(mode int) { s.mode = wrapMode(mode, sirenModeCount) }

// Mode returns the active sub-mode.
func (s *Siren) Mode() int { return s.mode }

// ModeName returns the active sub-mode's display name.
func (s *Siren) ModeName() string { return sirenModeNames[s.mode] }

// SetControl feeds a normalized knob. The character knob drives the filter
// cutoff in every mode, the bit depth in lo-fi and the modulator frequency
// in ring mod.
func (s *Siren) SetControl(index int, value float64) {
	if index < 0 || index >= KnobCount {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	s.knobs[index] = value
}

// GenerateSample renders one siren sample.
func (s *Siren) GenerateSample(ctx Context) int16 {
	if !ctx.Gate {
		s.filter.ProcessSample(0)
		return 0
	}

	freq := clampCarrier((ctx.BaseFreq + ctx.LFO*sirenSweepScale) * ctx.PitchScale)

	if s.mode == SirenPortamento {
		s.glide.SetTarget(freq)
		freq = clampCarrier(s.glide.Tick())
	}

	s.carrier.SetFrequency(freq, ctx.SampleRate)
	phase := s.carrier.Advance()

	var sample int16
	switch s.mode {
	case SirenSquare:
		sample = osc.Square(phase)
	case SirenDeepSub:
		s.sub.SetFrequency(freq/2, ctx.SampleRate)
		subSample := osc.Sawtooth(s.sub.Advance())
		sample = int16((int32(triSawBlend(phase)) + int32(subSample)) / 2)
	case SirenLoFi:
		bits := 2 + int(s.knobs[KnobCharacter]*10)
		sample = osc.BitCrush(triSawBlend(phase), bits)
	case SirenRingMod:
		modFreq := 50 + s.knobs[KnobCharacter]*2000
		s.modOsc.SetFrequency(modFreq, ctx.SampleRate)
		sample = fx.RingMod(triSawBlend(phase), osc.FastSine(s.modOsc.Advance()))
	default: // classic, portamento
		sample = triSawBlend(phase)
	}

	s.filter.SetCutoff(200 + int(s.knobs[KnobCharacter]*float64(fx.MaxCutoff-200)))
	return s.filter.ProcessSample(sample)
}

// Reset rewinds all oscillator and filter state.
func (s *Siren) Reset() {
	s.carrier.Reset()
	s.sub.Reset()
	s.modOsc.Reset()
	s.glide.Jump(0)
	s.filter.Reset()
}
