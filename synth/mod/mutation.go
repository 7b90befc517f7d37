package mod

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/synth/tune"
)

// Tier selects how much the mutation engine is allowed to touch.
type Tier int

// Mutation tiers. Each tier includes everything below it.
const (
	TierOff Tier = iota
	TierPitch
	TierPitchRhythm
	TierPitchRhythmCutoff

	tierCount
)

func (t Tier) String() string {
	switch t {
	case TierOff:
		return "off"
	case TierPitch:
		return "pitch"
	case TierPitchRhythm:
		return "pitch+rhythm"
	case TierPitchRhythmCutoff:
		return "pitch+rhythm+cutoff"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// NormalizeTier wraps any integer onto a valid tier.
func NormalizeTier(t int) Tier {
	n := t % int(tierCount)
	if n < 0 {
		n += int(tierCount)
	}
	return Tier(n)
}

// Walk step odds: ±1 step 60%, ±2 steps 30%, ±octave 10%.
const (
	walkSingleOdds = 0.6
	walkDoubleOdds = 0.9
)

// Cutoff jitter magnitude per mutation, in filter coefficient units.
const cutoffWalkStep = 384

// Mutation is the generative random walker. On every trigger rising edge
// the engine calls OnTrigger; with the configured probability the walker
// moves the scale-quantized pitch step, and, at the higher tiers, the tempo
// division and the filter cutoff.
type Mutation struct {
	tier        Tier
	scale       tune.Scale
	probability float64

	pitchStep  int
	tempoIndex int
	cutoff     int

	rng Source
}

// NewMutation returns a walker at tier off with sensible defaults: scale
// pentatonic minor, probability 0.5, pitch step 0, tempo division 1x.
func NewMutation() *Mutation {
	return &Mutation{
		scale:       tune.ScalePentatonicMinor,
		probability: 0.5,
		tempoIndex:  tempoUnityIndex(),
		cutoff:      4095,
		rng:         defaultSource{},
	}
}

func tempoUnityIndex() int {
	for i, d := range tune.TempoDivisions {
		if d == 1 {
			return i
		}
	}
	return 0
}

// SetSource replaces the randomness source.
func (m *Mutation) SetSource(rng Source) {
	if rng != nil {
		m.rng = rng
	}
}

// SetTier sets the active tier, wrapped onto the tier count.
func (m *Mutation) SetTier(t Tier) { m.tier = NormalizeTier(int(t)) }

// SetScale sets the quantization scale and re-bounds the pitch step.
func (m *Mutation) SetScale(s tune.Scale) {
	m.scale = tune.Normalize(int(s))
	m.pitchStep = m.clampStep(m.pitchStep)
}

// SetProbability sets the walk odds per trigger, silently clamped to [0, 1].
func (m *Mutation) SetProbability(p float64) {
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	m.probability = p
}

// Tier returns the active tier.
func (m *Mutation) Tier() Tier { return m.tier }

// Scale returns the quantization scale.
func (m *Mutation) Scale() tune.Scale { return m.scale }

// Probability returns the walk odds per trigger.
func (m *Mutation) Probability() float64 { return m.probability }

// PitchStep returns the current scale step in [0, scaleSize*4).
func (m *Mutation) PitchStep() int { return m.pitchStep }

// TempoScale returns the current tempo division multiplier.
func (m *Mutation) TempoScale() float64 { return tune.TempoDivisions[m.tempoIndex] }

// Cutoff returns the mutated filter cutoff coefficient.
func (m *Mutation) Cutoff() int { return m.cutoff }

// Frequency quantizes the current pitch step against the given root.
func (m *Mutation) Frequency(rootHz float64) float64 {
	return tune.Quantize(rootHz, m.scale, m.pitchStep)
}

// OnTrigger runs one mutation round and reports whether anything changed.
// At tier off, or when the probability roll fails, nothing moves.
func (m *Mutation) OnTrigger() bool {
	if m.tier == TierOff {
		return false
	}
	if m.rng.Float64() >= m.probability {
		return false
	}

	m.walkPitch()
	if m.tier >= TierPitchRhythm {
		m.walkTempo()
	}
	if m.tier >= TierPitchRhythmCutoff {
		m.walkCutoff()
	}
	return true
}

func (m *Mutation) walkPitch() {
	size := m.scale.Size()
	var delta int
	r := m.rng.Float64()
	switch {
	case r < walkSingleOdds:
		delta = 1
	case r < walkDoubleOdds:
		delta = 2
	default:
		delta = size // full octave
	}
	if m.rng.IntN(2) == 1 {
		delta = -delta
	}

	next := m.pitchStep + delta
	if next < 0 || next >= tune.MaxStep(m.scale) {
		// Bouncing off the bound keeps probability 1.0 a guaranteed change.
		next = m.pitchStep - delta
	}
	m.pitchStep = m.clampStep(next)
}

func (m *Mutation) walkTempo() {
	delta := 1
	if m.rng.IntN(2) == 1 {
		delta = -1
	}
	next := m.tempoIndex + delta
	if next < 0 || next >= len(tune.TempoDivisions) {
		next = m.tempoIndex - delta
	}
	m.tempoIndex = next
}

func (m *Mutation) walkCutoff() {
	delta := m.rng.IntN(cutoffWalkStep*2+1) - cutoffWalkStep
	next := m.cutoff + delta
	if next < 0 {
		next = 0
	}
	if next > 4095 {
		next = 4095
	}
	m.cutoff = next
}

func (m *Mutation) clampStep(step int) int {
	max := tune.MaxStep(m.scale)
	if step < 0 {
		return 0
	}
	if step >= max {
		return max - 1
	}
	return step
}

// Reset returns the walker to its power-up state without touching tier,
// scale or probability.
func (m *Mutation) Reset() {
	m.pitchStep = 0
	m.tempoIndex = tempoUnityIndex()
	m.cutoff = 4095
}
