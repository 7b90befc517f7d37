package voice

import (
	"math"

	"github.com/cwbudde/algo-synth/synth/osc"
	"github.com/cwbudde/algo-synth/synth/tune"
)

// Lead sub-modes.
const (
	LeadSequence = iota
	LeadArpeggio
	LeadEuclidean
	LeadGenerative

	leadModeCount
)

var leadModeNames = [leadModeCount]string{
	"sequence", "arpeggio", "euclidean", "generative",
}

const (
	leadSlotCount   = 16
	leadGateFadeSec = 0.05
	vibratoRateHz   = 5.0
)

// Factory note pattern for sequence mode, in scale steps.
var leadDefaultSlots = [leadSlotCount]int{
	0, 3, 5, 3, 7, 5, 3, 0,
	0, 3, 5, 7, 10, 7, 5, 3,
}

// Lead is the generative lead synth: a 16-slot note sequence that advances
// only while triggered, with the rate knob (via the LFO rate) setting the
// step rate. Arpeggio jumps an octave every fourth slot, euclidean gates
// slots through the Bjorklund hit test, generative re-rolls the pattern
// each cycle.
type Lead struct {
	mode  int
	knobs [KnobCount]float64
	scale tune.Scale

	slots      [leadSlotCount]int
	slot       int
	tickInSlot int

	carrier osc.Phase
	rnd     noise
	env     float64
}

// NewLead returns a lead in sequence mode with the factory pattern.
func NewLead() *Lead {
	l := &Lead{
		scale: tune.ScalePentatonicMinor,
		slots: leadDefaultSlots,
	}
	l.knobs[KnobCharacter] = 0.5
	return l
}

// Name returns "lead".
func (l *Lead) Name() string { return "lead" }

// ModeCount returns the number of lead sub-modes.
func (l *Lead) ModeCount() int { return leadModeCount }

// SetMode selects a sub-mode, wrapped onto the mode count.
func (l *Lead) SetMode(mode int) { l.mode = wrapMode(mode, leadModeCount) }

// Mode returns the active sub-mode.
func (l *Lead) Mode() int { return l.mode }

// ModeName returns the active sub-mode's display name.
func (l *Lead) ModeName() string { return leadModeNames[l.mode] }

// SetScale sets the quantization scale for slot pitches.
func (l *Lead) SetScale(s tune.Scale) { l.scale = tune.Normalize(int(s)) }

// SetControl feeds a normalized knob. Character sets the euclidean pulse
// count and the vibrato depth.
func (l *Lead) SetControl(index int, value float64) {
	if index < 0 || index >= KnobCount {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	l.knobs[index] = value
}

// Slot returns the current slot index.
func (l *Lead) Slot() int { return l.slot }

// euclideanHit is the Bjorklund-style test: slot i carries a hit when
// (i*pulses) mod slots < pulses, distributing pulses as evenly as the
// grid allows.
func euclideanHit(slot, pulses, slots int) bool {
	if pulses <= 0 {
		return false
	}
	if pulses >= slots {
		return true
	}
	return (slot*pulses)%slots < pulses
}

func (l *Lead) stepIntervalTicks(ctx Context) int {
	// The rate knob doubles as the step rate: 0.1..20 steps per second.
	if ctx.LFORate <= 0 {
		return int(ctx.SampleRate)
	}
	return int(ctx.SampleRate / ctx.LFORate)
}

func (l *Lead) advance() {
	l.slot++
	if l.slot >= leadSlotCount {
		l.slot = 0
		if l.mode == LeadGenerative {
			l.reroll()
		}
	}
}

// reroll replaces the whole pattern with fresh scale steps, two octaves of
// range.
func (l *Lead) reroll() {
	span := l.scale.Size() * 2
	for i := range l.slots {
		l.slots[i] = int(uint32(l.rnd.next())) % span
	}
}

// GenerateSample renders one lead sample.
func (l *Lead) GenerateSample(ctx Context) int16 {
	interval := l.stepIntervalTicks(ctx)

	audible := ctx.Gate
	if ctx.Gate {
		l.tickInSlot++
		if l.tickInSlot >= interval {
			l.tickInSlot = 0
			l.advance()
		}
	} else {
		l.tickInSlot = 0
	}

	step := l.slots[l.slot]
	switch l.mode {
	case LeadArpeggio:
		if l.slot%4 == 3 {
			step += l.scale.Size() // octave jump every fourth slot
		}
	case LeadEuclidean:
		pulses := 1 + int(l.knobs[KnobCharacter]*float64(leadSlotCount-1))
		if !euclideanHit(l.slot, pulses, leadSlotCount) {
			audible = false
		}
	}

	// 50 ms linear fade toward the gate target; reused as the note fade.
	fade := 1 / (leadGateFadeSec * ctx.SampleRate)
	if audible {
		l.env += fade
		if l.env > 1 {
			l.env = 1
		}
	} else {
		l.env -= fade
		if l.env < 0 {
			l.env = 0
		}
	}
	if l.env == 0 {
		return 0
	}

	freq := tune.Quantize(ctx.BaseFreq, l.scale, step)
	vibDepth := 0.005 + l.knobs[KnobDepth]*0.02
	vib := 1 + vibDepth*math.Sin(2*math.Pi*vibratoRateHz*float64(ctx.TriggerAge)/ctx.SampleRate)
	l.carrier.SetFrequency(clampCarrier(freq*vib*ctx.PitchScale), ctx.SampleRate)

	return scaleSample(triSawBlend(l.carrier.Advance()), l.env)
}

// Reset rewinds the pattern, envelope and oscillator state.
func (l *Lead) Reset() {
	l.slot = 0
	l.tickInSlot = 0
	l.env = 0
	l.slots = leadDefaultSlots
	l.carrier.Reset()
}
