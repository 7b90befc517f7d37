package voice

import (
	"math"

	"github.com/cwbudde/algo-synth/synth/fx"
	"github.com/cwbudde/algo-synth/synth/osc"
)

// Ray gun sub-modes.
const (
	RayGunZap = iota
	RayGunLaser
	RayGunBlaster
	RayGunPhaser

	rayGunModeCount
)

var rayGunModeNames = [rayGunModeCount]string{
	"zap", "laser", "blaster", "phaser",
}

// The sweep multiplies the carrier by up to this factor at full travel.
const rayGunSweepMax = 3.0

// RayGun is the sweep-effect instrument. A retriggered sweep LFO moves the
// carrier multiplicatively by up to 3x; the character knob doubles as
// resonance, driving the filter coefficient.
type RayGun struct {
	mode  int
	knobs [KnobCount]float64

	carrier osc.Phase
	detuned osc.Phase
	rnd     noise
	filter  *fx.Lowpass
}

// NewRayGun returns a ray gun in zap mode.
func NewRayGun() *RayGun {
	g := &RayGun{filter: fx.NewLowpass()}
	g.knobs[KnobCharacter] = 0.8
	return g
}

// Name returns "ray gun".
func (g *RayGun) Name() string { return "ray gun" }

// ModeCount returns the number of ray gun sub-modes.
func (g *RayGun) ModeCount() int { return rayGunModeCount }

// SetMode selects a sub-mode, wrapped onto the mode count.
func (g *RayGun) SetMode(mode int) { g.mode = wrapMode(mode, rayGunModeCount) }

// Mode returns the active sub-mode.
func (g *RayGun) Mode() int { return g.mode }

// ModeName returns the active sub-mode's display name.
func (g *RayGun) ModeName() string { return rayGunModeNames[g.mode] }

// SetControl feeds a normalized knob.
func (g *RayGun) SetControl(index int, value float64) {
	if index < 0 || index >= KnobCount {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	g.knobs[index] = value
}

// sweep returns the sweep position in [0, 1): the fraction of one sweep
// cycle elapsed since the trigger, at the LFO rate.
func (g *RayGun) sweep(ctx Context) float64 {
	period := ctx.SampleRate / ctx.LFORate
	if period <= 0 {
		return 0
	}
	pos := float64(ctx.TriggerAge) / period
	return pos - math.Floor(pos)
}

// GenerateSample renders one ray gun sample.
func (g *RayGun) GenerateSample(ctx Context) int16 {
	if !ctx.Gate {
		g.filter.ProcessSample(0)
		return 0
	}

	pos := g.sweep(ctx)
	var sample int16

	switch g.mode {
	case RayGunZap:
		// Up-sweep: carrier climbs toward 3x over each sweep cycle.
		freq := clampCarrier(ctx.BaseFreq * (1 + pos*(rayGunSweepMax-1)) * ctx.PitchScale)
		g.carrier.SetFrequency(freq, ctx.SampleRate)
		sample = osc.Sawtooth(g.carrier.Advance())

	case RayGunLaser:
		// Down-sweep square with a noise burst riding the first 30 ms.
		freq := clampCarrier(ctx.BaseFreq * (rayGunSweepMax - pos*(rayGunSweepMax-1)) * ctx.PitchScale)
		g.carrier.SetFrequency(freq, ctx.SampleRate)
		sample = osc.Square(g.carrier.Advance())
		if burst := int(ctx.SampleRate * 0.03); ctx.TriggerAge < burst {
			sample = int16((int32(sample) + int32(g.rnd.next())) / 2)
		}

	case RayGunBlaster:
		// Fast symmetric wobble around the carrier.
		wobble := 1 + 0.5*math.Abs(2*pos-1)
		freq := clampCarrier(ctx.BaseFreq * wobble * ctx.PitchScale)
		g.carrier.SetFrequency(freq, ctx.SampleRate)
		sample = osc.Triangle(g.carrier.Advance())

	case RayGunPhaser:
		// Two detuned squares summed; the beat between them does the work.
		freq := clampCarrier(ctx.BaseFreq * (1 + pos*(rayGunSweepMax-1)) * ctx.PitchScale)
		g.carrier.SetFrequency(freq, ctx.SampleRate)
		g.detuned.SetFrequency(freq*1.02, ctx.SampleRate)
		sample = int16((int32(osc.Square(g.carrier.Advance())) + int32(osc.Square(g.detuned.Advance()))) / 2)
	}

	// Resonance knob drives the filter coefficient directly.
	g.filter.SetCutoff(int(g.knobs[KnobCharacter] * float64(fx.MaxCutoff)))
	return g.filter.ProcessSample(sample)
}

// Reset rewinds all oscillator and filter state.
func (g *RayGun) Reset() {
	g.carrier.Reset()
	g.detuned.Reset()
	g.filter.Reset()
}
