// Package mod implements the modulation and mutation engine: the two LFOs,
// the probabilistic scale-quantized mutation walker and the parameter locks
// that keep knobs from jumping when their role changes.
package mod

import (
	"fmt"
	"math"
)

// LFO rate and depth domains.
const (
	MinLFORate = 0.1
	MaxLFORate = 20.0

	defaultLFORate  = 2.0
	defaultLFODepth = 0.5
)

// LFOShape selects the modulation waveform.
type LFOShape int

// LFO shapes. Random holds a fresh random level for each full cycle.
const (
	LFOTriangle LFOShape = iota
	LFORamp
	LFOSquare
	LFORandom

	lfoShapeCount
)

func (s LFOShape) String() string {
	switch s {
	case LFOTriangle:
		return "tri"
	case LFORamp:
		return "ramp"
	case LFOSquare:
		return "square"
	case LFORandom:
		return "rand"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// LFOOption mutates LFO construction parameters.
type LFOOption func(*lfoConfig) error

type lfoConfig struct {
	rate  float64
	depth float64
	shape LFOShape
}

// WithLFORate sets the rate in Hz, range [0.1, 20].
func WithLFORate(rate float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if rate < MinLFORate || rate > MaxLFORate || math.IsNaN(rate) {
			return fmt.Errorf("lfo rate must be in [%g, %g] Hz: %f", MinLFORate, MaxLFORate, rate)
		}
		cfg.rate = rate
		return nil
	}
}

// WithLFODepth sets the depth in [0, 1].
func WithLFODepth(depth float64) LFOOption {
	return func(cfg *lfoConfig) error {
		if depth < 0 || depth > 1 || math.IsNaN(depth) {
			return fmt.Errorf("lfo depth must be in [0, 1]: %f", depth)
		}
		cfg.depth = depth
		return nil
	}
}

// WithLFOShape sets the waveform.
func WithLFOShape(shape LFOShape) LFOOption {
	return func(cfg *lfoConfig) error {
		if shape < 0 || shape >= lfoShapeCount {
			return fmt.Errorf("unknown lfo shape: %d", shape)
		}
		cfg.shape = shape
		return nil
	}
}

// LFO is a low-frequency oscillator with a normalized [0, 1) phase. Value
// returns a bipolar level scaled by depth, so a depth of 0 silences the
// modulation without stopping the phase.
type LFO struct {
	sampleRate float64
	rate       float64
	depth      float64
	shape      LFOShape

	phase  float64
	random float64
	rng    Source
}

// NewLFO creates an LFO at the given sample rate.
func NewLFO(sampleRate float64, opts ...LFOOption) (*LFO, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0: %f", sampleRate)
	}
	cfg := lfoConfig{rate: defaultLFORate, depth: defaultLFODepth, shape: LFOTriangle}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &LFO{
		sampleRate: sampleRate,
		rate:       cfg.rate,
		depth:      cfg.depth,
		shape:      cfg.shape,
		rng:        defaultSource{},
	}, nil
}

// SetRate sets the rate in Hz, silently clamped to [0.1, 20].
func (l *LFO) SetRate(rate float64) {
	if math.IsNaN(rate) || rate < MinLFORate {
		rate = MinLFORate
	}
	if rate > MaxLFORate {
		rate = MaxLFORate
	}
	l.rate = rate
}

// SetDepth sets the depth, silently clamped to [0, 1].
func (l *LFO) SetDepth(depth float64) {
	if math.IsNaN(depth) || depth < 0 {
		depth = 0
	}
	if depth > 1 {
		depth = 1
	}
	l.depth = depth
}

// SetShape sets the waveform, wrapped onto the shape count.
func (l *LFO) SetShape(shape LFOShape) {
	n := int(shape) % int(lfoShapeCount)
	if n < 0 {
		n += int(lfoShapeCount)
	}
	l.shape = LFOShape(n)
}

// SetSource replaces the randomness source used by the Random shape.
func (l *LFO) SetSource(rng Source) {
	if rng != nil {
		l.rng = rng
	}
}

// Rate returns the rate in Hz.
func (l *LFO) Rate() float64 { return l.rate }

// Depth returns the depth in [0, 1].
func (l *LFO) Depth() float64 { return l.depth }

// Shape returns the waveform.
func (l *LFO) Shape() LFOShape { return l.shape }

// Tick advances the phase one sample and returns the scaled bipolar value.
func (l *LFO) Tick() float64 {
	l.phase += l.rate / l.sampleRate
	if l.phase >= 1 {
		l.phase -= 1
		l.random = l.rng.Float64()*2 - 1
	}
	return l.Value()
}

// Value returns the current bipolar level in [-depth, depth] without
// advancing.
func (l *LFO) Value() float64 {
	var raw float64
	switch l.shape {
	case LFOTriangle:
		if l.phase < 0.5 {
			raw = 4*l.phase - 1
		} else {
			raw = 3 - 4*l.phase
		}
	case LFORamp:
		raw = 2*l.phase - 1
	case LFOSquare:
		if l.phase < 0.5 {
			raw = 1
		} else {
			raw = -1
		}
	case LFORandom:
		raw = l.random
	}
	return raw * l.depth
}

// Reset rewinds the phase.
func (l *LFO) Reset() {
	l.phase = 0
	l.random = 0
}
