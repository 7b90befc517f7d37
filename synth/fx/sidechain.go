package fx

import (
	"fmt"
	"math"
)

const (
	defaultSidechainAttackMs  = 40.0
	defaultSidechainReleaseMs = 180.0
	minSidechainTimeMs        = 1.0
	maxSidechainTimeMs        = 2000.0
)

// SidechainOption mutates sidechain construction parameters.
type SidechainOption func(*sidechainConfig) error

type sidechainConfig struct {
	attackMs  float64
	releaseMs float64
}

// WithSidechainAttack sets the duck time in ms, range [1, 2000].
func WithSidechainAttack(ms float64) SidechainOption {
	return func(cfg *sidechainConfig) error {
		if ms < minSidechainTimeMs || ms > maxSidechainTimeMs || math.IsNaN(ms) {
			return fmt.Errorf("sidechain attack must be in [%g, %g] ms: %f",
				minSidechainTimeMs, maxSidechainTimeMs, ms)
		}
		cfg.attackMs = ms
		return nil
	}
}

// WithSidechainRelease sets the recovery time in ms, range [1, 2000].
func WithSidechainRelease(ms float64) SidechainOption {
	return func(cfg *sidechainConfig) error {
		if ms < minSidechainTimeMs || ms > maxSidechainTimeMs || math.IsNaN(ms) {
			return fmt.Errorf("sidechain release must be in [%g, %g] ms: %f",
				minSidechainTimeMs, maxSidechainTimeMs, ms)
		}
		cfg.releaseMs = ms
		return nil
	}
}

// Sidechain is the ducking envelope applied as the final gain stage. On a
// trigger the gain falls linearly to 1-depth over the attack time, then
// recovers linearly to 1 over the release time. If no trigger arrives for a
// full attack+release cycle it retriggers itself, which keeps the pumping
// going against a silent sync input.
type Sidechain struct {
	sampleRate float64
	depth      float64
	attackMs   float64
	releaseMs  float64

	envelope     float64
	ticksInCycle int
}

// NewSidechain creates a ducking envelope at the given sample rate.
func NewSidechain(sampleRate float64, opts ...SidechainOption) (*Sidechain, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sidechain sample rate must be > 0: %f", sampleRate)
	}
	cfg := sidechainConfig{
		attackMs:  defaultSidechainAttackMs,
		releaseMs: defaultSidechainReleaseMs,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Sidechain{
		sampleRate: sampleRate,
		attackMs:   cfg.attackMs,
		releaseMs:  cfg.releaseMs,
		envelope:   1,
	}, nil
}

// SetDepth sets the duck depth, silently clamped to [0, 1]. Zero disables
// ducking.
func (s *Sidechain) SetDepth(depth float64) {
	if math.IsNaN(depth) || depth < 0 {
		depth = 0
	}
	if depth > 1 {
		depth = 1
	}
	s.depth = depth
}

// SetTimes sets attack and release in ms, silently clamped to [1, 2000].
func (s *Sidechain) SetTimes(attackMs, releaseMs float64) {
	s.attackMs = clampTimeMs(attackMs)
	s.releaseMs = clampTimeMs(releaseMs)
}

func clampTimeMs(ms float64) float64 {
	if math.IsNaN(ms) || ms < minSidechainTimeMs {
		return minSidechainTimeMs
	}
	if ms > maxSidechainTimeMs {
		return maxSidechainTimeMs
	}
	return ms
}

// Depth returns the duck depth in [0, 1].
func (s *Sidechain) Depth() float64 { return s.depth }

// Envelope returns the current gain in [1-depth, 1].
func (s *Sidechain) Envelope() float64 { return s.envelope }

// Trigger restarts the duck cycle.
func (s *Sidechain) Trigger() { s.ticksInCycle = 0 }

func (s *Sidechain) attackTicks() int {
	return int(s.attackMs / 1000 * s.sampleRate)
}

func (s *Sidechain) releaseTicks() int {
	return int(s.releaseMs / 1000 * s.sampleRate)
}

// Tick advances the envelope one sample and returns the gain.
func (s *Sidechain) Tick() float64 {
	if s.depth == 0 {
		s.envelope = 1
		return 1
	}

	attack := s.attackTicks()
	release := s.releaseTicks()
	floor := 1 - s.depth

	switch {
	case s.ticksInCycle < attack:
		s.envelope = 1 - s.depth*float64(s.ticksInCycle)/float64(attack)
	case s.ticksInCycle < attack+release:
		s.envelope = floor + s.depth*float64(s.ticksInCycle-attack)/float64(release)
	default:
		// Idle past a full cycle: retrigger.
		s.envelope = 1
		s.ticksInCycle = -1
	}
	s.ticksInCycle++
	return s.envelope
}

// Apply runs one sample through the current gain without advancing the
// envelope.
func (s *Sidechain) Apply(sample int16) int16 {
	return int16(float64(sample) * s.envelope)
}

// Reset returns the envelope to unity gain.
func (s *Sidechain) Reset() {
	s.envelope = 1
	s.ticksInCycle = 0
}
