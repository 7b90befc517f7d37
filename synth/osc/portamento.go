package osc

import (
	"fmt"
	"math"
)

const (
	defaultPortamentoGlide = 0.01
	portamentoSnapUnits    = 1.0
)

// Portamento exponentially approaches a target frequency:
//
//	next = current + (target - current) * glide
//
// and snaps to the target once within one unit of it, so a glide never
// lingers on an inaudible fraction.
type Portamento struct {
	current float64
	target  float64
	glide   float64
}

// NewPortamento creates a smoother with the given per-tick glide factor in
// (0, 1]. A glide of 1 follows the target instantly.
func NewPortamento(glide float64) (*Portamento, error) {
	p := &Portamento{}
	if err := p.SetGlide(glide); err != nil {
		return nil, err
	}
	return p, nil
}

// SetGlide sets the per-tick glide factor in (0, 1].
func (p *Portamento) SetGlide(glide float64) error {
	if glide <= 0 || glide > 1 || math.IsNaN(glide) {
		return fmt.Errorf("portamento glide must be in (0, 1]: %f", glide)
	}
	p.glide = glide
	return nil
}

// SetTarget sets the frequency the smoother drifts toward.
func (p *Portamento) SetTarget(target float64) { p.target = target }

// Jump forces current and target to the given value with no glide.
func (p *Portamento) Jump(value float64) {
	p.current = value
	p.target = value
}

// Tick advances one sample and returns the smoothed value.
func (p *Portamento) Tick() float64 {
	diff := p.target - p.current
	if math.Abs(diff) <= portamentoSnapUnits {
		p.current = p.target
		return p.current
	}
	p.current += diff * p.glide
	return p.current
}

// Value returns the current smoothed value without advancing.
func (p *Portamento) Value() float64 { return p.current }

// Glide returns the per-tick glide factor.
func (p *Portamento) Glide() float64 { return p.glide }
