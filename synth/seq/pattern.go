package seq

import (
	"fmt"
	"math"
)

// Pattern names a rhythmic gate shape. Each pattern is a pure threshold
// function of the normalized position inside one pattern period, so the
// audio task evaluates it with a divide and a compare per tick.
type Pattern int

// Loop gate patterns.
const (
	PatternStraight Pattern = iota
	PatternTriplet
	PatternSwing
	PatternStaccato
	PatternGate
	PatternRatchet
	PatternDotted

	PatternCount
)

var patternNames = [PatternCount]string{
	"straight", "triplet", "swing", "staccato", "gate", "ratchet", "dotted",
}

func (p Pattern) String() string {
	if p < 0 || p >= PatternCount {
		return fmt.Sprintf("pattern(%d)", int(p))
	}
	return patternNames[p]
}

// NormalizePattern wraps an arbitrary index onto a valid pattern.
func NormalizePattern(i int) Pattern {
	i %= int(PatternCount)
	if i < 0 {
		i += int(PatternCount)
	}
	return Pattern(i)
}

func frac(x float64) float64 { return x - math.Floor(x) }

// Open reports whether the gate is open at the given position in [0, 1)
// within the pattern period.
func (p Pattern) Open(position float64) bool {
	position = frac(position)
	switch p {
	case PatternTriplet:
		return frac(position*3) < 0.5
	case PatternSwing:
		// Long-short pairs: the first pulse of each half rings longer.
		half := frac(position * 2)
		if position < 0.5 {
			return half < 0.66
		}
		return half < 0.33
	case PatternStaccato:
		return frac(position*4) < 0.2
	case PatternGate:
		return frac(position*2) < 0.5
	case PatternRatchet:
		return frac(position*12) < 0.5
	case PatternDotted:
		// Dotted-eighth onsets at 0, 3/8 and 3/4 of the period.
		return position < 0.2 ||
			(position >= 0.375 && position < 0.575) ||
			(position >= 0.75 && position < 0.95)
	default: // straight quarters
		return frac(position*4) < 0.5
	}
}

// Looper tracks elapsed time inside a repeating pattern period and gates a
// held trigger through the selected pattern.
type Looper struct {
	pattern Pattern
	period  int // ticks
	elapsed int
}

// NewLooper returns a looper with the given period in ticks.
func NewLooper(periodTicks int) (*Looper, error) {
	if periodTicks < 1 {
		return nil, fmt.Errorf("seq: loop period must be at least 1 tick, got %d", periodTicks)
	}
	return &Looper{period: periodTicks}, nil
}

// SetPattern selects the gate pattern, wrapped onto the pattern count.
func (l *Looper) SetPattern(p Pattern) { l.pattern = NormalizePattern(int(p)) }

// Pattern returns the active gate pattern.
func (l *Looper) Pattern() Pattern { return l.pattern }

// SetPeriod sets the pattern period in ticks, silently clamped to one.
func (l *Looper) SetPeriod(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	l.period = ticks
}

// Period returns the pattern period in ticks.
func (l *Looper) Period() int { return l.period }

// Tick advances the loop position by one sample period.
func (l *Looper) Tick() {
	l.elapsed++
	if l.elapsed >= l.period {
		l.elapsed = 0
	}
}

// Gate applies the pattern to a held trigger: false input is false output,
// true input passes only while the pattern is open.
func (l *Looper) Gate(held bool) bool {
	if !held {
		return false
	}
	return l.pattern.Open(float64(l.elapsed) / float64(l.period))
}

// Reset rewinds the loop position to the start of the period.
func (l *Looper) Reset() { l.elapsed = 0 }
