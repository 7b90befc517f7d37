// Package tune holds the musical lookup tables of the engine: scale
// definitions, scale-quantized pitch mapping and the tempo division ladder
// used by rhythm mutation.
package tune

import (
	"fmt"
	"math"
)

// Scale identifies one of the built-in scales.
type Scale int

// Built-in scales. Interval tables are ascending semitone offsets from the
// root within one octave.
const (
	ScaleMajor Scale = iota
	ScaleMinor
	ScalePentatonicMajor
	ScalePentatonicMinor
	ScaleBlues
	ScaleChromatic

	ScaleCount
)

var scaleNames = [ScaleCount]string{
	"major",
	"minor",
	"pent maj",
	"pent min",
	"blues",
	"chromatic",
}

var scaleIntervals = [ScaleCount][]int{
	{0, 2, 4, 5, 7, 9, 11},
	{0, 2, 3, 5, 7, 8, 10},
	{0, 2, 4, 7, 9},
	{0, 3, 5, 7, 10},
	{0, 3, 5, 6, 7, 10},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// Normalize wraps any integer onto a valid Scale by modulo over the scale
// count, so a scale index can never be out of range.
func Normalize(s int) Scale {
	n := s % int(ScaleCount)
	if n < 0 {
		n += int(ScaleCount)
	}
	return Scale(n)
}

// String returns the display name of the scale.
func (s Scale) String() string {
	if s < 0 || s >= ScaleCount {
		return fmt.Sprintf("scale(%d)", int(s))
	}
	return scaleNames[s]
}

// Size returns the number of degrees per octave.
func (s Scale) Size() int {
	return len(scaleIntervals[Normalize(int(s))])
}

// Intervals returns the semitone offsets of the scale. The slice must not
// be mutated.
func (s Scale) Intervals() []int {
	return scaleIntervals[Normalize(int(s))]
}

// Quantize maps a non-negative scale step onto a frequency: step indexes
// the scale degrees upward from rootHz, and every full scale length doubles
// the frequency exactly. Negative steps are clamped to 0.
func Quantize(rootHz float64, scale Scale, step int) float64 {
	if rootHz <= 0 {
		return 0
	}
	if step < 0 {
		step = 0
	}
	intervals := scale.Intervals()
	size := len(intervals)
	octave := step / size
	degree := step % size
	return rootHz * math.Exp2(float64(octave)) * semitoneRatio(intervals[degree])
}

func semitoneRatio(semitones int) float64 {
	return math.Exp2(float64(semitones) / 12)
}

// MaxStep returns the exclusive upper bound of the mutation pitch walk for
// a scale: four octaves of degrees.
func MaxStep(scale Scale) int {
	return scale.Size() * 4
}

// TempoDivisions are the musical step-interval multipliers the rhythm
// mutation tier walks over, relative to the base step interval.
var TempoDivisions = []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4}
