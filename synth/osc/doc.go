// Package osc provides the fixed-point oscillator primitives of the synth
// engine: a wrap-safe 32-bit phase accumulator, period-2³² waveform shapers
// producing samples in [-16384, 16383], an integer bit crusher and an
// exponential portamento smoother.
//
// The shapers are deliberately crude. The fast sine in particular is a
// two-segment piecewise-linear approximation keyed off the top 8 phase bits,
// not a true sine; the aliasing and corner harmonics are part of the
// instrument's character and must not be "fixed" by substituting math.Sin.
package osc
