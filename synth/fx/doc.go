// Package fx implements the shared effects chain of the synth engine in
// int16 fixed point: a one-pole lowpass, a ring modulator, the echo/delay
// line with feedback and infinite hold, the reversed/pitch-shifted delay tap
// and the sidechain ducking envelope.
//
// Everything here runs on the audio-rate path. Per-sample processing never
// allocates, and runtime parameter setters clamp out-of-range values
// silently instead of failing, so a wild knob sweep can degrade the sound
// but never halt it.
package fx
