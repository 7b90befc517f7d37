// Package trig resolves the synth's trigger inputs into a single gate.
// Keyboard keys win over the trigger button, which wins over external sync;
// key and button holds gate directly while sync pulses open a timed gate
// from a preset table that closes on its own. The package also hosts the
// modal special-function selector driven by the function-shift control.
package trig
