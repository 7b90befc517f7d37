// Package seq implements the 8-step sequencer and the rhythmic loop-pattern
// gate. The sequencer advances on external sync edges when present, or on an
// internal step timer otherwise, skipping disabled steps; each step carries
// its own locked frequency and one of five timbres. Loop patterns are pure
// threshold functions over the normalized position inside a pattern period
// and gate a held trigger rhythmically.
package seq
