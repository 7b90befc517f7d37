// Package audioio carries the engine's samples to a sound device. The
// default backend is oto; building with the portaudio tag swaps it for a
// portaudio stream, and the headless tag drops audio output entirely.
package audioio

// Source delivers one mono sample per call at the agreed sample rate.
// The engine's Tick satisfies it.
type Source interface {
	Tick() int16
}

// Output drives a Source into a playback device.
type Output interface {
	// Start begins pulling samples from src. It returns once playback is
	// running; samples flow until Close.
	Start(src Source) error
	Close() error
}
