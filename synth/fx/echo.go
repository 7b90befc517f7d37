package fx

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/synth/ring"
)

const (
	defaultEchoFeedback = 0.35
	maxEchoFeedback     = 0.95
	holdFeedback        = 1.0

	// Feedback writes below this magnitude are zeroed so a decaying tail
	// dies instead of circulating as self-sustaining hiss.
	echoNoiseFloor = 50
)

// EchoOption mutates echo construction parameters.
type EchoOption func(*echoConfig) error

type echoConfig struct {
	feedback float64
}

// WithEchoFeedback sets the initial feedback amount in [0, 0.95].
func WithEchoFeedback(feedback float64) EchoOption {
	return func(cfg *echoConfig) error {
		if feedback < 0 || feedback > maxEchoFeedback || math.IsNaN(feedback) {
			return fmt.Errorf("echo feedback must be in [0, %g]: %f", maxEchoFeedback, feedback)
		}
		cfg.feedback = feedback
		return nil
	}
}

// Echo is the circular delay line with feedback. A delay of 0 bypasses the
// line entirely; infinite hold locks feedback to 1.0 so whatever is in the
// line circulates unchanged.
type Echo struct {
	buf      *ring.Buffer
	delay    int
	feedback float64
	hold     bool

	lastWet int16
}

// NewEcho creates an echo line with the given capacity in samples.
func NewEcho(capacity int, opts ...EchoOption) (*Echo, error) {
	buf, err := ring.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("echo: %w", err)
	}
	cfg := echoConfig{feedback: defaultEchoFeedback}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Echo{buf: buf, feedback: cfg.feedback}, nil
}

// SetDelay sets the delay in samples, silently clamped to [0, capacity-1].
// Zero disables the line.
func (e *Echo) SetDelay(samples int) {
	if samples < 0 {
		samples = 0
	}
	if max := e.buf.Len() - 1; samples > max {
		samples = max
	}
	e.delay = samples
}

// SetFeedback sets feedback, silently clamped to [0, 0.95]. Ignored while
// hold is engaged.
func (e *Echo) SetFeedback(feedback float64) {
	if math.IsNaN(feedback) || feedback < 0 {
		feedback = 0
	}
	if feedback > maxEchoFeedback {
		feedback = maxEchoFeedback
	}
	e.feedback = feedback
}

// SetHold engages or releases infinite hold (feedback locked to 1.0).
func (e *Echo) SetHold(hold bool) { e.hold = hold }

// Delay returns the delay in samples.
func (e *Echo) Delay() int { return e.delay }

// Feedback returns the effective feedback, accounting for hold.
func (e *Echo) Feedback() float64 {
	if e.hold {
		return holdFeedback
	}
	return e.feedback
}

// Hold reports whether infinite hold is engaged.
func (e *Echo) Hold() bool { return e.hold }

// Wet returns the delayed signal read on the last ProcessSample call. The
// reverse tap feeds from this, never from the live input.
func (e *Echo) Wet() int16 { return e.lastWet }

// ProcessSample runs one sample through the line and returns dry plus the
// delayed signal, saturated to int16.
func (e *Echo) ProcessSample(dry int16) int16 {
	if e.delay == 0 {
		e.lastWet = 0
		return dry
	}

	wet := e.buf.ReadBack(e.delay)
	e.lastWet = wet

	fb := int32(dry) + int32(float64(wet)*e.Feedback())
	// The hiss the gate kills can only build up through feedback; with the
	// path open at 0 the line stays an exact single-copy delay.
	if !e.hold && e.feedback > 0 && fb > -echoNoiseFloor && fb < echoNoiseFloor {
		fb = 0
	}
	e.buf.Write(ring.Saturate(fb))

	return ring.Saturate(int32(dry) + int32(wet))
}

// Reset clears the line.
func (e *Echo) Reset() {
	e.buf.Reset()
	e.lastWet = 0
}
