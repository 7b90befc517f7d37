package fx

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/synth/ring"
)

const (
	minReverseShift = -2
	maxReverseShift = 2
)

// Reverse is the reversed/pitch-shifted delay tap. It records the echo
// line's wet output into its own ring and plays it back with the cursor
// running the other way; the pitch shift re-samples that delayed signal at
// 2^shift speed (sub-sampling for down shifts, skipping ahead for up
// shifts). The live signal never enters this buffer.
type Reverse struct {
	buf    *ring.Buffer
	shift  int     // octaves, -2..+2
	mix    float64 // wet/dry, 0..1
	offset float64 // playback distance behind the write cursor, in samples
}

// NewReverse creates a reverse tap with the given ring capacity in samples.
func NewReverse(capacity int) (*Reverse, error) {
	buf, err := ring.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("reverse: %w", err)
	}
	return &Reverse{buf: buf, offset: 1}, nil
}

// SetShift sets the pitch shift in octaves, silently clamped to [-2, +2].
func (r *Reverse) SetShift(octaves int) {
	if octaves < minReverseShift {
		octaves = minReverseShift
	}
	if octaves > maxReverseShift {
		octaves = maxReverseShift
	}
	r.shift = octaves
}

// SetMix sets the wet/dry mix, silently clamped to [0, 1].
func (r *Reverse) SetMix(mix float64) {
	if math.IsNaN(mix) || mix < 0 {
		mix = 0
	}
	if mix > 1 {
		mix = 1
	}
	r.mix = mix
}

// Shift returns the pitch shift in octaves.
func (r *Reverse) Shift() int { return r.shift }

// Mix returns the wet/dry mix in [0, 1].
func (r *Reverse) Mix() float64 { return r.mix }

// rate is the reverse playback speed: 1/4x, 1/2x, 1x, 2x, 4x.
func (r *Reverse) rate() float64 {
	return math.Exp2(float64(r.shift))
}

// ProcessSample records the delayed (wet) signal and returns it cross-faded
// with its reversed, re-sampled image.
func (r *Reverse) ProcessSample(delayed int16) int16 {
	r.buf.Write(delayed)

	// Write moved forward one sample, playback moved backward by rate, so
	// the gap widens by 1+rate each tick. Restart near live when the gap
	// would swallow the whole ring.
	r.offset += 1 + r.rate()
	if r.offset >= float64(r.buf.Len()) {
		r.offset = 1
	}

	reversed := r.buf.At(r.buf.WriteIndex() - int(r.offset))
	out := float64(delayed)*(1-r.mix) + float64(reversed)*r.mix
	return ring.Saturate(int32(out))
}

// Reset clears the ring and rewinds the playback cursor.
func (r *Reverse) Reset() {
	r.buf.Reset()
	r.offset = 1
}
