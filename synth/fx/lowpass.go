package fx

// Lowpass cutoff domain. 0..4095 maps roughly onto a 200 Hz..4 kHz corner
// at the 22,050 Hz engine rate; 4095 is effectively wide open.
const (
	MaxCutoff = 4095
	MinCutoff = 0
)

// Lowpass is a one-pole integer lowpass:
//
//	state += (x - state) * cutoff >> 12
//
// The 12-bit shift makes the cutoff knob value the filter coefficient
// directly, the way the hardware did it.
type Lowpass struct {
	state  int32
	cutoff int32
}

// NewLowpass returns a filter with the cutoff fully open.
func NewLowpass() *Lowpass {
	return &Lowpass{cutoff: MaxCutoff}
}

// SetCutoff sets the cutoff coefficient, silently clamped to [0, 4095].
func (f *Lowpass) SetCutoff(cutoff int) {
	if cutoff < MinCutoff {
		cutoff = MinCutoff
	}
	if cutoff > MaxCutoff {
		cutoff = MaxCutoff
	}
	f.cutoff = int32(cutoff)
}

// Cutoff returns the current cutoff coefficient.
func (f *Lowpass) Cutoff() int { return int(f.cutoff) }

// ProcessSample filters one sample.
func (f *Lowpass) ProcessSample(x int16) int16 {
	f.state += (int32(x) - f.state) * f.cutoff >> 12
	return int16(f.state)
}

// Reset clears the filter state.
func (f *Lowpass) Reset() { f.state = 0 }
