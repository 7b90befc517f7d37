package osc

// Amplitude bounds shared by every shaper.
const (
	MaxSample = 16383
	MinSample = -16384
)

// Phase is a wrapping 32-bit phase accumulator. The increment per tick
// encodes frequency:
//
//	incr = freq * 2³² / sampleRate
//
// Overflow on Advance is the intended wrap to the next cycle.
type Phase struct {
	acc uint32
	inc uint32
}

// IncrementFor converts a frequency in Hz to a phase increment for the given
// sample rate. Frequencies outside [0, sampleRate) are clamped.
func IncrementFor(freqHz, sampleRate float64) uint32 {
	if sampleRate <= 0 {
		return 0
	}
	if freqHz < 0 {
		freqHz = 0
	}
	if freqHz >= sampleRate {
		freqHz = sampleRate
	}
	inc := freqHz * (1 << 32) / sampleRate
	if inc >= (1 << 32) {
		return 1<<32 - 1
	}
	return uint32(inc)
}

// SetFrequency updates the per-tick increment.
func (p *Phase) SetFrequency(freqHz, sampleRate float64) {
	p.inc = IncrementFor(freqHz, sampleRate)
}

// SetIncrement sets the raw per-tick increment.
func (p *Phase) SetIncrement(inc uint32) { p.inc = inc }

// Advance steps the accumulator by one tick and returns the new phase.
func (p *Phase) Advance() uint32 {
	p.acc += p.inc
	return p.acc
}

// Value returns the current phase without advancing.
func (p *Phase) Value() uint32 { return p.acc }

// Increment returns the per-tick increment.
func (p *Phase) Increment() uint32 { return p.inc }

// Reset rewinds the accumulator to zero, keeping the increment.
func (p *Phase) Reset() { p.acc = 0 }

// Sawtooth maps a phase to a linear ramp over the full cycle, derived from
// the top 16 phase bits.
func Sawtooth(phase uint32) int16 {
	return int16(int32(phase>>16)/2 + MinSample)
}

// Square returns MaxSample for the first half cycle and MinSample for the
// second, keyed off the top phase bit.
func Square(phase uint32) int16 {
	if phase&0x80000000 == 0 {
		return MaxSample
	}
	return MinSample
}

// Triangle is a four-segment piecewise-linear wave: up, down, down, up,
// one segment per phase quadrant.
func Triangle(phase uint32) int16 {
	r := int32((phase >> 16) & 0x3FFF)
	switch phase >> 30 {
	case 0:
		return int16(r)
	case 1:
		return int16(MaxSample - r)
	case 2:
		return int16(-r)
	default:
		return int16(r + MinSample)
	}
}

// FastSine is a two-segment piecewise-linear sine stand-in keyed off the top
// 8 phase bits: a coarse rise over the first half cycle and a mirrored fall
// over the second. The 256-step quantization is audible and intentional.
func FastSine(phase uint32) int16 {
	t := int32(phase >> 24)
	if t < 128 {
		return int16(t*256 + MinSample)
	}
	return int16(MaxSample - (t-128)*256)
}

// BitCrush quantizes a sample to 2^bits amplitude levels by integer division
// and re-multiplication over the ±16384 span. bits outside [1, 15] is
// clamped; 15 bits is transparent.
func BitCrush(sample int16, bits int) int16 {
	if bits >= 15 {
		return sample
	}
	if bits < 1 {
		bits = 1
	}
	step := int32(1) << (15 - bits)
	return int16(int32(sample) / step * step)
}
