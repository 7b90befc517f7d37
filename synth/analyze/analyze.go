// Package analyze provides level and spectrum measurements over blocks of
// engine output. The engine itself never calls in here; the measurements
// feed the front-panel meters and the end-to-end tests.
package analyze

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// RMS returns the root-mean-square level of a sample block, 0 for an
// empty block.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Peak returns the largest absolute sample value in the block.
func Peak(samples []int16) int16 {
	var peak int32
	for _, s := range samples {
		v := int32(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak > math.MaxInt16 {
		peak = math.MaxInt16
	}
	return int16(peak)
}

// Spectrum computes magnitude spectra of fixed-size sample blocks. The FFT
// plan and all scratch buffers are allocated once at construction, so
// Magnitudes itself is allocation-free.
type Spectrum struct {
	sampleRate float64
	size       int

	plan *algofft.Plan[complex128]

	in   []complex128
	out  []complex128
	re   []float64
	im   []float64
	mags []float64
}

// NewSpectrum returns an analyzer for blocks of the given power-of-two
// size at the given sample rate.
func NewSpectrum(size int, sampleRate float64) (*Spectrum, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("analyze: sample rate must be positive, got %f", sampleRate)
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("analyze: fft plan: %w", err)
	}
	return &Spectrum{
		sampleRate: sampleRate,
		size:       size,
		plan:       plan,
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, size/2+1),
		im:         make([]float64, size/2+1),
		mags:       make([]float64, size/2+1),
	}, nil
}

// Size returns the block size in samples.
func (s *Spectrum) Size() int { return s.size }

// BinWidth returns the frequency spacing between adjacent bins in Hz.
func (s *Spectrum) BinWidth() float64 { return s.sampleRate / float64(s.size) }

// Magnitudes fills the analyzer's magnitude buffer from one block of
// samples and returns it. The slice is reused across calls; copy it if it
// must outlive the next call. Blocks shorter than the FFT size are
// zero-padded, longer blocks are truncated.
func (s *Spectrum) Magnitudes(samples []int16) ([]float64, error) {
	for i := range s.in {
		if i < len(samples) {
			s.in[i] = complex(float64(samples[i]), 0)
		} else {
			s.in[i] = 0
		}
	}

	if err := s.plan.Forward(s.out, s.in); err != nil {
		return nil, fmt.Errorf("analyze: fft: %w", err)
	}

	for i := range s.re {
		s.re[i] = real(s.out[i])
		s.im[i] = imag(s.out[i])
	}
	vecmath.Magnitude(s.mags, s.re, s.im)
	return s.mags, nil
}

// DominantFrequency returns the frequency of the strongest non-DC bin in
// the block, in Hz.
func (s *Spectrum) DominantFrequency(samples []int16) (float64, error) {
	mags, err := s.Magnitudes(samples)
	if err != nil {
		return 0, err
	}
	best := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[best] {
			best = i
		}
	}
	return float64(best) * s.BinWidth(), nil
}

// BandEnergy returns the fraction of total non-DC spectral energy that
// falls between lowHz and highHz.
func (s *Spectrum) BandEnergy(samples []int16, lowHz, highHz float64) (float64, error) {
	mags, err := s.Magnitudes(samples)
	if err != nil {
		return 0, err
	}
	var total, band float64
	for i := 1; i < len(mags); i++ {
		e := mags[i] * mags[i]
		total += e
		f := float64(i) * s.BinWidth()
		if f >= lowHz && f <= highHz {
			band += e
		}
	}
	if total == 0 {
		return 0, nil
	}
	return band / total, nil
}
