package seq

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/synth/fx"
	"github.com/cwbudde/algo-synth/synth/osc"
)

// StepCount is the fixed pattern length.
const StepCount = 8

// State is the sequencer's run state.
type State int

// Sequencer run states.
const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Step timbres, selectable per pattern.
const (
	TimbreSawSquare = iota
	TimbrePulse
	TimbreBass
	TimbrePluck
	TimbreChord

	timbreCount
)

var timbreNames = [timbreCount]string{
	"saw/square", "pulse", "bass", "pluck", "chord",
}

const (
	minGateLength = 5
	maxGateLength = 100

	defaultGateLength = 80
	defaultStepFreq   = 220.0

	minOctaveShift = -2
	maxOctaveShift = 2

	pulseDuty    = 0.3
	bassCutoff   = 900
	pluckDecayAt = 0.25 // fraction of the step interval to half amplitude
)

// Step is one slot of the pattern: an enabled flag and a locked frequency.
// The frequency is quantized by the caller at edit time, not at playback.
type Step struct {
	Enabled bool
	Freq    float64
}

// Sequencer is the 8-step pattern player. While running it advances on
// sync rising edges with priority over its internal timer; advancing skips
// disabled steps (probing at most a full pattern length) and the sequencer
// is silent when every step is disabled.
type Sequencer struct {
	steps [StepCount]Step
	state State

	step        int
	elapsed     int
	interval    int // ticks per step
	gateLength  int // percent of the interval the gate stays open
	octaveShift int
	timbre      int
	starved     bool

	carrier osc.Phase
	fifth   osc.Phase
	octave  osc.Phase
	filter  *fx.Lowpass
}

// SequencerOption configures a Sequencer at construction.
type SequencerOption func(*Sequencer) error

// WithStepInterval sets the step duration in ticks.
func WithStepInterval(ticks int) SequencerOption {
	return func(s *Sequencer) error {
		if ticks < 1 {
			return fmt.Errorf("seq: step interval must be at least 1 tick, got %d", ticks)
		}
		s.interval = ticks
		return nil
	}
}

// WithGateLength sets the gate length in percent of the step interval.
func WithGateLength(percent int) SequencerOption {
	return func(s *Sequencer) error {
		if percent < minGateLength || percent > maxGateLength {
			return fmt.Errorf("seq: gate length must be in [%d, %d], got %d",
				minGateLength, maxGateLength, percent)
		}
		s.gateLength = percent
		return nil
	}
}

// NewSequencer returns a stopped sequencer with all steps enabled at the
// default frequency. intervalTicks is the default step duration.
func NewSequencer(intervalTicks int, opts ...SequencerOption) (*Sequencer, error) {
	if intervalTicks < 1 {
		return nil, fmt.Errorf("seq: step interval must be at least 1 tick, got %d", intervalTicks)
	}
	s := &Sequencer{
		interval:   intervalTicks,
		gateLength: defaultGateLength,
		filter:     fx.NewLowpass(),
	}
	for i := range s.steps {
		s.steps[i] = Step{Enabled: true, Freq: defaultStepFreq}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// State returns the run state.
func (s *Sequencer) State() State { return s.state }

// Start begins playback from the first enabled step.
func (s *Sequencer) Start() {
	s.state = Running
	s.elapsed = 0
	s.step = 0
	s.starved = false
	if !s.steps[0].Enabled {
		s.advance()
	}
}

// Stop halts playback; the pattern itself is untouched.
func (s *Sequencer) Stop() {
	s.state = Stopped
	s.elapsed = 0
}

// ToggleRunning flips between Stopped and Running.
func (s *Sequencer) ToggleRunning() {
	if s.state == Running {
		s.Stop()
	} else {
		s.Start()
	}
}

// Step returns the current step index.
func (s *Sequencer) Step() int { return s.step }

// StepAt returns a copy of step i; out-of-range indices return a zero Step.
func (s *Sequencer) StepAt(i int) Step {
	if i < 0 || i >= StepCount {
		return Step{}
	}
	return s.steps[i]
}

// ToggleStep flips the enabled flag of step i.
func (s *Sequencer) ToggleStep(i int) {
	if i < 0 || i >= StepCount {
		return
	}
	s.steps[i].Enabled = !s.steps[i].Enabled
}

// SetStepEnabled sets the enabled flag of step i.
func (s *Sequencer) SetStepEnabled(i int, enabled bool) {
	if i < 0 || i >= StepCount {
		return
	}
	s.steps[i].Enabled = enabled
}

// SetStepFrequency locks step i to freqHz. The caller quantizes; the
// sequencer plays the frequency back verbatim, octave shift aside.
func (s *Sequencer) SetStepFrequency(i int, freqHz float64) {
	if i < 0 || i >= StepCount {
		return
	}
	if math.IsNaN(freqHz) || freqHz < 0 {
		freqHz = 0
	}
	s.steps[i].Freq = freqHz
}

// SetStepInterval sets the step duration in ticks, silently clamped to a
// minimum of one tick.
func (s *Sequencer) SetStepInterval(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	s.interval = ticks
}

// StepInterval returns the step duration in ticks.
func (s *Sequencer) StepInterval() int { return s.interval }

// SetGateLength sets the gate length percentage, silently clamped.
func (s *Sequencer) SetGateLength(percent int) {
	if percent < minGateLength {
		percent = minGateLength
	}
	if percent > maxGateLength {
		percent = maxGateLength
	}
	s.gateLength = percent
}

// GateLength returns the gate length percentage.
func (s *Sequencer) GateLength() int { return s.gateLength }

// SetOctaveShift shifts playback by whole octaves, clamped to [-2, 2].
func (s *Sequencer) SetOctaveShift(shift int) {
	if shift < minOctaveShift {
		shift = minOctaveShift
	}
	if shift > maxOctaveShift {
		shift = maxOctaveShift
	}
	s.octaveShift = shift
}

// OctaveShift returns the playback octave shift.
func (s *Sequencer) OctaveShift() int { return s.octaveShift }

// SetTimbre selects the step voice, wrapped onto the timbre count.
func (s *Sequencer) SetTimbre(t int) {
	t %= timbreCount
	if t < 0 {
		t += timbreCount
	}
	s.timbre = t
}

// Timbre returns the active timbre index.
func (s *Sequencer) Timbre() int { return s.timbre }

// TimbreName returns the active timbre's display name.
func (s *Sequencer) TimbreName() string { return timbreNames[s.timbre] }

// advance moves to the next enabled step, probing at most a full pattern
// length. With every step disabled the sequencer starves and goes silent
// until a step is re-enabled.
func (s *Sequencer) advance() {
	probe := s.step
	for i := 0; i < StepCount; i++ {
		probe++
		if probe >= StepCount {
			probe = 0
		}
		if s.steps[probe].Enabled {
			s.step = probe
			s.starved = false
			return
		}
	}
	s.starved = true
}

// Tick advances time by one sample period. A sync rising edge advances the
// step immediately and takes priority over the internal timer; otherwise
// the step advances when the interval elapses.
func (s *Sequencer) Tick(syncEdge bool) {
	if s.state != Running {
		return
	}
	if syncEdge {
		s.elapsed = 0
		s.advance()
		return
	}
	s.elapsed++
	if s.elapsed >= s.interval {
		s.elapsed = 0
		s.advance()
	}
}

// Gate reports whether the current step's note is sounding: the sequencer
// must be running on an enabled step within the gate-length window.
func (s *Sequencer) Gate() bool {
	if s.state != Running || s.starved || !s.steps[s.step].Enabled {
		return false
	}
	return s.elapsed < s.interval*s.gateLength/100
}

// Frequency returns the current step's playback frequency with the octave
// shift applied, or 0 when nothing is sounding.
func (s *Sequencer) Frequency() float64 {
	if s.starved {
		return 0
	}
	return s.steps[s.step].Freq * math.Pow(2, float64(s.octaveShift))
}

// GenerateSample renders one sample of the current step with the selected
// timbre, honoring the gate. Call once per Tick.
func (s *Sequencer) GenerateSample(sampleRate float64) int16 {
	if !s.Gate() {
		s.filter.ProcessSample(0)
		return 0
	}
	freq := s.Frequency()
	if freq <= 0 {
		s.filter.ProcessSample(0)
		return 0
	}

	s.carrier.SetFrequency(freq, sampleRate)
	phase := s.carrier.Advance()

	var sample int16
	switch s.timbre {
	case TimbrePulse:
		if float64(phase)/float64(1<<32) < pulseDuty {
			sample = osc.MaxSample
		} else {
			sample = osc.MinSample
		}
		s.filter.SetCutoff(fx.MaxCutoff)

	case TimbreBass:
		// Octave-down saw through a dark filter.
		s.octave.SetFrequency(freq/2, sampleRate)
		sample = int16((int32(osc.Sawtooth(phase)) + int32(osc.Sawtooth(s.octave.Advance()))) / 2)
		s.filter.SetCutoff(bassCutoff)

	case TimbrePluck:
		// Saw with a per-step exponential decay; faster gates pluck harder.
		half := float64(s.interval) * pluckDecayAt
		env := 1 / (1 + float64(s.elapsed)/half)
		sample = int16(float64(osc.Sawtooth(phase)) * env)
		s.filter.SetCutoff(fx.MaxCutoff)

	case TimbreChord:
		// Root + fifth + octave saw stack.
		s.fifth.SetFrequency(freq*1.5, sampleRate)
		s.octave.SetFrequency(freq*2, sampleRate)
		sum := int32(osc.Sawtooth(phase)) +
			int32(osc.Sawtooth(s.fifth.Advance())) +
			int32(osc.Sawtooth(s.octave.Advance()))
		sample = int16(sum / 3)
		s.filter.SetCutoff(fx.MaxCutoff)

	default: // saw/square mix
		sample = int16((int32(osc.Sawtooth(phase)) + int32(osc.Square(phase))) / 2)
		s.filter.SetCutoff(fx.MaxCutoff)
	}

	return s.filter.ProcessSample(sample)
}

// Reset stops playback and rewinds all voice state; the pattern survives.
func (s *Sequencer) Reset() {
	s.state = Stopped
	s.step = 0
	s.elapsed = 0
	s.starved = false
	s.carrier.Reset()
	s.fifth.Reset()
	s.octave.Reset()
	s.filter.Reset()
}
