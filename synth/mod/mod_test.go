package mod

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/synth/tune"
)

// fixedSource replays scripted values, for deterministic mutation tests.
type fixedSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *fixedSource) Float64() float64 {
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *fixedSource) IntN(n int) int {
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

// --- LFO ---

func TestNewLFOValidation(t *testing.T) {
	if _, err := NewLFO(0); err == nil {
		t.Fatal("expected error for sample rate 0")
	}
	if _, err := NewLFO(22050, WithLFORate(0.01)); err == nil {
		t.Fatal("expected error for rate below 0.1 Hz")
	}
	if _, err := NewLFO(22050, WithLFORate(25)); err == nil {
		t.Fatal("expected error for rate above 20 Hz")
	}
	if _, err := NewLFO(22050, WithLFODepth(1.5)); err == nil {
		t.Fatal("expected error for depth above 1")
	}
}

func TestLFOValueBounds(t *testing.T) {
	for _, shape := range []LFOShape{LFOTriangle, LFORamp, LFOSquare, LFORandom} {
		l, err := NewLFO(22050, WithLFOShape(shape), WithLFORate(5), WithLFODepth(0.8))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 22050; i++ {
			v := l.Tick()
			if v < -0.8-1e-9 || v > 0.8+1e-9 {
				t.Fatalf("%v: tick %d value %f outside ±depth", shape, i, v)
			}
		}
	}
}

func TestLFOTrianglePeriod(t *testing.T) {
	// 2 Hz at 1000 samples/s: period 500 ticks. The triangle rises -1..+1
	// over the first half cycle and falls back over the second.
	l, _ := NewLFO(1000, WithLFORate(2), WithLFODepth(1), WithLFOShape(LFOTriangle))
	var v float64
	for i := 0; i < 250; i++ {
		v = l.Tick()
	}
	if math.Abs(v-1) > 0.02 {
		t.Fatalf("half-cycle peak: got %f want ~1", v)
	}
	for i := 0; i < 250; i++ {
		v = l.Tick()
	}
	if math.Abs(v+1) > 0.02 {
		t.Fatalf("full-cycle trough: got %f want ~-1", v)
	}
}

func TestLFOZeroDepthSilences(t *testing.T) {
	l, _ := NewLFO(22050, WithLFODepth(0), WithLFOShape(LFOSquare))
	for i := 0; i < 1000; i++ {
		if v := l.Tick(); v != 0 {
			t.Fatalf("got %f want 0", v)
		}
	}
}

func TestLFOSetClamps(t *testing.T) {
	l, _ := NewLFO(22050)
	l.SetRate(100)
	if l.Rate() != MaxLFORate {
		t.Fatalf("got %f want %f", l.Rate(), MaxLFORate)
	}
	l.SetRate(0)
	if l.Rate() != MinLFORate {
		t.Fatalf("got %f want %f", l.Rate(), MinLFORate)
	}
	l.SetDepth(-2)
	if l.Depth() != 0 {
		t.Fatalf("got %f want 0", l.Depth())
	}
	l.SetShape(LFOShape(17))
	if s := l.Shape(); s < 0 || s >= lfoShapeCount {
		t.Fatalf("shape not wrapped: %d", s)
	}
}

// --- mutation walker ---

func TestMutationProbabilityOneAlwaysMoves(t *testing.T) {
	m := NewMutation()
	m.SetTier(TierPitch)
	m.SetProbability(1)
	m.SetSource(&fixedSource{floats: []float64{0.0, 0.3}, ints: []int{0, 1}})

	for i := 0; i < 50; i++ {
		before := m.PitchStep()
		if !m.OnTrigger() {
			t.Fatalf("trigger %d: no mutation at probability 1", i)
		}
		if m.PitchStep() == before {
			t.Fatalf("trigger %d: pitch step did not move", i)
		}
	}
}

func TestMutationProbabilityZeroNeverMoves(t *testing.T) {
	m := NewMutation()
	m.SetTier(TierPitchRhythmCutoff)
	m.SetProbability(0)
	m.SetSource(&fixedSource{floats: []float64{0.0}, ints: []int{0}})

	for i := 0; i < 50; i++ {
		if m.OnTrigger() {
			t.Fatal("mutation fired at probability 0")
		}
	}
	if m.PitchStep() != 0 {
		t.Fatalf("pitch step moved to %d", m.PitchStep())
	}
}

func TestMutationTierOffIgnoresTriggers(t *testing.T) {
	m := NewMutation()
	m.SetProbability(1)
	if m.OnTrigger() {
		t.Fatal("mutation fired at tier off")
	}
}

func TestMutationPitchStepStaysBounded(t *testing.T) {
	m := NewMutation()
	m.SetTier(TierPitch)
	m.SetProbability(1)
	m.SetScale(tune.ScalePentatonicMinor)
	// Alternating octave jumps hammer the bounds.
	m.SetSource(&fixedSource{floats: []float64{0.0, 0.95}, ints: []int{1, 0}})

	max := tune.MaxStep(tune.ScalePentatonicMinor)
	for i := 0; i < 500; i++ {
		m.OnTrigger()
		if s := m.PitchStep(); s < 0 || s >= max {
			t.Fatalf("trigger %d: step %d outside [0, %d)", i, s, max)
		}
	}
}

func TestMutationWalkOdds(t *testing.T) {
	// Scripted rolls: probability roll, then walk roll, then sign.
	cases := []struct {
		walkRoll  float64
		wantDelta int
	}{
		{0.0, 1},
		{0.59, 1},
		{0.6, 2},
		{0.89, 2},
		{0.9, tune.ScalePentatonicMinor.Size()},
		{0.99, tune.ScalePentatonicMinor.Size()},
	}
	for _, tc := range cases {
		m := NewMutation()
		m.SetTier(TierPitch)
		m.SetProbability(1)
		m.SetScale(tune.ScalePentatonicMinor)
		m.SetSource(&fixedSource{floats: []float64{0.0, tc.walkRoll}, ints: []int{0}})
		m.OnTrigger()
		if m.PitchStep() != tc.wantDelta {
			t.Fatalf("walk roll %f: got step %d want %d", tc.walkRoll, m.PitchStep(), tc.wantDelta)
		}
	}
}

func TestMutationRhythmTierMovesTempo(t *testing.T) {
	m := NewMutation()
	m.SetTier(TierPitchRhythm)
	m.SetProbability(1)
	m.SetSource(&fixedSource{floats: []float64{0.0, 0.0}, ints: []int{0}})

	before := m.TempoScale()
	m.OnTrigger()
	if m.TempoScale() == before {
		t.Fatal("tempo division did not move at rhythm tier")
	}
}

func TestMutationPitchTierLeavesTempoAndCutoff(t *testing.T) {
	m := NewMutation()
	m.SetTier(TierPitch)
	m.SetProbability(1)
	m.SetSource(&fixedSource{floats: []float64{0.0, 0.0}, ints: []int{0}})

	tempo, cutoff := m.TempoScale(), m.Cutoff()
	m.OnTrigger()
	if m.TempoScale() != tempo || m.Cutoff() != cutoff {
		t.Fatal("pitch tier touched tempo or cutoff")
	}
}

func TestMutationFrequencyQuantized(t *testing.T) {
	m := NewMutation()
	m.SetScale(tune.ScaleMajor)
	m.SetTier(TierPitch)
	m.SetProbability(1)
	m.SetSource(&fixedSource{floats: []float64{0.0, 0.0}, ints: []int{0}})
	m.OnTrigger() // step 0 -> 1

	want := tune.Quantize(440, tune.ScaleMajor, 1)
	if got := m.Frequency(440); got != want {
		t.Fatalf("got %f want %f", got, want)
	}
}

// --- parameter locking ---

func TestParamLockHoldsUntilThreshold(t *testing.T) {
	var p ParamLock
	p.Lock(0.50, 0.80)

	if got := p.Update(0.50); got != 0.80 {
		t.Fatalf("at snapshot: got %f want held 0.80", got)
	}
	if got := p.Update(0.52); got != 0.80 {
		t.Fatalf("inside threshold: got %f want held 0.80", got)
	}
	if got := p.Update(0.55); got != 0.55 {
		t.Fatalf("outside threshold: got %f want live 0.55", got)
	}
	// Once unlocked it stays live, even back at the snapshot.
	if got := p.Update(0.50); got != 0.50 {
		t.Fatalf("after unlock: got %f want 0.50", got)
	}
}

func TestParamLockBothDirections(t *testing.T) {
	var p ParamLock
	p.Lock(0.50, 0.10)
	if got := p.Update(0.46); got != 0.46 {
		t.Fatalf("downward unlock: got %f want 0.46", got)
	}
}

func TestParamLockRelease(t *testing.T) {
	var p ParamLock
	p.Lock(0.5, 0.9)
	p.Release()
	if p.Locked() {
		t.Fatal("still locked after release")
	}
	if got := p.Update(0.5); got != 0.5 {
		t.Fatalf("got %f want 0.5", got)
	}
}
