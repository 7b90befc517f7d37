package record

import (
	"testing"
)

func TestNewRecorderValidation(t *testing.T) {
	if _, err := NewRecorder(0); err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if _, err := NewRecorder(-1); err == nil {
		t.Fatal("expected error for negative capacity")
	}
	r, err := NewRecorder(DefaultCapacity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Capacity() != DefaultCapacity {
		t.Fatalf("got capacity %d want %d", r.Capacity(), DefaultCapacity)
	}
	if r.State() != Idle || r.HasRecording() {
		t.Fatal("new recorder must be empty and idle")
	}
}

func TestStateCycle(t *testing.T) {
	r, err := NewRecorder(100)
	if err != nil {
		t.Fatal(err)
	}

	r.Advance()
	if r.State() != Recording {
		t.Fatalf("got %v want recording", r.State())
	}
	r.Process(42)
	r.Advance()
	if r.State() != Ready || !r.HasRecording() {
		t.Fatalf("got %v (has=%v), want ready with recording", r.State(), r.HasRecording())
	}
	r.Advance()
	if r.State() != Playing {
		t.Fatalf("got %v want playing", r.State())
	}
	r.Advance()
	if r.State() != Ready {
		t.Fatalf("got %v want ready", r.State())
	}
}

func TestEmptyCaptureFallsBackToIdle(t *testing.T) {
	r, err := NewRecorder(100)
	if err != nil {
		t.Fatal(err)
	}
	r.Advance() // recording
	r.Advance() // stop without a single sample
	if r.State() != Idle || r.HasRecording() {
		t.Fatalf("got %v (has=%v), want idle and empty", r.State(), r.HasRecording())
	}
}

// Capturing one sample past capacity stops at exactly the capacity, marks
// the phrase ready, and rejects further writes.
func TestOverflowForceStops(t *testing.T) {
	r, err := NewRecorder(DefaultCapacity)
	if err != nil {
		t.Fatal(err)
	}
	r.Advance()
	for i := 0; i < DefaultCapacity+1; i++ {
		r.Process(100)
	}
	if r.Length() != DefaultCapacity {
		t.Fatalf("got length %d want %d", r.Length(), DefaultCapacity)
	}
	if r.State() != Ready || !r.HasRecording() {
		t.Fatalf("got %v (has=%v), want ready with recording", r.State(), r.HasRecording())
	}

	// Ready state passes live through without writing.
	r.Process(7)
	if r.Length() != DefaultCapacity {
		t.Fatal("write accepted after the force stop")
	}
}

func TestPlaybackMixesHalfAndHalf(t *testing.T) {
	r, err := NewRecorder(16)
	if err != nil {
		t.Fatal(err)
	}
	r.Advance()
	for i := 0; i < 8; i++ {
		r.Process(int16(1000 + i))
	}
	r.Advance()
	r.Advance() // playing

	for i := 0; i < 8; i++ {
		live := int16(-2000)
		want := int16((int32(live) + int32(1000+i)) / 2)
		if got := r.Process(live); got != want {
			t.Fatalf("sample %d: got %d want %d", i, got, want)
		}
	}
	if r.State() != Ready {
		t.Fatalf("got %v after the phrase, want ready", r.State())
	}
}

func TestLoopedPlaybackRestarts(t *testing.T) {
	r, err := NewRecorder(16)
	if err != nil {
		t.Fatal(err)
	}
	r.SetLoop(true)
	r.Advance()
	for i := 0; i < 4; i++ {
		r.Process(int16(100 * (i + 1)))
	}
	r.Advance()
	r.Advance()

	// Two full passes: the phrase repeats.
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < 4; i++ {
			want := int16(100 * (i + 1) / 2)
			if got := r.Process(0); got != want {
				t.Fatalf("pass %d sample %d: got %d want %d", pass, i, got, want)
			}
		}
	}
	if r.State() != Playing {
		t.Fatal("looped playback stopped on its own")
	}
}

func TestIdlePassesThrough(t *testing.T) {
	r, err := NewRecorder(16)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []int16{0, -32768, 32767, 123} {
		if got := r.Process(v); got != v {
			t.Fatalf("got %d want %d", got, v)
		}
	}
}

func TestClearDropsPhrase(t *testing.T) {
	r, err := NewRecorder(16)
	if err != nil {
		t.Fatal(err)
	}
	r.Advance()
	r.Process(5)
	r.Advance()
	r.Clear()
	if r.State() != Idle || r.HasRecording() {
		t.Fatal("clear left the phrase behind")
	}
}
