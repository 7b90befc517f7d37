package engine

import (
	"testing"

	"github.com/cwbudde/algo-synth/synth/trig"
)

func newBenchEngine(b *testing.B) *Engine {
	b.Helper()
	e, err := New(NewParams(), Config{})
	if err != nil {
		b.Fatal(err)
	}
	return e
}

func BenchmarkTickSiren(b *testing.B) {
	e := newBenchEngine(b)
	e.Params().SetButton(true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Tick()
	}
}

func BenchmarkTickSequencer(b *testing.B) {
	e := newBenchEngine(b)
	p := e.Params()
	p.SetFunction(int(trig.FuncSequencer))
	p.SetSequencerRunning(true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Tick()
	}
}

func BenchmarkTickFullChain(b *testing.B) {
	e := newBenchEngine(b)
	p := e.Params()
	p.SetButton(true)
	p.SetEchoDelay(5000)
	p.SetDrone(2, 3, 0.5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Tick()
	}
}
