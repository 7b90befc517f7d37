package fx

import (
	"testing"
)

func BenchmarkLowpassProcessSample(b *testing.B) {
	f := NewLowpass()
	f.SetCutoff(1200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.ProcessSample(int16(i))
	}
}

func BenchmarkEchoProcessSample(b *testing.B) {
	e, err := NewEcho(22050)
	if err != nil {
		b.Fatal(err)
	}
	e.SetDelay(5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.ProcessSample(int16(i))
	}
}

func BenchmarkReverseProcessSample(b *testing.B) {
	r, err := NewReverse(22050)
	if err != nil {
		b.Fatal(err)
	}
	r.SetShift(-1)
	r.SetMix(0.5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.ProcessSample(int16(i))
	}
}

func BenchmarkSidechainTickApply(b *testing.B) {
	s, err := NewSidechain(22050)
	if err != nil {
		b.Fatal(err)
	}
	s.SetDepth(0.7)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Tick()
		_ = s.Apply(int16(i))
	}
}
