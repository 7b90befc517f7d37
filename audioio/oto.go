//go:build !headless && !portaudio

package audioio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// otoOutput plays through oto's pull model: the device reads from us, and
// each Read call ticks the source once per sample. The source pointer is
// atomic so the hot path takes no lock.
type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player
	src    atomic.Pointer[Source]

	mu      sync.Mutex // setup and teardown only
	started bool
}

// NewOutput opens the default playback device at the given sample rate.
func NewOutput(sampleRate int) (Output, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audioio: sample rate must be positive, got %d", sampleRate)
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("audioio: oto context: %w", err)
	}
	<-ready
	return &otoOutput{ctx: ctx}, nil
}

func (o *otoOutput) Start(src Source) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return fmt.Errorf("audioio: output already started")
	}
	if src == nil {
		return fmt.Errorf("audioio: source must not be nil")
	}
	o.src.Store(&src)
	o.player = o.ctx.NewPlayer(o)
	o.player.Play()
	o.started = true
	return nil
}

// Read fills p with little-endian int16 samples pulled from the source.
func (o *otoOutput) Read(p []byte) (int, error) {
	srcp := o.src.Load()
	if srcp == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	src := *srcp

	n := len(p) / 2 * 2
	for i := 0; i < n; i += 2 {
		s := src.Tick()
		p[i] = byte(s)
		p[i+1] = byte(s >> 8)
	}
	return n, nil
}

func (o *otoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			return err
		}
		o.player = nil
	}
	o.started = false
	return nil
}
