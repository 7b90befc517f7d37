//go:build portaudio && !headless

package audioio

import (
	"fmt"
	"sync"

	pa "github.com/gordonklaus/portaudio"
)

const paBufferLen = 512

// paOutput pushes fixed-size buffers into a portaudio stream from its own
// goroutine, ticking the source once per sample.
type paOutput struct {
	sampleRate int

	mu      sync.Mutex
	stream  *pa.Stream
	buf     []int16
	done    chan struct{}
	stopped chan struct{}
	started bool
}

// NewOutput initializes portaudio and opens the default output device at
// the given sample rate.
func NewOutput(sampleRate int) (Output, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audioio: sample rate must be positive, got %d", sampleRate)
	}
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("audioio: portaudio init: %w", err)
	}
	return &paOutput{sampleRate: sampleRate}, nil
}

func (o *paOutput) Start(src Source) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return fmt.Errorf("audioio: output already started")
	}
	if src == nil {
		return fmt.Errorf("audioio: source must not be nil")
	}

	o.buf = make([]int16, paBufferLen)
	stream, err := pa.OpenDefaultStream(0, 1, float64(o.sampleRate), paBufferLen, &o.buf)
	if err != nil {
		return fmt.Errorf("audioio: portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("audioio: portaudio start: %w", err)
	}
	o.stream = stream
	o.done = make(chan struct{})
	o.stopped = make(chan struct{})
	o.started = true

	go o.pump(src)
	return nil
}

func (o *paOutput) pump(src Source) {
	defer close(o.stopped)
	for {
		select {
		case <-o.done:
			return
		default:
		}
		for i := range o.buf {
			o.buf[i] = src.Tick()
		}
		if err := o.stream.Write(); err != nil {
			return
		}
	}
}

func (o *paOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		close(o.done)
		<-o.stopped
		o.stream.Stop()
		o.stream.Close()
		o.started = false
	}
	return pa.Terminate()
}
