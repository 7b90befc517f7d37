//go:build headless

package audioio

import (
	"fmt"
	"sync"
	"time"
)

// headlessOutput ticks the source at roughly the sample rate and discards
// the result, keeping the engine's state machines moving without a device.
type headlessOutput struct {
	sampleRate int

	mu      sync.Mutex
	done    chan struct{}
	stopped chan struct{}
	started bool
}

// NewOutput returns a device-free output that consumes and discards
// samples in real time.
func NewOutput(sampleRate int) (Output, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audioio: sample rate must be positive, got %d", sampleRate)
	}
	return &headlessOutput{sampleRate: sampleRate}, nil
}

func (o *headlessOutput) Start(src Source) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return fmt.Errorf("audioio: output already started")
	}
	if src == nil {
		return fmt.Errorf("audioio: source must not be nil")
	}
	o.done = make(chan struct{})
	o.stopped = make(chan struct{})
	o.started = true

	go func() {
		defer close(o.stopped)
		// Pull one 10 ms block per timer tick.
		block := o.sampleRate / 100
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-o.done:
				return
			case <-ticker.C:
				for i := 0; i < block; i++ {
					src.Tick()
				}
			}
		}
	}()
	return nil
}

func (o *headlessOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		close(o.done)
		<-o.stopped
		o.started = false
	}
	return nil
}
