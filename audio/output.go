package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output owns the process-wide speaker playing a single streamer
type Output struct {
	mu          sync.Mutex
	initialized bool
}

// Start initializes the speaker and plays s until Close
func (o *Output) Start(rate beep.SampleRate, buffer time.Duration, s beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(s)
	o.initialized = true
	return nil
}

// Close stops playback and releases the device
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	o.initialized = false
}
