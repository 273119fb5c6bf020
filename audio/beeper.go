package audio

import (
	"github.com/lixenwraith/vi-scene/engine"
)

// Beeper is an entity that emits its tone when triggered or on a fixed interval
type Beeper struct {
	engine.Base
	Tone Tone

	// Interval in game seconds between automatic cues, 0 disables
	Interval float64

	armed  bool
	played int
}

// NewBeeper creates a manually triggered beeper
func NewBeeper(t Tone) *Beeper {
	return &Beeper{Base: engine.NewBase(), Tone: t}
}

// Trigger arms the beeper to emit on the next render pass
func (b *Beeper) Trigger() { b.armed = true }

// Played returns the number of emitted cues
func (b *Beeper) Played() int { return b.played }

func (b *Beeper) Update() {
	if b.Interval > 0 && b.Scene().OnInterval(b.Interval) {
		b.armed = true
	}
}

// Render emits the tone into the active Sink, other renderers are ignored
func (b *Beeper) Render() {
	if !b.armed {
		return
	}
	sink, ok := b.Scene().ActiveRenderer().(Sink)
	if !ok {
		return
	}
	sink.Play(b.Tone.Streamer(sink.SampleRate()))
	b.armed = false
	b.played++
}
