package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-scene/engine"
	"github.com/lixenwraith/vi-scene/tag"
)

// Sink is implemented by renderers that accept sound cues
// Entities reach it as the scene's active renderer during Render
type Sink interface {
	Play(s beep.Streamer)
	SampleRate() beep.SampleRate
}

// Renderer collects cues from visible entities each frame and mixes them
// It is also the beep.Streamer handed to the speaker, Stream runs on the audio goroutine
type Renderer struct {
	mu    sync.Mutex
	mixer *beep.Mixer

	rate    beep.SampleRate
	pending []beep.Streamer
	log     *zap.Logger

	// Volume is the linear gain applied to every cue, 1 by default
	Volume float64

	filtered bool
	tag      tag.Tag
	muted    bool

	cues uint64
}

// RendererOption configures NewRenderer
type RendererOption func(*Renderer)

// WithTag restricts cue collection to entities carrying t
func WithTag(t tag.Tag) RendererOption {
	return func(r *Renderer) { r.filtered, r.tag = true, t }
}

// WithLogger sets the renderer logger
func WithLogger(l *zap.Logger) RendererOption {
	return func(r *Renderer) { r.log = l }
}

// NewRenderer creates a mixer renderer at rate
func NewRenderer(rate beep.SampleRate, opts ...RendererOption) *Renderer {
	r := &Renderer{
		mixer:  &beep.Mixer{},
		rate:   rate,
		Volume: 1,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SampleRate implements Sink
func (r *Renderer) SampleRate() beep.SampleRate { return r.rate }

// Play queues s to start mixing when the frame completes
func (r *Renderer) Play(s beep.Streamer) {
	if s == nil {
		return
	}
	r.pending = append(r.pending, s)
}

// BeforeRender drops cues left from an interrupted frame
func (r *Renderer) BeforeRender(s *engine.Scene) {
	clear(r.pending)
	r.pending = r.pending[:0]
}

// Render lets each visible entity emit cues in depth order
func (r *Renderer) Render(s *engine.Scene) {
	if r.filtered {
		s.RenderTagged(r.tag)
		return
	}
	s.RenderEntities()
}

// AfterRender hands the frame's cues to the mixer
func (r *Renderer) AfterRender(s *engine.Scene) {
	if len(r.pending) == 0 {
		return
	}

	r.mu.Lock()
	for _, st := range r.pending {
		r.mixer.Add(newVolume(st, r.Volume))
	}
	active := r.mixer.Len()
	r.mu.Unlock()

	r.cues += uint64(len(r.pending))
	r.log.Debug("cues mixed",
		zap.Int("count", len(r.pending)),
		zap.Int("active", active))

	clear(r.pending)
	r.pending = r.pending[:0]
}

// Stream implements beep.Streamer, it never drains
func (r *Renderer) Stream(samples [][2]float64) (n int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mixer.Stream(samples)
}

func (r *Renderer) Err() error { return nil }

// Active returns the number of cues still playing
func (r *Renderer) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mixer.Len()
}

// Cues returns the total number of cues mixed
func (r *Renderer) Cues() uint64 { return r.cues }

// Silence stops every playing cue
func (r *Renderer) Silence() {
	r.mu.Lock()
	r.mixer.Clear()
	r.mu.Unlock()
}

// SetMuted toggles participation in the render phases, muted frames emit no cues
func (r *Renderer) SetMuted(m bool) { r.muted = m }

// IsVisible implements engine.VisibilityToggle
func (r *Renderer) IsVisible() bool { return !r.muted }
