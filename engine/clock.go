package engine

import "time"

// Clock supplies per-frame delta time in seconds
// DeltaTime is scaled game time, RawDeltaTime ignores scaling
type Clock interface {
	DeltaTime() float64
	RawDeltaTime() float64
}

// TimeProvider is the wall clock source for WallClock
type TimeProvider interface {
	Now() time.Time
}

// SystemTime provides the real system time with monotonic clock readings
type SystemTime struct{}

// Now returns the current time with monotonic clock reading
func (SystemTime) Now() time.Time {
	return time.Now()
}

// FixedClock advances by a constant step every frame
type FixedClock struct {
	Step     time.Duration
	TimeRate float64 // scales DeltaTime, 0 freezes game time
}

// NewFixedClock creates a clock with the given step and unit time rate
func NewFixedClock(step time.Duration) *FixedClock {
	return &FixedClock{Step: step, TimeRate: 1}
}

func (c *FixedClock) DeltaTime() float64 {
	return c.Step.Seconds() * c.TimeRate
}

func (c *FixedClock) RawDeltaTime() float64 {
	return c.Step.Seconds()
}

// WallClock measures elapsed real time between Tick calls
// Deltas are clamped to MaxStep so a stall does not tunnel entities
type WallClock struct {
	provider TimeProvider
	last     time.Time
	raw      time.Duration
	MaxStep  time.Duration
	TimeRate float64
}

// NewWallClock creates a clock reading from provider, nil uses SystemTime
func NewWallClock(provider TimeProvider, maxStep time.Duration) *WallClock {
	if provider == nil {
		provider = SystemTime{}
	}
	return &WallClock{
		provider: provider,
		last:     provider.Now(),
		MaxStep:  maxStep,
		TimeRate: 1,
	}
}

// Tick samples the provider, call once per frame before Scene.Update
func (c *WallClock) Tick() {
	now := c.provider.Now()
	c.raw = now.Sub(c.last)
	c.last = now
	if c.raw < 0 {
		c.raw = 0
	}
	if c.MaxStep > 0 && c.raw > c.MaxStep {
		c.raw = c.MaxStep
	}
}

func (c *WallClock) DeltaTime() float64 {
	return c.raw.Seconds() * c.TimeRate
}

func (c *WallClock) RawDeltaTime() float64 {
	return c.raw.Seconds()
}
