package loop

import (
	"context"
	"sync"
	"time"
)

// Scheduler paces the loop to the display refresh.
type Scheduler interface {
	// Wait blocks until the next frame is due.
	Wait(ctx context.Context) error
}

// TickerScheduler fires at a fixed frame rate.
type TickerScheduler struct {
	ticker *time.Ticker
}

// NewTickerScheduler creates a scheduler at fps frames per second.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

// Wait blocks until the next tick or ctx is done.
func (s *TickerScheduler) Wait(ctx context.Context) error {
	select {
	case <-s.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop releases the ticker.
func (s *TickerScheduler) Stop() {
	s.ticker.Stop()
}

// ImmediateScheduler never waits. Used when the surface paces itself,
// as raylib does inside EndDrawing.
type ImmediateScheduler struct{}

// Wait returns at once unless ctx is done.
func (ImmediateScheduler) Wait(ctx context.Context) error {
	return ctx.Err()
}

// ManualScheduler releases one frame per Tick call.
type ManualScheduler struct {
	ch chan struct{}
}

// NewManualScheduler creates a scheduler driven by Tick.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{ch: make(chan struct{})}
}

// Tick releases a single frame, blocking until the loop takes it.
func (s *ManualScheduler) Tick() {
	s.ch <- struct{}{}
}

// Wait blocks until Tick or ctx is done.
func (s *ManualScheduler) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Clock supplies monotonic frame timestamps.
type Clock interface {
	Now() time.Duration
}

// SystemClock measures time since it was created using the monotonic clock.
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock starts a clock at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

// Now returns the elapsed time since creation.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.epoch)
}

// Since converts a wall-clock instant into clock time.
func (c *SystemClock) Since(t time.Time) time.Duration {
	return t.Sub(c.epoch)
}

// ManualClock is a settable clock.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}
