package input

import (
	"math"
	"time"
)

// Synthetic drives a deterministic Lissajous pointer path, used for headless
// runs and benchmarks. Each Poll advances the path to the clock's time.
type Synthetic struct {
	Width, Height int
	// Period is the time for one sweep of the x axis.
	Period time.Duration

	now     func() time.Time
	start   time.Time
	started bool
}

// NewSynthetic creates a path spanning a w x h viewport.
func NewSynthetic(w, h int, period time.Duration, now func() time.Time) *Synthetic {
	if period <= 0 {
		period = 2 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Synthetic{Width: w, Height: h, Period: period, now: now}
}

// Position returns the path position at elapsed time t.
func (s *Synthetic) Position(t time.Duration) (x, y float64) {
	phase := 2 * math.Pi * float64(t) / float64(s.Period)
	cx, cy := float64(s.Width)/2, float64(s.Height)/2
	x = cx + cx*0.8*math.Sin(3*phase+math.Pi/2)
	y = cy + cy*0.8*math.Sin(2*phase)
	return x, y
}

// Poll posts the viewport size on first use, then one move per call.
func (s *Synthetic) Poll(deliver func(Event)) {
	now := s.now()
	if !s.started {
		s.started = true
		s.start = now
		deliver(Event{Kind: Resize, Width: s.Width, Height: s.Height, When: now})
	}
	x, y := s.Position(now.Sub(s.start))
	deliver(Event{Kind: PointerMove, X: x, Y: y, When: now})
}
