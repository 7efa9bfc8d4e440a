package trail

import (
	"image/color"
	"math"
	"time"
)

// Trail defaults.
const (
	DefaultMaxAge    = 600 * time.Millisecond
	DefaultStepPx    = 2.0
	DefaultLineWidth = 3.0
)

// White is the default trail colour.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Options configures a Renderer.
type Options struct {
	MaxAge    time.Duration // fade duration; samples older than this are evicted
	StepPx    float64       // interpolation spacing in surface units
	LineWidth float32
	Color     color.NRGBA
	// MaxSamples caps the buffer length when frames are starved.
	// 0 means unbounded.
	MaxSamples int
}

// DefaultOptions returns the default trail settings: 600ms fade, 2px spacing, 3px white line.
func DefaultOptions() Options {
	return Options{
		MaxAge:    DefaultMaxAge,
		StepPx:    DefaultStepPx,
		LineWidth: DefaultLineWidth,
		Color:     White,
	}
}

// normalize replaces unusable values with defaults.
func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.MaxAge <= 0 {
		o.MaxAge = d.MaxAge
	}
	if o.StepPx <= 0 || math.IsNaN(o.StepPx) || math.IsInf(o.StepPx, 0) {
		o.StepPx = d.StepPx
	}
	if o.LineWidth <= 0 {
		o.LineWidth = d.LineWidth
	}
	if o.MaxSamples < 0 {
		o.MaxSamples = 0
	}
	return o
}

// FrameStats summarises one RenderFrame call.
type FrameStats struct {
	Evicted  int
	Segments int
	Samples  int
}

// Renderer owns the trail buffer and paints it onto a Surface.
// It is not safe for concurrent use; pointer input and frames must be
// delivered from the same goroutine.
type Renderer struct {
	opts    Options
	surface Surface
	buf     *Buffer

	last    Point
	hasLast bool

	dropped int
}

// NewRenderer creates a renderer drawing onto surface. A nil surface yields
// a disabled renderer whose operations are no-ops.
func NewRenderer(surface Surface, opts Options) *Renderer {
	return &Renderer{
		opts:    opts.normalize(),
		surface: surface,
		buf:     NewBuffer(256),
	}
}

// Enabled reports whether the renderer has a surface to draw on.
func (r *Renderer) Enabled() bool {
	return r.surface != nil
}

// Options returns the active options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the active options. Buffered samples are kept and
// fade against the new MaxAge from the next frame.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts.normalize()
	r.enforceCap()
}

// Buffer exposes the trail buffer for inspection.
func (r *Renderer) Buffer() *Buffer {
	return r.buf
}

// Dropped returns how many samples were discarded by the MaxSamples cap.
func (r *Renderer) Dropped() int {
	return r.dropped
}

// LastPosition returns the most recent raw pointer position, if any.
func (r *Renderer) LastPosition() (Point, bool) {
	return r.last, r.hasLast
}

// OnPointerMove records a pointer position captured at now.
func (r *Renderer) OnPointerMove(x, y float64, now time.Duration) {
	if !r.Enabled() || !finite(x, y) {
		return
	}
	// Keep timestamps non-decreasing even if a source reorders.
	if back, ok := r.buf.Back(); ok && now < back.At {
		now = back.At
	}

	dx := x - r.last.X
	dy := y - r.last.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	// A stationary move collapses the interpolated run to one sample.
	if r.hasLast && dist > 0 {
		steps := int(math.Ceil(dist / r.opts.StepPx))
		if steps < 1 {
			steps = 1
		}
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			r.buf.Append(Sample{
				X:  r.last.X + dx*t,
				Y:  r.last.Y + dy*t,
				At: now,
			})
		}
		// Land exactly on the endpoint regardless of rounding.
		r.buf.samples[len(r.buf.samples)-1] = Sample{X: x, Y: y, At: now}
	} else {
		r.buf.Append(Sample{X: x, Y: y, At: now})
	}

	r.last = Point{X: x, Y: y}
	r.hasLast = true
	r.enforceCap()
}

// ForgetPosition drops the previous pointer position so the next move
// starts a new line instead of bridging the gap. Buffered samples keep
// fading as usual.
func (r *Renderer) ForgetPosition() {
	r.hasLast = false
}

// Reset clears the trail immediately and forgets the previous position.
func (r *Renderer) Reset() {
	r.buf.Clear()
	r.hasLast = false
}

// RenderFrame evicts stale samples and repaints the trail as of now.
func (r *Renderer) RenderFrame(now time.Duration) FrameStats {
	if !r.Enabled() {
		return FrameStats{}
	}
	var st FrameStats
	st.Evicted = r.buf.EvictOlderThan(now, r.opts.MaxAge)

	r.surface.Clear()
	samples := r.buf.Samples()
	for i := 0; i+1 < len(samples); i++ {
		p := samples[i]
		opacity := Opacity(now-p.At, r.opts.MaxAge)
		r.surface.DrawSegment(p.Point(), samples[i+1].Point(), Stroke{
			Color: withAlpha(r.opts.Color, opacity),
			Width: r.opts.LineWidth,
		})
		st.Segments++
	}
	r.surface.Present()

	st.Samples = len(samples)
	return st
}

// OnViewportResize resizes the surface. Negative sizes clamp to zero.
func (r *Renderer) OnViewportResize(w, h int) {
	if !r.Enabled() {
		return
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if cw, ch := r.surface.Size(); cw == w && ch == h {
		return
	}
	r.surface.Resize(w, h)
}

func (r *Renderer) enforceCap() {
	if r.opts.MaxSamples <= 0 {
		return
	}
	if over := r.buf.Len() - r.opts.MaxSamples; over > 0 {
		r.dropped += r.buf.DropFront(over)
	}
}
