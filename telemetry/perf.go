package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for a loop iteration.
const (
	PhasePoll   = "poll"
	PhaseRender = "render"
)

// FrameSample holds timing and trail data for a single frame.
type FrameSample struct {
	Interval time.Duration // time since the previous frame
	Poll     time.Duration
	Render   time.Duration
	Events   int
	Samples  int
	Segments int
	Evicted  int
}

// PerfCollector tracks frame metrics over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []FrameSample
	writeIndex  int
	sampleCount int

	lastFrameTime time.Time
	now           func() time.Time

	frames uint64
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to aggregate over (e.g., 120 for 2 seconds at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]FrameSample, windowSize),
		now:        time.Now,
	}
}

// Record adds a frame. The interval is measured from the previous Record
// call unless the sample already carries one.
func (p *PerfCollector) Record(s FrameSample) {
	now := p.now()
	if s.Interval == 0 && !p.lastFrameTime.IsZero() {
		s.Interval = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now

	p.samples[p.writeIndex] = s
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.frames++
}

// Frames returns the total number of frames recorded.
func (p *PerfCollector) Frames() uint64 {
	return p.frames
}

// Full reports whether the window has wrapped since the last Reset.
func (p *PerfCollector) Full() bool {
	return p.sampleCount == p.windowSize
}

// Reset empties the window, keeping the frame counter.
func (p *PerfCollector) Reset() {
	p.writeIndex = 0
	p.sampleCount = 0
}

// PerfStats holds aggregated frame statistics.
type PerfStats struct {
	Frames int

	AvgRender time.Duration
	P95Render time.Duration
	MaxRender time.Duration
	AvgPoll   time.Duration

	FPS       float64
	FPSStdDev float64

	AvgSamples  float64
	MaxSamples  int
	AvgSegments float64
	Events      int
	Evicted     int
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	n := p.sampleCount
	if n == 0 {
		return PerfStats{}
	}

	render := make([]float64, n)
	poll := make([]float64, n)
	samples := make([]float64, n)
	segments := make([]float64, n)
	var fps []float64

	st := PerfStats{Frames: n}
	for i := 0; i < n; i++ {
		s := p.samples[i]
		render[i] = float64(s.Render)
		poll[i] = float64(s.Poll)
		samples[i] = float64(s.Samples)
		segments[i] = float64(s.Segments)
		if s.Interval > 0 {
			fps = append(fps, float64(time.Second)/float64(s.Interval))
		}
		if s.Samples > st.MaxSamples {
			st.MaxSamples = s.Samples
		}
		if s.Render > st.MaxRender {
			st.MaxRender = s.Render
		}
		st.Events += s.Events
		st.Evicted += s.Evicted
	}

	st.AvgRender = time.Duration(stat.Mean(render, nil))
	st.AvgPoll = time.Duration(stat.Mean(poll, nil))
	st.AvgSamples = stat.Mean(samples, nil)
	st.AvgSegments = stat.Mean(segments, nil)

	sort.Float64s(render)
	st.P95Render = time.Duration(stat.Quantile(0.95, stat.Empirical, render, nil))

	if len(fps) > 0 {
		st.FPS = stat.Mean(fps, nil)
	}
	if len(fps) > 1 {
		st.FPSStdDev = stat.StdDev(fps, nil)
	}
	return st
}

// LogStats logs frame statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "frame", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Int64("avg_render_us", s.AvgRender.Microseconds()),
		slog.Int64("p95_render_us", s.P95Render.Microseconds()),
		slog.Int64("max_render_us", s.MaxRender.Microseconds()),
		slog.Int64("avg_poll_us", s.AvgPoll.Microseconds()),
		slog.Float64("fps", s.FPS),
		slog.Float64("fps_std", s.FPSStdDev),
		slog.Float64("avg_samples", s.AvgSamples),
		slog.Int("max_samples", s.MaxSamples),
		slog.Float64("avg_segments", s.AvgSegments),
		slog.Int("events", s.Events),
		slog.Int("evicted", s.Evicted),
	)
}

// PerfStatsCSV is a flat struct for CSV export of frame stats.
type PerfStatsCSV struct {
	WindowEnd   uint64  `csv:"window_end"`
	AvgRenderUS int64   `csv:"avg_render_us"`
	P95RenderUS int64   `csv:"p95_render_us"`
	MaxRenderUS int64   `csv:"max_render_us"`
	AvgPollUS   int64   `csv:"avg_poll_us"`
	FPS         float64 `csv:"fps"`
	FPSStdDev   float64 `csv:"fps_std"`
	AvgSamples  float64 `csv:"avg_samples"`
	MaxSamples  int     `csv:"max_samples"`
	AvgSegments float64 `csv:"avg_segments"`
	Events      int     `csv:"events"`
	Evicted     int     `csv:"evicted"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgRenderUS: s.AvgRender.Microseconds(),
		P95RenderUS: s.P95Render.Microseconds(),
		MaxRenderUS: s.MaxRender.Microseconds(),
		AvgPollUS:   s.AvgPoll.Microseconds(),
		FPS:         s.FPS,
		FPSStdDev:   s.FPSStdDev,
		AvgSamples:  s.AvgSamples,
		MaxSamples:  s.MaxSamples,
		AvgSegments: s.AvgSegments,
		Events:      s.Events,
		Evicted:     s.Evicted,
	}
}
