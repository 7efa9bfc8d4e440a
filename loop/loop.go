// Package loop drives the trail renderer: it drains input sources and renders
// one frame per display refresh, all on a single goroutine.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pthm-cable/afterglow/input"
	"github.com/pthm-cable/afterglow/trail"
)

// ErrRunning is returned by Start when the loop is already running.
var ErrRunning = errors.New("loop: already running")

// FrameInfo describes one loop iteration.
type FrameInfo struct {
	Index  uint64
	Now    time.Duration
	Events int
	Poll   time.Duration // time spent draining sources
	Render time.Duration // time spent in RenderFrame
	trail.FrameStats
}

// Loop owns the redraw cycle. Each iteration polls every source, applies the
// events to the renderer, then renders a frame. Pointer handling and drawing
// therefore never overlap.
type Loop struct {
	renderer *trail.Renderer
	sched    Scheduler
	clock    Clock
	sources  []input.Source

	// OnEvent, if set, sees every event before the renderer does.
	OnEvent func(input.Event)
	// OnFrame, if set, is called after every rendered frame.
	OnFrame func(FrameInfo)

	frames uint64
	quit   bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	runErr error
}

// New creates a loop. Sources are polled in order each frame.
func New(r *trail.Renderer, sched Scheduler, clock Clock, sources ...input.Source) *Loop {
	if clock == nil {
		clock = NewSystemClock()
	}
	if sched == nil {
		sched = ImmediateScheduler{}
	}
	return &Loop{
		renderer: r,
		sched:    sched,
		clock:    clock,
		sources:  sources,
	}
}

// Renderer returns the driven renderer.
func (l *Loop) Renderer() *trail.Renderer {
	return l.renderer
}

// Frames returns the number of frames rendered.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// AddSource appends a source. Not safe while the loop is running.
func (l *Loop) AddSource(src input.Source) {
	l.sources = append(l.sources, src)
}

// eventTime maps an event timestamp onto the loop clock.
func (l *Loop) eventTime(ev input.Event) time.Duration {
	if sc, ok := l.clock.(*SystemClock); ok && !ev.When.IsZero() {
		return sc.Since(ev.When)
	}
	return l.clock.Now()
}

func (l *Loop) dispatch(ev input.Event) {
	if l.OnEvent != nil {
		l.OnEvent(ev)
	}
	switch ev.Kind {
	case input.PointerMove:
		l.renderer.OnPointerMove(ev.X, ev.Y, l.eventTime(ev))
	case input.Resize:
		l.renderer.OnViewportResize(ev.Width, ev.Height)
	case input.Leave:
		l.renderer.ForgetPosition()
	case input.Quit:
		l.quit = true
	}
}

// Step runs one iteration without waiting on the scheduler. It returns
// false once a source has requested quit.
func (l *Loop) Step() (FrameInfo, bool) {
	info := FrameInfo{Index: l.frames}

	start := time.Now()
	for _, src := range l.sources {
		src.Poll(func(ev input.Event) {
			info.Events++
			l.dispatch(ev)
		})
	}
	info.Poll = time.Since(start)
	if l.quit {
		return info, false
	}

	info.Now = l.clock.Now()
	start = time.Now()
	info.FrameStats = l.renderer.RenderFrame(info.Now)
	info.Render = time.Since(start)

	l.frames++
	if l.OnFrame != nil {
		l.OnFrame(info)
	}
	return info, true
}

// Run blocks, rendering a frame per scheduler tick, until ctx is done or a
// source requests quit. It must be called from the goroutine that owns the
// surface. Cancellation is a clean exit and returns nil.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.sched.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if _, ok := l.Step(); !ok {
			return nil
		}
	}
}

// Start runs the loop on a new goroutine. Use Stop to end it.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		select {
		case <-l.done:
		default:
			return ErrRunning
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.quit = false

	done := l.done
	go func() {
		defer close(done)
		err := l.Run(ctx)
		l.mu.Lock()
		l.runErr = err
		l.mu.Unlock()
	}()
	return nil
}

// Done is closed when a loop started with Start exits. Nil before Start.
func (l *Loop) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

// Stop cancels a loop started with Start, waits for it to exit and returns
// its error. Stopping a loop that is not running is a no-op.
func (l *Loop) Stop() error {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runErr
}
