// Package app wires configuration, surfaces, input sources, the trail
// renderer and telemetry into a runnable overlay.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/afterglow/config"
	"github.com/pthm-cable/afterglow/input"
	"github.com/pthm-cable/afterglow/loop"
	"github.com/pthm-cable/afterglow/telemetry"
	"github.com/pthm-cable/afterglow/trail"
)

// Backend selects where the trail is drawn.
type Backend string

const (
	BackendWindow   Backend = "window"   // raylib overlay window
	BackendTerminal Backend = "terminal" // tcell cells
	BackendHeadless Backend = "headless" // in-memory surface, synthetic or replayed input
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendWindow, BackendTerminal, BackendHeadless:
		return b, nil
	}
	return "", fmt.Errorf("unknown backend %q (want window, terminal or headless)", s)
}

// Options configures an App beyond the loaded config.
type Options struct {
	Backend Backend
	// Source overrides overlay.source from config when non-empty.
	Source string
	// RecordPath, if set, records pointer input to CSV.
	RecordPath string
	// ReplayPath, if set, replaces live pointer input with a recording.
	ReplayPath string
	// OutputDir, if set, receives perf.csv and a config snapshot.
	OutputDir string
	LogStats  bool
	// MaxFrames stops the loop after N frames (0 = unlimited).
	MaxFrames int
	// Panel shows the settings panel on the window backend.
	Panel bool
}

// App is a configured trail overlay ready to run.
type App struct {
	cfg  *config.Config
	opts Options

	renderer *trail.Renderer
	loop     *loop.Loop
	perf     *telemetry.PerfCollector
	output   *telemetry.OutputManager
	replay   *input.Replay

	sourceName string
	lastFrame  loop.FrameInfo
	lastLog    time.Time
	cancel     context.CancelFunc
	closers    []func() error
}

// New builds an App for the selected backend. A surface that cannot be
// acquired disables the trail instead of failing: the returned App runs
// nothing and reports Enabled() == false.
func New(cfg *config.Config, opts Options) (*App, error) {
	if opts.Backend == "" {
		opts.Backend = BackendWindow
	}
	if opts.Source == "" {
		opts.Source = cfg.Overlay.Source
	}

	a := &App{
		cfg:  cfg,
		opts: opts,
		perf: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	a.output = output
	a.closers = append(a.closers, output.Close)
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	var b built
	switch opts.Backend {
	case BackendWindow:
		b, err = a.buildWindow()
	case BackendTerminal:
		b, err = a.buildTerminal()
	case BackendHeadless:
		b, err = a.buildHeadless()
	default:
		err = fmt.Errorf("unknown backend %q", opts.Backend)
	}
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.renderer == nil {
		// Surface acquisition failed: keep running with the trail disabled.
		a.renderer = trail.NewRenderer(nil, a.trailOptions())
		return a, nil
	}

	native, pointer := b.native, b.pointer
	if opts.ReplayPath != "" {
		rows, err := input.LoadRecording(opts.ReplayPath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.replay = input.NewReplay(rows, nil)
		pointer = a.replay
		a.sourceName = "replay"
	}
	if pointer != nil && native != nil {
		// The surface keeps reporting resize and quit; pointer input comes
		// from elsewhere.
		native = input.Only(native, input.Resize, input.Quit)
	}
	if opts.RecordPath != "" {
		rec, err := a.record(pointer, native)
		if err != nil {
			a.Close()
			return nil, err
		}
		if pointer != nil {
			pointer = rec
		} else {
			native = rec
		}
	}

	a.loop = loop.New(a.renderer, b.sched, loop.NewSystemClock(), compact(native, pointer)...)
	a.loop.OnFrame = a.onFrame

	slog.Info("trail overlay ready",
		"backend", opts.Backend,
		"source", a.sourceName,
		"max_age", a.renderer.Options().MaxAge,
		"step_px", a.renderer.Options().StepPx,
		"max_samples", a.renderer.Options().MaxSamples,
	)
	return a, nil
}

// built carries what a backend constructor produced.
type built struct {
	sched loop.Scheduler
	// native reports what the surface itself knows: resize, quit and, unless
	// pointer is set, pointer movement.
	native input.Source
	// pointer, if set, is a separate pointer source such as the global hook.
	pointer input.Source
}

// record wraps the pointer-carrying source in a CSV recorder.
func (a *App) record(pointer, native input.Source) (*input.Recorder, error) {
	src := pointer
	if src == nil {
		src = native
	}
	if src == nil {
		return nil, errors.New("nothing to record: backend has no input source")
	}
	rec, err := input.NewRecorder(src, a.opts.RecordPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, rec.Close)
	slog.Info("recording pointer input", "path", a.opts.RecordPath)
	return rec, nil
}

func compact(srcs ...input.Source) []input.Source {
	out := make([]input.Source, 0, len(srcs))
	for _, s := range srcs {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// trailOptions maps config onto renderer options.
func (a *App) trailOptions() trail.Options {
	c := a.cfg
	return trail.Options{
		MaxAge:     c.Derived.MaxAge,
		StepPx:     c.Trail.StepPx,
		LineWidth:  float32(c.Trail.LineWidth),
		Color:      c.Derived.TrailColor,
		MaxSamples: c.Trail.MaxSamples,
	}
}

// Enabled reports whether the trail has a surface.
func (a *App) Enabled() bool {
	return a.renderer != nil && a.renderer.Enabled()
}

// Renderer returns the trail renderer.
func (a *App) Renderer() *trail.Renderer {
	return a.renderer
}

// Perf returns the frame metrics collector.
func (a *App) Perf() *telemetry.PerfCollector {
	return a.perf
}

// Run drives the loop on the calling goroutine until ctx is done, a source
// requests quit, MaxFrames is reached or a replay finishes.
func (a *App) Run(ctx context.Context) error {
	if !a.Enabled() || a.loop == nil {
		slog.Warn("trail renderer disabled, nothing to run")
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.cancel = cancel

	err := a.loop.Run(ctx)

	if a.perf.Frames() > 0 {
		stats := a.perf.Stats()
		if a.opts.LogStats {
			stats.LogStats()
		}
		if a.output != nil {
			if werr := a.output.WritePerf(stats, a.loop.Frames()); werr != nil {
				slog.Error("failed to write perf", "error", werr)
			}
		}
	}
	slog.Info("trail overlay stopped", "frames", a.loop.Frames(), "dropped", a.renderer.Dropped())
	return err
}

// Close releases every resource the backend acquired, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
