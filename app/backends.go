package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/afterglow/camera"
	"github.com/pthm-cable/afterglow/input"
	"github.com/pthm-cable/afterglow/loop"
	"github.com/pthm-cable/afterglow/renderer"
	"github.com/pthm-cable/afterglow/trail"
	"github.com/pthm-cable/afterglow/ui"
)

// Pointer sources for the window backend.
const (
	SourceWindow = "window"
	SourceHook   = "hook"
)

// buildWindow opens the raylib overlay. raylib paces frames inside
// EndDrawing, so the loop never waits on its own.
func (a *App) buildWindow() (built, error) {
	c := a.cfg
	source, err := pointerSource(a.opts.Source, c.Overlay.Passthrough)
	if err != nil {
		return built{}, err
	}
	if source != a.opts.Source {
		slog.Info("click-through window receives no pointer input, using the global hook")
	}

	surf, err := renderer.OpenWindow(renderer.WindowOptions{
		Width:       c.Screen.Width,
		Height:      c.Screen.Height,
		Title:       c.Screen.Title,
		TargetFPS:   c.Screen.TargetFPS,
		Passthrough: c.Overlay.Passthrough,
		Transparent: c.Overlay.Transparent,
		Topmost:     c.Overlay.Topmost,
		MonitorSize: c.Overlay.FullscreenSize,
	})
	if err != nil {
		slog.Warn("overlay window unavailable, trail disabled", "error", err)
		return built{}, nil
	}
	a.closers = append(a.closers, surf.Close)
	a.renderer = trail.NewRenderer(surf, a.trailOptions())

	b := built{sched: loop.ImmediateScheduler{}, native: input.NewWindow()}
	a.sourceName = SourceWindow

	if source == SourceHook && a.opts.ReplayPath == "" {
		h := input.NewHook(input.HookOptions{
			QueueSize: c.Overlay.QueueSize,
			QuitKeys:  c.Overlay.QuitKeys,
		})
		h.Start()
		a.closers = append(a.closers, func() error {
			if n := h.Dropped(); n > 0 {
				slog.Warn("pointer moves dropped by full hook queue", "dropped", n)
			}
			return h.Close()
		})
		// The window sizes the surface; the hook only contributes movement,
		// mapped from desktop coordinates into the window.
		cam := camera.New(float64(c.Screen.Width), float64(c.Screen.Height))
		b.pointer = cam.Track(input.Only(h, input.PointerMove, input.Quit), windowPlacement)
		a.sourceName = SourceHook
	}

	if a.opts.Panel {
		if c.Overlay.Passthrough {
			slog.Warn("settings panel needs pointer input, ignored on a click-through window")
		} else {
			a.attachPanel(surf)
		}
	}
	return b, nil
}

// pointerSource validates the configured pointer source. A click-through
// window never sees the pointer, so it always reads from the hook.
func pointerSource(source string, passthrough bool) (string, error) {
	switch source {
	case SourceHook:
		return SourceHook, nil
	case SourceWindow:
		if passthrough {
			return SourceHook, nil
		}
		return SourceWindow, nil
	}
	return "", fmt.Errorf("unknown pointer source %q (want window or hook)", source)
}

// windowPlacement reports the overlay window's desktop position and size.
// raylib and the hook both work in logical desktop units.
func windowPlacement() (x, y float64, w, h int, scale float64) {
	pos := rl.GetWindowPosition()
	return float64(pos.X), float64(pos.Y), rl.GetScreenWidth(), rl.GetScreenHeight(), 1
}

// attachPanel draws the settings panel and status HUD over the trail.
func (a *App) attachPanel(surf *renderer.WindowSurface) {
	panel := ui.NewSettingsPanel(a.renderer, 10, 10)
	hud := ui.NewHUD(10, 220, 200)
	surf.AddOverlay(func() {
		panel.Draw()
		if !panel.IsVisible() {
			return
		}
		hud.Draw(ui.HUDData{
			Samples:    a.lastFrame.Samples,
			MaxSamples: a.renderer.Options().MaxSamples,
			Segments:   a.lastFrame.Segments,
			Dropped:    a.renderer.Dropped(),
			FPS:        rl.GetFPS(),
			Source:     a.sourceName,
		})
		hud.DrawControls(int32(rl.GetScreenHeight()), "[F1] Settings")
	})
}

// buildTerminal draws the trail in terminal cells. Logs move off the
// terminal while the screen is active.
func (a *App) buildTerminal() (built, error) {
	c := a.cfg
	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		slog.Warn("terminal unavailable, trail disabled", "error", err)
		return built{}, nil
	}

	if err := a.redirectLogs(); err != nil {
		screen.Fini()
		return built{}, err
	}
	a.closers = append(a.closers, func() error {
		screen.Fini()
		return nil
	})

	opts := a.trailOptions()
	opts.StepPx = c.Terminal.StepPx
	a.renderer = trail.NewRenderer(renderer.NewTerminalSurface(screen, c.Derived.Glyph), opts)

	src := input.NewTerminal(screen, c.Overlay.QueueSize)
	a.closers = append(a.closers, src.Close)

	sched := loop.NewTickerScheduler(c.Screen.TargetFPS)
	a.closers = append(a.closers, stopper(sched))
	a.sourceName = "terminal"
	return built{sched: sched, native: src}, nil
}

// redirectLogs sends logs to output-dir/afterglow.log, or drops them when no
// output directory is set. The previous logger is restored on Close.
func (a *App) redirectLogs() error {
	prev := slog.Default()
	var w io.Writer = io.Discard
	if a.opts.OutputDir != "" {
		f, err := os.OpenFile(filepath.Join(a.opts.OutputDir, "afterglow.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w = f
		a.closers = append(a.closers, f.Close)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
	a.closers = append(a.closers, func() error {
		slog.SetDefault(prev)
		return nil
	})
	return nil
}

// buildHeadless renders into memory, driven by a synthetic pointer path
// unless a replay replaces it.
func (a *App) buildHeadless() (built, error) {
	c := a.cfg
	surf := trail.NewRecordingSurface(c.Screen.Width, c.Screen.Height)
	a.renderer = trail.NewRenderer(surf, a.trailOptions())

	sched := loop.NewTickerScheduler(c.Screen.TargetFPS)
	a.closers = append(a.closers, stopper(sched))
	a.sourceName = "synthetic"
	return built{
		sched:   sched,
		pointer: input.NewSynthetic(c.Screen.Width, c.Screen.Height, 0, nil),
	}, nil
}

func stopper(s *loop.TickerScheduler) func() error {
	return func() error {
		s.Stop()
		return nil
	}
}
