package renderer

import (
	"errors"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/afterglow/trail"
)

// ErrNoWindow is returned when raylib could not create a window or GL context.
var ErrNoWindow = errors.New("renderer: window unavailable")

// WindowOptions configures the overlay window.
type WindowOptions struct {
	Width, Height int
	Title         string
	TargetFPS     int
	// Passthrough lets pointer input reach the windows underneath.
	Passthrough bool
	Transparent bool
	Topmost     bool
	// MonitorSize sizes the window to the current monitor.
	MonitorSize bool
}

// WindowSurface is a raylib window used as the trail's render surface.
// All methods must be called from the goroutine that opened it.
type WindowSurface struct {
	w, h     int
	overlays []func()
	drawing  bool
	caps     capper
}

// OpenWindow creates the overlay window. The window is undecorated and,
// depending on opts, transparent, always on top and click-through.
func OpenWindow(opts WindowOptions) (*WindowSurface, error) {
	flags := uint32(rl.FlagWindowUndecorated | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if opts.Transparent {
		flags |= rl.FlagWindowTransparent
	}
	if opts.Topmost {
		flags |= rl.FlagWindowTopmost
	}
	if opts.Passthrough {
		flags |= rl.FlagWindowMousePassthrough
	}
	rl.SetConfigFlags(flags)
	rl.SetTraceLogLevel(rl.LogWarning)

	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	if !rl.IsWindowReady() {
		return nil, ErrNoWindow
	}
	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(int32(opts.TargetFPS))
	}

	s := &WindowSurface{w: opts.Width, h: opts.Height}
	if opts.MonitorSize {
		m := rl.GetCurrentMonitor()
		rl.SetWindowPosition(0, 0)
		s.Resize(rl.GetMonitorWidth(m), rl.GetMonitorHeight(m))
	}
	return s, nil
}

// AddOverlay registers a draw callback run after the trail, before the
// frame is presented.
func (s *WindowSurface) AddOverlay(fn func()) {
	s.overlays = append(s.overlays, fn)
}

// Size returns the window dimensions.
func (s *WindowSurface) Size() (int, int) {
	return s.w, s.h
}

// Resize changes the window size. Zero-area sizes are kept as-is; raylib
// simply renders nothing into them.
func (s *WindowSurface) Resize(w, h int) {
	s.w, s.h = w, h
	if w > 0 && h > 0 {
		rl.SetWindowSize(w, h)
	}
}

// Clear starts a frame and clears it to transparent.
func (s *WindowSurface) Clear() {
	if !s.drawing {
		rl.BeginDrawing()
		s.drawing = true
	}
	rl.ClearBackground(rl.Blank)
	s.caps.reset()
}

// DrawSegment draws a thick line. Round caps go on the ends of each
// continuous run of segments only.
func (s *WindowSurface) DrawSegment(a, b trail.Point, st trail.Stroke) {
	if st.Color.A == 0 {
		s.caps.flush(drawCap)
		return
	}
	s.caps.segment(a, b, st, drawCap)
	va := rl.Vector2{X: float32(a.X), Y: float32(a.Y)}
	vb := rl.Vector2{X: float32(b.X), Y: float32(b.Y)}
	rl.DrawLineEx(va, vb, st.Width, toRL(st.Color))
}

func drawCap(p trail.Point, st trail.Stroke) {
	rl.DrawCircleV(rl.Vector2{X: float32(p.X), Y: float32(p.Y)}, st.Width/2, toRL(st.Color))
}

// Present runs overlays and ends the frame. raylib waits for the target
// frame time inside EndDrawing.
func (s *WindowSurface) Present() {
	if !s.drawing {
		rl.BeginDrawing()
		s.drawing = true
	}
	s.caps.flush(drawCap)
	for _, fn := range s.overlays {
		fn()
	}
	rl.EndDrawing()
	s.drawing = false
}

// Close destroys the window.
func (s *WindowSurface) Close() error {
	rl.CloseWindow()
	return nil
}

func toRL(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
