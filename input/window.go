package input

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window polls pointer and size changes from the raylib window. It must be
// polled from the goroutine that owns the window.
type Window struct {
	lastX, lastY float32
	seen         bool
	onScreen     bool
	w, h         int
}

// NewWindow creates a raylib polling source. The window must be open.
func NewWindow() *Window {
	return &Window{
		w: rl.GetScreenWidth(),
		h: rl.GetScreenHeight(),
	}
}

// Poll reports a move when the cursor position changed since the last
// frame, a resize when the window changed size, and quit on close request.
func (s *Window) Poll(deliver func(Event)) {
	now := time.Now()

	if rl.WindowShouldClose() {
		deliver(Event{Kind: Quit, When: now})
		return
	}

	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		if w != s.w || h != s.h {
			s.w, s.h = w, h
			deliver(Event{Kind: Resize, Width: w, Height: h, When: now})
		}
	}

	on := rl.IsCursorOnScreen()
	if !on {
		if s.onScreen {
			deliver(Event{Kind: Leave, When: now})
		}
		s.onScreen = false
		return
	}
	s.onScreen = true

	pos := rl.GetMousePosition()
	if s.seen && pos.X == s.lastX && pos.Y == s.lastY {
		return
	}
	s.seen = true
	s.lastX, s.lastY = pos.X, pos.Y
	deliver(Event{Kind: PointerMove, X: float64(pos.X), Y: float64(pos.Y), When: now})
}
