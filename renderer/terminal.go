package renderer

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/afterglow/trail"
)

// TerminalSurface rasterises the trail into terminal cells. Each cell on a
// segment is painted with a grey level proportional to the stroke opacity.
// Stroke width is ignored: a cell is the thinnest line a terminal can show.
type TerminalSurface struct {
	screen tcell.Screen
	glyph  rune
	w, h   int
}

// NewTerminalSurface wraps an initialised tcell screen.
func NewTerminalSurface(screen tcell.Screen, glyph rune) *TerminalSurface {
	if glyph == 0 {
		glyph = '█'
	}
	w, h := screen.Size()
	return &TerminalSurface{screen: screen, glyph: glyph, w: w, h: h}
}

// Size returns the surface dimensions in cells.
func (s *TerminalSurface) Size() (int, int) {
	return s.w, s.h
}

// Resize records the new size. The terminal itself owns its dimensions;
// Sync repaints everything after the change.
func (s *TerminalSurface) Resize(w, h int) {
	s.w, s.h = w, h
	s.screen.Sync()
}

// Clear blanks the screen.
func (s *TerminalSurface) Clear() {
	s.screen.Clear()
}

// DrawSegment walks the segment cell by cell.
func (s *TerminalSurface) DrawSegment(a, b trail.Point, st trail.Stroke) {
	if st.Color.A == 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(shade(st))
	for _, c := range cells(a, b) {
		if c.x < 0 || c.y < 0 || c.x >= s.w || c.y >= s.h {
			continue
		}
		s.screen.SetContent(c.x, c.y, s.glyph, nil, style)
	}
}

// Present flushes pending cells to the terminal.
func (s *TerminalSurface) Present() {
	s.screen.Show()
}

// shade blends the stroke colour over black by its alpha.
func shade(st trail.Stroke) tcell.Color {
	a := int32(st.Color.A)
	return tcell.NewRGBColor(
		int32(st.Color.R)*a/255,
		int32(st.Color.G)*a/255,
		int32(st.Color.B)*a/255,
	)
}

type cell struct{ x, y int }

// cells returns the cells crossed by the segment a-b, endpoints included.
func cells(a, b trail.Point) []cell {
	dx := b.X - a.X
	dy := b.Y - a.Y
	n := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	out := make([]cell, 0, n+1)
	last := cell{x: math.MinInt, y: math.MinInt}
	for i := 0; i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		c := cell{
			x: int(math.Floor(a.X + dx*t)),
			y: int(math.Floor(a.Y + dy*t)),
		}
		if c != last {
			out = append(out, c)
			last = c
		}
	}
	return out
}
