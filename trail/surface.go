package trail

import "image/color"

// Stroke describes how a segment is painted. Caps and joins are always round.
type Stroke struct {
	Color color.NRGBA
	Width float32
}

// Surface is the drawing target sized to the viewport.
type Surface interface {
	// Size returns the current surface dimensions.
	Size() (w, h int)
	// Resize sets new dimensions. Contents are not preserved.
	Resize(w, h int)
	// Clear erases the whole surface to transparent.
	Clear()
	// DrawSegment paints a line from a to b.
	DrawSegment(a, b Point, s Stroke)
	// Present flushes the frame.
	Present()
}

// withAlpha scales c's alpha channel by opacity in [0, 1].
func withAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
