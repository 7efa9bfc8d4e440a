// Package camera maps desktop pointer coordinates onto the overlay surface.
package camera

import (
	"math"

	"github.com/pthm-cable/afterglow/input"
)

// Camera describes where the overlay surface sits on the desktop.
type Camera struct {
	// X, Y is the surface origin in desktop coordinates.
	X, Y float64

	// Scale converts desktop units to surface units (1.0 = 1:1).
	Scale float64

	// Viewport dimensions (surface size)
	ViewportW, ViewportH float64
}

// New creates a camera for a viewportW x viewportH surface at the desktop
// origin with 1:1 scale.
func New(viewportW, viewportH float64) *Camera {
	return &Camera{
		Scale:     1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// ScreenToSurface converts desktop coordinates to surface coordinates.
func (c *Camera) ScreenToSurface(sx, sy float64) (x, y float64) {
	return (sx - c.X) * c.Scale, (sy - c.Y) * c.Scale
}

// IsVisible returns true if a surface point lies within the viewport
// grown by margin on every side.
func (c *Camera) IsVisible(x, y, margin float64) bool {
	return x >= -margin && y >= -margin &&
		x <= c.ViewportW+margin && y <= c.ViewportH+margin
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// MoveTo places the surface origin at desktop position (x, y).
func (c *Camera) MoveTo(x, y float64) {
	c.X, c.Y = x, y
}

// SetScale sets the scale. Non-positive and non-finite values are ignored.
func (c *Camera) SetScale(scale float64) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return
	}
	c.Scale = scale
}

// Placement reports the surface's current desktop origin, size and scale.
type Placement func() (x, y float64, w, h int, scale float64)

// Track wraps a source of desktop pointer events. Each Poll refreshes the
// camera from place, maps pointer moves into surface coordinates and turns
// an exit from the viewport into a single Leave. Other events pass through.
func (c *Camera) Track(src input.Source, place Placement) input.Source {
	inside := false
	return input.Func(func(deliver func(input.Event)) {
		if place != nil {
			x, y, w, h, scale := place()
			c.MoveTo(x, y)
			c.Resize(float64(w), float64(h))
			c.SetScale(scale)
		}
		src.Poll(func(ev input.Event) {
			if ev.Kind != input.PointerMove {
				deliver(ev)
				return
			}
			ev.X, ev.Y = c.ScreenToSurface(ev.X, ev.Y)
			if !c.IsVisible(ev.X, ev.Y, 0) {
				if inside {
					inside = false
					deliver(input.Event{Kind: input.Leave, When: ev.When})
				}
				return
			}
			inside = true
			deliver(ev)
		})
	})
}
