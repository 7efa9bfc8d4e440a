package renderer

import "github.com/pthm-cable/afterglow/trail"

// capper places round caps on the open ends of a polyline drawn one segment
// at a time. Joints between consecutive segments get no cap, so a
// translucent stroke is never painted twice there.
type capper struct {
	end    trail.Point
	stroke trail.Stroke
	open   bool
}

// segment emits the caps due before drawing a-b: the pending end cap of the
// previous run when a-b does not continue it, and a start cap for a new run.
func (c *capper) segment(a, b trail.Point, st trail.Stroke, emit func(trail.Point, trail.Stroke)) {
	if !c.open || c.end != a {
		c.flush(emit)
		emit(a, st)
	}
	c.end, c.stroke, c.open = b, st, true
}

// flush emits the end cap of the current run, if any.
func (c *capper) flush(emit func(trail.Point, trail.Stroke)) {
	if c.open {
		emit(c.end, c.stroke)
		c.open = false
	}
}

func (c *capper) reset() {
	c.open = false
}
