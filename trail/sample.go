// Package trail implements the pointer trail: a time-bounded buffer of pointer
// samples that is interpolated on intake and redrawn as fading segments once
// per frame.
package trail

import (
	"math"
	"time"
)

// Point is a position in viewport space.
type Point struct {
	X, Y float64
}

// Sample is a single recorded pointer position.
type Sample struct {
	X, Y float64
	// At is the capture time relative to the renderer's clock epoch.
	At time.Duration
}

// Point returns the sample position.
func (s Sample) Point() Point {
	return Point{X: s.X, Y: s.Y}
}

// finite reports whether both coordinates are usable.
func finite(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

// Opacity returns the linear fade for a sample of the given age.
// 1 at age zero, 0 at or beyond maxAge, never negative.
func Opacity(age, maxAge time.Duration) float64 {
	if maxAge <= 0 {
		return 0
	}
	if age <= 0 {
		return 1
	}
	o := 1 - float64(age)/float64(maxAge)
	if o < 0 {
		return 0
	}
	return o
}
