package renderer

import (
	"testing"

	"github.com/pthm-cable/afterglow/trail"
)

type capRecord struct {
	at    trail.Point
	alpha uint8
}

func TestCapper_CapsOnlyRunEnds(t *testing.T) {
	var got []capRecord
	emit := func(p trail.Point, st trail.Stroke) {
		got = append(got, capRecord{p, st.Color.A})
	}
	stroke := func(a uint8) trail.Stroke {
		c := trail.White
		c.A = a
		return trail.Stroke{Color: c, Width: 3}
	}

	var c capper
	c.segment(trail.Point{X: 0}, trail.Point{X: 2}, stroke(10), emit)
	c.segment(trail.Point{X: 2}, trail.Point{X: 4}, stroke(20), emit)
	c.segment(trail.Point{X: 4}, trail.Point{X: 6}, stroke(30), emit)
	// A disconnected run closes the first one.
	c.segment(trail.Point{X: 50}, trail.Point{X: 52}, stroke(40), emit)
	c.flush(emit)
	c.flush(emit)

	want := []capRecord{
		{trail.Point{X: 0}, 10},
		{trail.Point{X: 6}, 30},
		{trail.Point{X: 50}, 40},
		{trail.Point{X: 52}, 40},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d caps, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cap %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCapper_ResetDropsPendingCap(t *testing.T) {
	n := 0
	emit := func(trail.Point, trail.Stroke) { n++ }

	var c capper
	c.segment(trail.Point{}, trail.Point{X: 1}, trail.Stroke{Color: trail.White, Width: 3}, emit)
	c.reset()
	c.flush(emit)
	if n != 1 {
		t.Errorf("expected only the start cap after reset, got %d caps", n)
	}
}
