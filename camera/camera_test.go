package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/afterglow/input"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at desktop origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Scale != 1.0 {
		t.Errorf("expected scale 1.0, got %f", cam.Scale)
	}
}

func TestScreenToSurfaceOffset(t *testing.T) {
	cam := New(800, 600)
	cam.MoveTo(100, 50)

	x, y := cam.ScreenToSurface(100, 50)
	if x != 0 || y != 0 {
		t.Errorf("window origin should map to (0, 0), got (%f, %f)", x, y)
	}
	x, y = cam.ScreenToSurface(500, 350)
	if x != 400 || y != 300 {
		t.Errorf("expected (400, 300), got (%f, %f)", x, y)
	}
}

func TestScreenToSurfaceScaled(t *testing.T) {
	cam := New(1280, 720)
	cam.MoveTo(-1920, 40)
	cam.SetScale(2)

	testCases := []struct{ sx, sy, x, y float64 }{
		{-1920, 40, 0, 0},      // origin
		{-1800, 100, 240, 120}, // inside
		{0, 0, 3840, -80},      // outside, right of the window
	}

	for _, tc := range testCases {
		x, y := cam.ScreenToSurface(tc.sx, tc.sy)
		if math.Abs(x-tc.x) > 0.01 || math.Abs(y-tc.y) > 0.01 {
			t.Errorf("(%f,%f): expected (%f,%f), got (%f,%f)", tc.sx, tc.sy, tc.x, tc.y, x, y)
		}
	}
}

func TestSetScaleIgnoresInvalid(t *testing.T) {
	cam := New(100, 100)

	cam.SetScale(1.5)
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		cam.SetScale(s)
		if cam.Scale != 1.5 {
			t.Errorf("SetScale(%v) should be ignored, got %f", s, cam.Scale)
		}
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(200, 100)

	tests := []struct {
		name   string
		x, y   float64
		margin float64
		want   bool
	}{
		{"center", 100, 50, 0, true},
		{"corner", 200, 100, 0, true},
		{"left of viewport", -1, 50, 0, false},
		{"within margin", -1, 50, 2, true},
		{"below", 100, 101, 0, false},
	}
	for _, tt := range tests {
		if got := cam.IsVisible(tt.x, tt.y, tt.margin); got != tt.want {
			t.Errorf("%s: IsVisible(%v, %v, %v) = %v, want %v", tt.name, tt.x, tt.y, tt.margin, got, tt.want)
		}
	}
}

func TestTrackMapsAndLeaves(t *testing.T) {
	cam := New(0, 0)
	events := []input.Event{
		{Kind: input.PointerMove, X: 150, Y: 120}, // inside
		{Kind: input.PointerMove, X: 10, Y: 10},   // outside
		{Kind: input.PointerMove, X: 5, Y: 5},     // still outside
		{Kind: input.Quit},
	}
	src := input.Func(func(deliver func(input.Event)) {
		for _, ev := range events {
			deliver(ev)
		}
	})
	place := func() (float64, float64, int, int, float64) { return 100, 100, 200, 100, 1 }

	var got []input.Event
	cam.Track(src, place).Poll(func(ev input.Event) { got = append(got, ev) })

	if cam.ViewportW != 200 || cam.X != 100 {
		t.Fatalf("camera not refreshed from placement: %+v", cam)
	}
	if len(got) != 3 {
		t.Fatalf("expected move, leave, quit; got %+v", got)
	}
	if got[0].Kind != input.PointerMove || got[0].X != 50 || got[0].Y != 20 {
		t.Errorf("expected move at (50, 20), got %+v", got[0])
	}
	if got[1].Kind != input.Leave {
		t.Errorf("expected a single leave, got %+v", got[1])
	}
	if got[2].Kind != input.Quit {
		t.Errorf("expected quit to pass through, got %+v", got[2])
	}
}
