package input

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func collect(src Source) []Event {
	var out []Event
	src.Poll(func(ev Event) { out = append(out, ev) })
	return out
}

func TestQueue_DropsOldestMoveOnOverflow(t *testing.T) {
	q := newQueue(3)
	q.push(Event{Kind: Resize, Width: 1})
	q.push(Event{Kind: PointerMove, X: 1})
	q.push(Event{Kind: PointerMove, X: 2})
	q.push(Event{Kind: PointerMove, X: 3})

	var got []Event
	q.drain(func(ev Event) { got = append(got, ev) })

	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].Kind != Resize {
		t.Errorf("resize must survive overflow, got %v", got[0].Kind)
	}
	if got[1].X != 2 || got[2].X != 3 {
		t.Errorf("expected moves 2,3 to remain, got %v,%v", got[1].X, got[2].X)
	}
	if q.Dropped() != 1 {
		t.Errorf("expected 1 dropped, got %d", q.Dropped())
	}

	got = got[:0]
	q.drain(func(ev Event) { got = append(got, ev) })
	if len(got) != 0 {
		t.Errorf("expected empty queue after drain, got %d", len(got))
	}
}

func TestSynthetic_ResizeThenMoves(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSynthetic(800, 600, time.Second, func() time.Time { return now })

	first := collect(s)
	if len(first) != 2 || first[0].Kind != Resize || first[1].Kind != PointerMove {
		t.Fatalf("expected resize then move, got %+v", first)
	}
	if first[0].Width != 800 || first[0].Height != 600 {
		t.Errorf("unexpected size %dx%d", first[0].Width, first[0].Height)
	}

	now = now.Add(250 * time.Millisecond)
	second := collect(s)
	if len(second) != 1 {
		t.Fatalf("expected a single move, got %d events", len(second))
	}
	ev := second[0]
	if ev.X < 0 || ev.X > 800 || ev.Y < 0 || ev.Y > 600 {
		t.Errorf("path left the viewport: (%v, %v)", ev.X, ev.Y)
	}
	if ev.X == first[1].X && ev.Y == first[1].Y {
		t.Error("path did not advance")
	}
}

func TestRecorder_ReplayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointer.csv")
	base := time.Unix(100, 0)

	events := []Event{
		{Kind: Resize, Width: 640, Height: 480, When: base},
		{Kind: PointerMove, X: 10, Y: 20, When: base.Add(5 * time.Millisecond)},
		{Kind: PointerMove, X: 30, Y: 40, When: base.Add(20 * time.Millisecond)},
		{Kind: Leave, When: base.Add(30 * time.Millisecond)},
	}
	src := Func(func(deliver func(Event)) {
		for _, ev := range events {
			deliver(ev)
		}
		events = nil
	})

	rec, err := NewRecorder(src, path)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	forwarded := collect(rec)
	if len(forwarded) != 4 {
		t.Fatalf("recorder should forward events, got %d", len(forwarded))
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows, err := LoadRecording(path)
	if err != nil {
		t.Fatalf("LoadRecording: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[2].OffsetMS != 20 || rows[2].X != 30 {
		t.Errorf("unexpected row %+v", rows[2])
	}

	clock := time.Unix(0, 0)
	rp := NewReplay(rows, func() time.Time { return clock })
	if rp.Duration() != 30*time.Millisecond {
		t.Errorf("expected 30ms duration, got %v", rp.Duration())
	}

	got := collect(rp)
	if len(got) != 1 || got[0].Kind != Resize || got[0].Width != 640 {
		t.Fatalf("expected only the resize at t=0, got %+v", got)
	}

	clock = clock.Add(20 * time.Millisecond)
	got = collect(rp)
	if len(got) != 2 || got[1].X != 30 || got[1].Y != 40 {
		t.Fatalf("expected two moves by 20ms, got %+v", got)
	}

	clock = clock.Add(time.Second)
	got = collect(rp)
	if len(got) != 1 || got[0].Kind != Leave {
		t.Fatalf("expected leave, got %+v", got)
	}
	if !rp.Done() {
		t.Error("replay should be done")
	}
}

func TestTranslateTerminalEvents(t *testing.T) {
	tests := []struct {
		name string
		ev   tcell.Event
		want Kind
		ok   bool
	}{
		{"motion", tcell.NewEventMouse(4, 7, tcell.ButtonNone, tcell.ModNone), PointerMove, true},
		{"resize", tcell.NewEventResize(120, 40), Resize, true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), Quit, true},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), Quit, true},
		{"other key", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.ev)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got.Kind != tt.want {
				t.Errorf("kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}

	ev, _ := translate(tcell.NewEventMouse(4, 7, tcell.ButtonNone, tcell.ModNone))
	if ev.X != 4 || ev.Y != 7 {
		t.Errorf("expected (4, 7), got (%v, %v)", ev.X, ev.Y)
	}
	ev, _ = translate(tcell.NewEventResize(120, 40))
	if ev.Width != 120 || ev.Height != 40 {
		t.Errorf("expected 120x40, got %dx%d", ev.Width, ev.Height)
	}
}
