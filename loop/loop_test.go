package loop

import (
	"context"
	"testing"
	"time"

	"github.com/pthm-cable/afterglow/input"
	"github.com/pthm-cable/afterglow/trail"
)

// scripted delivers one batch of events per Poll.
type scripted struct {
	batches [][]input.Event
}

func (s *scripted) Poll(deliver func(input.Event)) {
	if len(s.batches) == 0 {
		return
	}
	for _, ev := range s.batches[0] {
		deliver(ev)
	}
	s.batches = s.batches[1:]
}

func move(x, y float64) input.Event {
	return input.Event{Kind: input.PointerMove, X: x, Y: y}
}

func TestLoop_StepAppliesEventsThenRenders(t *testing.T) {
	surf := trail.NewRecordingSurface(0, 0)
	r := trail.NewRenderer(surf, trail.DefaultOptions())
	clock := &ManualClock{}
	src := &scripted{batches: [][]input.Event{
		{{Kind: input.Resize, Width: 320, Height: 200}, move(0, 0), move(10, 0)},
		{},
	}}
	l := New(r, nil, clock, src)

	info, ok := l.Step()
	if !ok {
		t.Fatal("unexpected quit")
	}
	if info.Events != 3 {
		t.Errorf("expected 3 events, got %d", info.Events)
	}
	if w, h := surf.Size(); w != 320 || h != 200 {
		t.Errorf("expected 320x200 surface, got %dx%d", w, h)
	}
	// 1 + (5 steps + 1) samples
	if info.Samples != 7 || info.Segments != 6 {
		t.Errorf("unexpected frame stats %+v", info.FrameStats)
	}

	clock.Advance(700 * time.Millisecond)
	info, _ = l.Step()
	if info.Evicted != 7 || info.Samples != 0 {
		t.Errorf("expected full eviction at 700ms, got %+v", info.FrameStats)
	}
	if l.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", l.Frames())
	}
}

func TestLoop_LeaveKeepsTrailFading(t *testing.T) {
	r := trail.NewRenderer(trail.NewRecordingSurface(100, 100), trail.DefaultOptions())
	clock := &ManualClock{}
	src := &scripted{batches: [][]input.Event{
		{move(5, 5), move(25, 5)},
		{{Kind: input.Leave}},
		{},
		{},
	}}
	l := New(r, nil, clock, src)

	l.Step()
	before := r.Buffer().Len()
	if before == 0 {
		t.Fatal("expected samples after moves")
	}

	clock.Advance(16 * time.Millisecond)
	info, _ := l.Step()
	if info.Samples != before || info.Segments != before-1 {
		t.Errorf("leave must not drop a fresh trail: before=%d, got %+v", before, info.FrameStats)
	}
	if _, ok := r.LastPosition(); ok {
		t.Error("leave should forget the last position")
	}

	clock.Advance(300 * time.Millisecond)
	if info, _ = l.Step(); info.Samples != before {
		t.Errorf("samples should still be fading at 316ms, got %d", info.Samples)
	}

	clock.Advance(400 * time.Millisecond)
	if info, _ = l.Step(); info.Samples != 0 || info.Evicted != before {
		t.Errorf("expected trail aged out at 716ms, got %+v", info.FrameStats)
	}
}

func TestLoop_QuitEndsRun(t *testing.T) {
	r := trail.NewRenderer(trail.NewRecordingSurface(10, 10), trail.DefaultOptions())
	src := &scripted{batches: [][]input.Event{
		{move(1, 1)},
		{move(2, 2)},
		{{Kind: input.Quit}},
	}}
	l := New(r, ImmediateScheduler{}, &ManualClock{}, src)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Frames() != 2 {
		t.Errorf("expected 2 frames before quit, got %d", l.Frames())
	}
}

func TestLoop_StartStop(t *testing.T) {
	surf := trail.NewRecordingSurface(10, 10)
	r := trail.NewRenderer(surf, trail.DefaultOptions())
	sched := NewManualScheduler()
	l := New(r, sched, &ManualClock{})

	frames := make(chan FrameInfo, 8)
	l.OnFrame = func(fi FrameInfo) { frames <- fi }

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := l.Start(context.Background()); err != ErrRunning {
		t.Errorf("second Start: expected ErrRunning, got %v", err)
	}

	sched.Tick()
	sched.Tick()
	for i := 0; i < 2; i++ {
		select {
		case fi := <-frames:
			if fi.Index != uint64(i) {
				t.Errorf("expected frame %d, got %d", i, fi.Index)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for frame")
		}
	}

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-l.Done():
	default:
		t.Error("Done should be closed after Stop")
	}
	if surf.Presents != 2 {
		t.Errorf("expected 2 presents, got %d", surf.Presents)
	}
	// Stopping twice is harmless.
	if err := l.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestLoop_EventTimeUsesSystemClock(t *testing.T) {
	clock := NewSystemClock()
	r := trail.NewRenderer(trail.NewRecordingSurface(10, 10), trail.DefaultOptions())
	when := clock.epoch.Add(42 * time.Millisecond)
	src := &scripted{batches: [][]input.Event{
		{{Kind: input.PointerMove, X: 3, Y: 4, When: when}},
	}}
	l := New(r, nil, clock, src)
	l.Step()

	s, ok := r.Buffer().Front()
	if !ok {
		t.Fatal("expected a buffered sample")
	}
	if s.At != 42*time.Millisecond {
		t.Errorf("expected sample stamped at 42ms, got %v", s.At)
	}
}

func TestTickerScheduler_CancelledContext(t *testing.T) {
	s := NewTickerScheduler(1)
	defer s.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Wait(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}
