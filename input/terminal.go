package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Terminal turns tcell mouse-motion and resize events into trail events.
// Coordinates are in terminal cells.
type Terminal struct {
	screen tcell.Screen
	q      *queue

	once sync.Once
	quit chan struct{}
	done chan struct{}
}

// NewTerminal enables mouse motion reporting on screen and starts pumping
// its events. The caller keeps ownership of the screen.
func NewTerminal(screen tcell.Screen, queueSize int) *Terminal {
	if queueSize <= 0 {
		queueSize = 512
	}
	screen.EnableMouse(tcell.MouseMotionEvents)

	t := &Terminal{
		screen: screen,
		q:      newQueue(queueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	w, h := screen.Size()
	t.q.push(Event{Kind: Resize, Width: w, Height: h, When: time.Now()})

	go t.pump()
	return t
}

func (t *Terminal) pump() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-t.quit:
			return
		default:
		}
		if out, ok := translate(ev); ok {
			t.q.push(out)
		}
	}
}

// translate maps a tcell event; ok is false for events the trail ignores.
func translate(ev tcell.Event) (Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		return Event{Kind: PointerMove, X: float64(x), Y: float64(y), When: ev.When()}, true
	case *tcell.EventResize:
		w, h := ev.Size()
		return Event{Kind: Resize, Width: w, Height: h, When: ev.When()}, true
	case *tcell.EventFocus:
		if !ev.Focused {
			return Event{Kind: Leave, When: ev.When()}, true
		}
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return Event{Kind: Quit, When: ev.When()}, true
		}
	}
	return Event{}, false
}

// Poll delivers events received since the previous call.
func (t *Terminal) Poll(deliver func(Event)) {
	t.q.drain(deliver)
}

// Close stops the event pump. A synthetic interrupt unblocks PollEvent.
func (t *Terminal) Close() error {
	t.once.Do(func() {
		close(t.quit)
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
		<-t.done
	})
	return nil
}
