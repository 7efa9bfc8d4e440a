// Package input provides pointer and viewport event sources for the trail.
//
// Sources are polled once per frame from the render loop goroutine, so every
// event reaches the renderer on the same goroutine that draws.
package input

import (
	"sync"
	"time"
)

// Kind identifies an event type.
type Kind uint8

const (
	PointerMove Kind = iota
	Resize
	// Leave signals the pointer left the surface.
	Leave
	// Quit asks the host loop to stop.
	Quit
)

func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "pointer_move"
	case Resize:
		return "resize"
	case Leave:
		return "leave"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Event is a single pointer or viewport notification.
type Event struct {
	Kind Kind
	X, Y float64 // PointerMove
	// Width and Height are set for Resize.
	Width, Height int
	When          time.Time
}

// Source delivers pending events. Poll must not block.
type Source interface {
	Poll(deliver func(Event))
}

// Closer is implemented by sources holding OS resources.
type Closer interface {
	Close() error
}

// Func adapts a polling function to a Source.
type Func func(deliver func(Event))

// Poll calls f.
func (f Func) Poll(deliver func(Event)) { f(deliver) }

// queue is a bounded event list shared by push-based sources.
// When full, the oldest pointer move is dropped; resize, leave and quit
// events are never dropped.
type queue struct {
	mu      sync.Mutex
	events  []Event
	limit   int
	dropped int
}

func newQueue(limit int) *queue {
	if limit < 1 {
		limit = 1
	}
	return &queue{limit: limit, events: make([]Event, 0, limit)}
}

func (q *queue) push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= q.limit {
		for i, old := range q.events {
			if old.Kind == PointerMove {
				q.events = append(q.events[:i], q.events[i+1:]...)
				q.dropped++
				break
			}
		}
	}
	q.events = append(q.events, ev)
}

// drain delivers queued events in arrival order without holding the lock.
func (q *queue) drain(deliver func(Event)) {
	q.mu.Lock()
	pending := q.events
	q.events = make([]Event, 0, q.limit)
	q.mu.Unlock()

	for _, ev := range pending {
		deliver(ev)
	}
}

// Dropped returns how many pointer moves were discarded on overflow.
func (q *queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Only passes through events of the given kinds from src.
func Only(src Source, kinds ...Kind) Source {
	return Func(func(deliver func(Event)) {
		src.Poll(func(ev Event) {
			for _, k := range kinds {
				if ev.Kind == k {
					deliver(ev)
					return
				}
			}
		})
	})
}
