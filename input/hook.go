package input

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
)

// HookOptions configures the desktop-wide pointer source.
type HookOptions struct {
	// QueueSize bounds pending events between frames.
	QueueSize int
	// QuitKeys is a key chord that posts a Quit event, e.g. {"q", "ctrl", "shift"}.
	// Empty disables the chord.
	QuitKeys []string
}

// Hook reports pointer movement anywhere on the desktop through a global
// input hook. It is used when the overlay window lets clicks pass through
// and therefore sees no pointer events itself.
//
// The underlying hook is process-global: only one Hook may run at a time.
type Hook struct {
	q    *queue
	opts HookOptions

	mu      sync.Mutex
	running bool
	stopped chan struct{}
}

// NewHook creates a stopped hook source.
func NewHook(opts HookOptions) *Hook {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	return &Hook{q: newQueue(opts.QueueSize), opts: opts}
}

// Start installs the hook and posts the current screen size as a Resize.
func (h *Hook) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	h.stopped = make(chan struct{})

	w, ht := robotgo.GetScreenSize()
	h.q.push(Event{Kind: Resize, Width: w, Height: ht, When: time.Now()})

	onMove := func(e hook.Event) {
		when := e.When
		if when.IsZero() {
			when = time.Now()
		}
		h.q.push(Event{Kind: PointerMove, X: float64(e.X), Y: float64(e.Y), When: when})
	}
	hook.Register(hook.MouseMove, []string{}, onMove)
	hook.Register(hook.MouseDrag, []string{}, onMove)

	if len(h.opts.QuitKeys) > 0 {
		hook.Register(hook.KeyDown, h.opts.QuitKeys, func(e hook.Event) {
			slog.Info("quit chord pressed", "keys", h.opts.QuitKeys)
			h.q.push(Event{Kind: Quit, When: time.Now()})
		})
	}

	s := hook.Start()
	stopped := h.stopped
	go func() {
		<-hook.Process(s)
		close(stopped)
	}()
	slog.Info("global pointer hook started", "screen_w", w, "screen_h", ht)
}

// Poll delivers events captured since the previous call.
func (h *Hook) Poll(deliver func(Event)) {
	h.q.drain(deliver)
}

// Dropped returns how many pointer moves overflowed the queue.
func (h *Hook) Dropped() int {
	return h.q.Dropped()
}

// Close removes the hook and waits for its event pump to exit.
func (h *Hook) Close() error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return nil
	}
	h.running = false
	stopped := h.stopped
	h.mu.Unlock()

	hook.End()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		slog.Warn("global pointer hook did not stop in time")
	}
	return nil
}
