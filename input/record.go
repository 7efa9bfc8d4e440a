package input

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
)

// Record is one row of a pointer recording.
type Record struct {
	OffsetMS float64 `csv:"offset_ms"`
	Kind     string  `csv:"kind"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Width    int     `csv:"width"`
	Height   int     `csv:"height"`
}

// Recorder wraps a source and appends every event it delivers to a CSV file.
type Recorder struct {
	src   Source
	file  *os.File
	start time.Time

	headerWritten bool
	pending       []Record
	err           error
}

// NewRecorder creates path and records events polled through src.
func NewRecorder(src Source, path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating recording: %w", err)
	}
	return &Recorder{src: src, file: f}, nil
}

// Poll forwards events from the wrapped source and buffers them for writing.
func (r *Recorder) Poll(deliver func(Event)) {
	r.src.Poll(func(ev Event) {
		if r.start.IsZero() {
			r.start = ev.When
		}
		r.pending = append(r.pending, Record{
			OffsetMS: float64(ev.When.Sub(r.start)) / float64(time.Millisecond),
			Kind:     ev.Kind.String(),
			X:        ev.X,
			Y:        ev.Y,
			Width:    ev.Width,
			Height:   ev.Height,
		})
		deliver(ev)
	})
	if len(r.pending) >= 256 {
		r.flush()
	}
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	return r.err
}

func (r *Recorder) flush() {
	if len(r.pending) == 0 || r.err != nil {
		return
	}
	var err error
	if !r.headerWritten {
		err = gocsv.Marshal(r.pending, r.file)
		r.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(r.pending, r.file)
	}
	if err != nil {
		r.err = fmt.Errorf("writing recording: %w", err)
	}
	r.pending = r.pending[:0]
}

// Close flushes buffered rows and closes the file and the wrapped source.
func (r *Recorder) Close() error {
	r.flush()
	cerr := r.file.Close()
	if c, ok := r.src.(Closer); ok {
		if err := c.Close(); err != nil && cerr == nil {
			cerr = err
		}
	}
	if r.err != nil {
		return r.err
	}
	return cerr
}

// LoadRecording reads a CSV recording written by Recorder.
func LoadRecording(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	var rows []Record
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing recording: %w", err)
	}
	return rows, nil
}

func parseKind(s string) (Kind, bool) {
	for k := PointerMove; k <= Quit; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Replay plays back a recording against a clock, delivering each row once
// its offset has elapsed.
type Replay struct {
	rows  []Record
	next  int
	now   func() time.Time
	start time.Time
}

// NewReplay creates a replay source. now defaults to time.Now.
func NewReplay(rows []Record, now func() time.Time) *Replay {
	if now == nil {
		now = time.Now
	}
	return &Replay{rows: rows, now: now}
}

// Done reports whether every row has been delivered.
func (r *Replay) Done() bool {
	return r.next >= len(r.rows)
}

// Duration returns the offset of the last row.
func (r *Replay) Duration() time.Duration {
	if len(r.rows) == 0 {
		return 0
	}
	return time.Duration(r.rows[len(r.rows)-1].OffsetMS * float64(time.Millisecond))
}

// Poll delivers rows whose offset is due. Rows with an unknown kind are skipped.
func (r *Replay) Poll(deliver func(Event)) {
	now := r.now()
	if r.start.IsZero() {
		r.start = now
	}
	elapsed := now.Sub(r.start)
	for r.next < len(r.rows) {
		row := r.rows[r.next]
		at := time.Duration(row.OffsetMS * float64(time.Millisecond))
		if at > elapsed {
			return
		}
		r.next++
		kind, ok := parseKind(row.Kind)
		if !ok {
			continue
		}
		deliver(Event{
			Kind:   kind,
			X:      row.X,
			Y:      row.Y,
			Width:  row.Width,
			Height: row.Height,
			When:   r.start.Add(at),
		})
	}
}
