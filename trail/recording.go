package trail

// Segment is a recorded DrawSegment call.
type Segment struct {
	A, B   Point
	Stroke Stroke
}

// RecordingSurface keeps the segments of the last frame in memory.
// It backs headless runs and tests.
type RecordingSurface struct {
	W, H     int
	Segments []Segment

	Resizes  int
	Clears   int
	Presents int
	// Drawn counts segments across all frames.
	Drawn int
}

// NewRecordingSurface creates a w x h recording surface.
func NewRecordingSurface(w, h int) *RecordingSurface {
	return &RecordingSurface{W: w, H: h}
}

func (s *RecordingSurface) Size() (int, int) { return s.W, s.H }

func (s *RecordingSurface) Resize(w, h int) {
	s.W, s.H = w, h
	s.Segments = s.Segments[:0]
	s.Resizes++
}

func (s *RecordingSurface) Clear() {
	s.Segments = s.Segments[:0]
	s.Clears++
}

func (s *RecordingSurface) DrawSegment(a, b Point, st Stroke) {
	s.Segments = append(s.Segments, Segment{A: a, B: b, Stroke: st})
	s.Drawn++
}

func (s *RecordingSurface) Present() { s.Presents++ }
