package trail

import "time"

// Buffer is an insertion-ordered sequence of samples, oldest first.
// Eviction advances a head index and compacts once the dead prefix
// dominates, so each sample costs amortised O(1) over its lifetime.
type Buffer struct {
	samples []Sample
	head    int
}

// NewBuffer creates a buffer with room for capacity samples.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{samples: make([]Sample, 0, capacity)}
}

// Len returns the number of live samples.
func (b *Buffer) Len() int {
	return len(b.samples) - b.head
}

// At returns the i-th live sample (0 = oldest).
func (b *Buffer) At(i int) Sample {
	return b.samples[b.head+i]
}

// Front returns the oldest sample.
func (b *Buffer) Front() (Sample, bool) {
	if b.Len() == 0 {
		return Sample{}, false
	}
	return b.samples[b.head], true
}

// Back returns the newest sample.
func (b *Buffer) Back() (Sample, bool) {
	if b.Len() == 0 {
		return Sample{}, false
	}
	return b.samples[len(b.samples)-1], true
}

// Samples returns the live samples. The slice aliases the buffer and is
// only valid until the next mutation.
func (b *Buffer) Samples() []Sample {
	return b.samples[b.head:]
}

// Append adds a sample at the back.
func (b *Buffer) Append(s Sample) {
	b.samples = append(b.samples, s)
}

// EvictOlderThan removes samples from the front while now - At > maxAge.
// Returns the number of samples removed.
func (b *Buffer) EvictOlderThan(now, maxAge time.Duration) int {
	n := 0
	for b.head < len(b.samples) && now-b.samples[b.head].At > maxAge {
		b.head++
		n++
	}
	b.compact()
	return n
}

// DropFront removes up to n of the oldest samples.
func (b *Buffer) DropFront(n int) int {
	if n > b.Len() {
		n = b.Len()
	}
	if n <= 0 {
		return 0
	}
	b.head += n
	b.compact()
	return n
}

// Clear removes every sample, keeping the allocation.
func (b *Buffer) Clear() {
	b.samples = b.samples[:0]
	b.head = 0
}

// compact reclaims the evicted prefix once it is at least half the slice.
func (b *Buffer) compact() {
	if b.head == 0 {
		return
	}
	if b.head == len(b.samples) {
		b.Clear()
		return
	}
	if b.head*2 < len(b.samples) {
		return
	}
	n := copy(b.samples, b.samples[b.head:])
	b.samples = b.samples[:n]
	b.head = 0
}
