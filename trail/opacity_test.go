package trail

import (
	"testing"
	"time"
)

func TestOpacity(t *testing.T) {
	maxAge := 600 * time.Millisecond
	tests := []struct {
		age  time.Duration
		want float64
	}{
		{0, 1},
		{150 * time.Millisecond, 0.75},
		{300 * time.Millisecond, 0.5},
		{600 * time.Millisecond, 0},
		{900 * time.Millisecond, 0},
		{-10 * time.Millisecond, 1},
	}
	for _, tt := range tests {
		if got := Opacity(tt.age, maxAge); got != tt.want {
			t.Errorf("Opacity(%v) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestOpacity_Monotonic(t *testing.T) {
	maxAge := 600 * time.Millisecond
	prev := Opacity(0, maxAge)
	for age := time.Millisecond; age <= maxAge; age += time.Millisecond {
		o := Opacity(age, maxAge)
		if o > prev {
			t.Fatalf("opacity rose from %v to %v at age %v", prev, o, age)
		}
		if o < 0 {
			t.Fatalf("negative opacity %v at age %v", o, age)
		}
		prev = o
	}
}

func TestBuffer_EvictAndCompact(t *testing.T) {
	b := NewBuffer(4)
	for i := 0; i < 10; i++ {
		b.Append(Sample{X: float64(i), At: time.Duration(i) * time.Millisecond})
	}

	n := b.EvictOlderThan(10*time.Millisecond, 4*time.Millisecond)
	if n != 6 {
		t.Fatalf("expected 6 evicted, got %d", n)
	}
	if b.Len() != 4 {
		t.Fatalf("expected 4 remaining, got %d", b.Len())
	}
	if f, _ := b.Front(); f.X != 6 {
		t.Errorf("expected front X=6, got %v", f.X)
	}

	b.Append(Sample{X: 10, At: 10 * time.Millisecond})
	if got := b.At(b.Len() - 1); got.X != 10 {
		t.Errorf("expected appended sample at back, got %+v", got)
	}

	if b.DropFront(100) != 5 || b.Len() != 0 {
		t.Errorf("DropFront should empty the buffer, len=%d", b.Len())
	}
	if _, ok := b.Front(); ok {
		t.Error("empty buffer should have no front")
	}
}
