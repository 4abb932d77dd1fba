// Package history keeps a short trail of recent values per sensor, feeding
// the trend sparklines, and synthesizes the plausible-looking table rows the
// dashboard shows in place of a real measurement log.
package history

import "time"

// Point is one recorded value.
type Point struct {
	Value float64
	Time  time.Time
}

// Buffer is a fixed-capacity ring of one sensor's recent values. It also
// tracks the session extremes, which outlive evicted points.
type Buffer struct {
	pts  []Point
	head int // next write position
	n    int // stored points
	min  float64
	peak float64
}

// NewBuffer returns an empty ring holding at most capacity points.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{pts: make([]Point, capacity)}
}

// Push records a value, evicting the oldest point once the ring is full.
func (b *Buffer) Push(value float64, t time.Time) {
	b.pts[b.head] = Point{Value: value, Time: t}
	b.head = (b.head + 1) % len(b.pts)
	if b.n < len(b.pts) {
		b.n++
	}
	if b.n == 1 || value < b.min {
		b.min = value
	}
	if b.n == 1 || value > b.peak {
		b.peak = value
	}
}

// Len returns how many points the ring currently holds.
func (b *Buffer) Len() int {
	return b.n
}

// Last returns the most recent value, or 0 when empty.
func (b *Buffer) Last() float64 {
	if b.n == 0 {
		return 0
	}
	return b.pts[(b.head-1+len(b.pts))%len(b.pts)].Value
}

// Min returns the lowest value seen this session, or 0 when empty.
func (b *Buffer) Min() float64 {
	return b.min
}

// Peak returns the highest value seen this session, or 0 when empty.
func (b *Buffer) Peak() float64 {
	return b.peak
}

// Avg returns the mean over the stored points, or 0 when empty.
func (b *Buffer) Avg() float64 {
	if b.n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < b.n; i++ {
		sum += b.at(i).Value
	}
	return sum / float64(b.n)
}

// LastNPoints returns up to the n most recent points, oldest first.
func (b *Buffer) LastNPoints(n int) []Point {
	if n <= 0 || b.n == 0 {
		return nil
	}
	if n > b.n {
		n = b.n
	}
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		out[i] = b.at(b.n - n + i)
	}
	return out
}

// at indexes stored points oldest first.
func (b *Buffer) at(i int) Point {
	start := b.head - b.n
	if start < 0 {
		start += len(b.pts)
	}
	return b.pts[(start+i)%len(b.pts)]
}

// Store keys one buffer per sensor ID, created on first record.
type Store struct {
	buffers  map[string]*Buffer
	capacity int
}

// NewStore creates a store whose buffers hold capacity points each.
func NewStore(capacity int) *Store {
	return &Store{
		buffers:  make(map[string]*Buffer),
		capacity: capacity,
	}
}

// Record appends a reading's value to its sensor's trail.
func (s *Store) Record(id string, value float64, t time.Time) {
	b, ok := s.buffers[id]
	if !ok {
		b = NewBuffer(s.capacity)
		s.buffers[id] = b
	}
	b.Push(value, t)
}

// Get returns the trail for a sensor ID, or nil before its first record.
func (s *Store) Get(id string) *Buffer {
	return s.buffers[id]
}
