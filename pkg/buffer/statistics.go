package buffer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks buffer activity.
type Statistics struct {
	writes    atomic.Int64
	reads     atomic.Int64
	peeks     atomic.Int64
	overflows atomic.Int64
	drops     atomic.Int64
	rejects   atomic.Int64
	releases  atomic.Int64

	mu          sync.RWMutex
	startTime   time.Time
	currentSize int64
	maxSize     int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Write records a buffer write operation.
func (s *Statistics) Write() { s.writes.Add(1) }

// Read records n items handed to readers.
func (s *Statistics) Read(n int) { s.reads.Add(int64(n)) }

// Peek records a buffer peek operation.
func (s *Statistics) Peek() { s.peeks.Add(1) }

// Overflow records a write that found the buffer full.
func (s *Statistics) Overflow() { s.overflows.Add(1) }

// Drop records an item discarded by the overflow policy.
func (s *Statistics) Drop() { s.drops.Add(1) }

// Reject records a write refused under the Reject policy.
func (s *Statistics) Reject() { s.rejects.Add(1) }

// Release records n items discarded by Clear, Resize or Close.
func (s *Statistics) Release(n int) { s.releases.Add(int64(n)) }

// UpdateSize updates the current buffer size.
func (s *Statistics) UpdateSize(size int64) {
	s.mu.Lock()
	s.currentSize = size
	if size > s.maxSize {
		s.maxSize = size
	}
	s.mu.Unlock()
}

// Writes returns the total number of accepted writes.
func (s *Statistics) Writes() int64 { return s.writes.Load() }

// Reads returns the total number of items handed to readers.
func (s *Statistics) Reads() int64 { return s.reads.Load() }

// Peeks returns the total number of peek operations.
func (s *Statistics) Peeks() int64 { return s.peeks.Load() }

// Overflows returns the total number of overflow events.
func (s *Statistics) Overflows() int64 { return s.overflows.Load() }

// Drops returns the total number of items dropped by the overflow policy.
func (s *Statistics) Drops() int64 { return s.drops.Load() }

// Rejects returns the total number of refused writes.
func (s *Statistics) Rejects() int64 { return s.rejects.Load() }

// Releases returns the total number of items discarded by Clear, Resize or Close.
func (s *Statistics) Releases() int64 { return s.releases.Load() }

// CurrentSize returns the current number of items in the buffer.
func (s *Statistics) CurrentSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}

// MaxSize returns the maximum number of items the buffer has held.
func (s *Statistics) MaxSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize
}

// Throughput returns the average number of writes per second.
func (s *Statistics) Throughput() float64 {
	elapsed := s.Uptime()
	if elapsed <= 0 {
		return 0.0
	}
	return float64(s.Writes()) / elapsed.Seconds()
}

// ReadThroughput returns the average number of reads per second.
func (s *Statistics) ReadThroughput() float64 {
	elapsed := s.Uptime()
	if elapsed <= 0 {
		return 0.0
	}
	return float64(s.Reads()) / elapsed.Seconds()
}

// DropRate returns the fraction of write attempts whose item was dropped (0.0 to 1.0).
func (s *Statistics) DropRate() float64 {
	attempts := s.Writes() + s.Rejects()
	if attempts == 0 {
		return 0.0
	}
	return float64(s.Drops()) / float64(attempts)
}

// OverflowRate returns the fraction of write attempts that found the buffer full (0.0 to 1.0).
func (s *Statistics) OverflowRate() float64 {
	attempts := s.Writes() + s.Rejects()
	if attempts == 0 {
		return 0.0
	}
	return float64(s.Overflows()) / float64(attempts)
}

// Utilization returns the current buffer utilization (0.0 to 1.0).
func (s *Statistics) Utilization(capacity int64) float64 {
	if capacity == 0 {
		return 0.0
	}
	return float64(s.CurrentSize()) / float64(capacity)
}

// Uptime returns how long the buffer has been running.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Reset resets all statistics to zero.
func (s *Statistics) Reset() {
	s.writes.Store(0)
	s.reads.Store(0)
	s.peeks.Store(0)
	s.overflows.Store(0)
	s.drops.Store(0)
	s.rejects.Store(0)
	s.releases.Store(0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.currentSize = 0
	s.maxSize = 0
	s.mu.Unlock()
}

// StatsSummary is a point-in-time snapshot of all statistics.
type StatsSummary struct {
	Writes         int64         `json:"writes"`
	Reads          int64         `json:"reads"`
	Peeks          int64         `json:"peeks"`
	Overflows      int64         `json:"overflows"`
	Drops          int64         `json:"drops"`
	Rejects        int64         `json:"rejects"`
	Releases       int64         `json:"releases"`
	CurrentSize    int64         `json:"current_size"`
	MaxSize        int64         `json:"max_size"`
	Throughput     float64       `json:"throughput"`
	ReadThroughput float64       `json:"read_throughput"`
	DropRate       float64       `json:"drop_rate"`
	OverflowRate   float64       `json:"overflow_rate"`
	Uptime         time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Writes:         s.Writes(),
		Reads:          s.Reads(),
		Peeks:          s.Peeks(),
		Overflows:      s.Overflows(),
		Drops:          s.Drops(),
		Rejects:        s.Rejects(),
		Releases:       s.Releases(),
		CurrentSize:    s.CurrentSize(),
		MaxSize:        s.MaxSize(),
		Throughput:     s.Throughput(),
		ReadThroughput: s.ReadThroughput(),
		DropRate:       s.DropRate(),
		OverflowRate:   s.OverflowRate(),
		Uptime:         s.Uptime(),
	}
}
