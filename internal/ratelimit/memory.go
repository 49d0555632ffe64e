package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	window int64
	count  int
}

// MemoryLimiter implements a fixed-window in-memory rate limiter. Windows
// are one second wide; counters reset at each window boundary. Entries from
// past windows are swept whenever the clock advances, so the map stays
// bounded by the number of distinct clients seen in the current second.
type MemoryLimiter struct {
	mu          sync.Mutex
	counters    map[string]*memoryEntry
	sweepWindow int64
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counters: make(map[string]*memoryEntry),
	}
}

// Allow checks whether the request should be allowed in the current second.
// A non-positive limit or an empty key allows everything.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	sec := now.Unix()
	reset := time.Unix(sec+1, 0).UTC()

	l.mu.Lock()
	l.sweep(sec)
	entry := l.counters[key]
	if entry == nil {
		entry = &memoryEntry{window: sec}
		l.counters[key] = entry
	}
	if entry.window != sec {
		entry.window = sec
		entry.count = 0
	}
	if entry.count >= limit {
		l.mu.Unlock()
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	entry.count++
	remaining := limit - entry.count
	l.mu.Unlock()
	return Result{Allowed: true, Remaining: remaining, Reset: reset}, nil
}

// sweep drops entries from earlier windows. Runs at most once per second.
// Caller holds the mutex.
func (l *MemoryLimiter) sweep(sec int64) {
	if sec <= l.sweepWindow {
		return
	}
	l.sweepWindow = sec
	for key, entry := range l.counters {
		if entry.window < sec {
			delete(l.counters, key)
		}
	}
}
