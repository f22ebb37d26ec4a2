package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Package ratelimit implements the fixed-window limiter guarding the
// summarization and content endpoints.

type record struct {
	count       int
	windowStart time.Time
}

// Limiter allows at most limit calls per window for each client identifier.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	records map[string]*record
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New builds a limiter. Non-positive limits deny every call.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		records: make(map[string]*record),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records one call for id and reports whether it is allowed.
// A denied call does not change the record.
func (l *Limiter) Check(id string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[id]
	if !ok || now.Sub(rec.windowStart) > l.window {
		if l.limit <= 0 {
			return false
		}
		l.records[id] = &record{count: 1, windowStart: now}
		return true
	}
	if rec.count >= l.limit {
		return false
	}
	rec.count++
	return true
}

// Sweep drops records whose window ended before now and returns how many were removed.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, rec := range l.records {
		if now.Sub(rec.windowStart) > l.window {
			delete(l.records, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Run sweeps every interval until ctx is cancelled.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(l.now())
		}
	}
}
