package paywall

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Package paywall is the mock subscription gate in front of AI briefings.
// Entitlements live in memory and do not survive a restart.

// ErrEmptyClient is returned when unlocking without a client identifier.
var ErrEmptyClient = errors.New("client identifier is required")

// Gate tracks which clients have completed the mock payment.
type Gate struct {
	delay time.Duration

	mu       sync.RWMutex
	unlocked map[string]time.Time
	now      func() time.Time
}

// NewGate builds a gate whose Unlock waits delay to mimic a payment round trip.
func NewGate(delay time.Duration) *Gate {
	return &Gate{
		delay:    delay,
		unlocked: make(map[string]time.Time),
		now:      time.Now,
	}
}

// HasAccess reports whether clientID unlocked briefings.
func (g *Gate) HasAccess(clientID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.unlocked[clientID]
	return ok
}

// Unlock grants access to clientID after the mock payment delay.
// A cancelled context aborts the payment and grants nothing.
func (g *Gate) Unlock(ctx context.Context, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrEmptyClient
	}

	if g.delay > 0 {
		t := time.NewTimer(g.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	g.mu.Lock()
	g.unlocked[clientID] = g.now()
	g.mu.Unlock()
	return nil
}

// UnlockedAt returns when clientID unlocked briefings.
func (g *Gate) UnlockedAt(clientID string) (time.Time, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.unlocked[clientID]
	return t, ok
}
