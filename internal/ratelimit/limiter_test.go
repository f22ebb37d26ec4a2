package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock { return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)} }

func TestCheckAllowsUpToLimitWithinWindow(t *testing.T) {
	clock := newClock()
	l := New(5, time.Minute, WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatalf("call %d should be allowed", i+1)
		}
		clock.Advance(time.Second)
	}
	if l.Check("1.2.3.4") {
		t.Fatalf("sixth call within window should be denied")
	}
	if !l.Check("5.6.7.8") {
		t.Fatalf("other client should be independent")
	}
}

func TestCheckResetsAfterWindow(t *testing.T) {
	clock := newClock()
	l := New(2, time.Minute, WithClock(clock.Now))

	l.Check("a")
	l.Check("a")
	if l.Check("a") {
		t.Fatalf("expected denial at limit")
	}

	clock.Advance(time.Minute)
	if l.Check("a") {
		t.Fatalf("window boundary is inclusive; expected denial at exactly one window")
	}

	clock.Advance(time.Millisecond)
	if !l.Check("a") {
		t.Fatalf("expected allow after window elapsed")
	}
}

func TestDeniedCallsDoNotExtendWindow(t *testing.T) {
	clock := newClock()
	l := New(1, time.Minute, WithClock(clock.Now))

	l.Check("a")
	for i := 0; i < 10; i++ {
		clock.Advance(5 * time.Second)
		l.Check("a")
	}
	clock.Advance(11 * time.Second)
	if !l.Check("a") {
		t.Fatalf("denied calls should not push the window forward")
	}
}

func TestConcurrentChecksNeverExceedLimit(t *testing.T) {
	l := New(5, time.Hour)

	var allowed int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Check("shared") {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != 5 {
		t.Fatalf("expected exactly 5 allowed, got %d", allowed)
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	clock := newClock()
	l := New(5, time.Minute, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		l.Check(fmt.Sprintf("old-%d", i))
	}
	clock.Advance(2 * time.Minute)
	l.Check("fresh")

	if removed := l.Sweep(clock.Now()); removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", l.Len())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	l := New(1, time.Nanosecond)
	l.Check("a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for l.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if l.Len() != 0 {
		t.Fatalf("expected background sweep to purge expired record")
	}
}

func TestZeroLimitDeniesAll(t *testing.T) {
	if New(0, time.Minute).Check("a") {
		t.Fatalf("zero limit should deny")
	}
}
