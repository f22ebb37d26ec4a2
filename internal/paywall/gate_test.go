package paywall

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUnlockGrantsAccess(t *testing.T) {
	g := NewGate(5 * time.Millisecond)
	if g.HasAccess("1.2.3.4") {
		t.Fatalf("fresh gate should deny")
	}

	start := time.Now()
	if err := g.Unlock(context.Background(), "1.2.3.4"); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Fatalf("payment delay not applied")
	}
	if !g.HasAccess("1.2.3.4") || g.HasAccess("5.6.7.8") {
		t.Fatalf("access should be per client")
	}
	if _, ok := g.UnlockedAt("1.2.3.4"); !ok {
		t.Fatalf("unlock time not recorded")
	}
}

func TestUnlockCancelled(t *testing.T) {
	g := NewGate(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Unlock(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if g.HasAccess("a") {
		t.Fatalf("cancelled payment must not grant access")
	}
}

func TestUnlockRequiresClient(t *testing.T) {
	if err := NewGate(0).Unlock(context.Background(), " "); !errors.Is(err, ErrEmptyClient) {
		t.Fatalf("expected ErrEmptyClient, got %v", err)
	}
}
