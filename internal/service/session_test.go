package service

import (
	"sync"
	"testing"
)

func TestSessionRegistryLifecycle(t *testing.T) {
	reg := NewSessionRegistry()

	reg.Start("token", 10)
	p := reg.Progress("token")
	if p.Processed != 0 || p.Total != 10 || p.Cancelled {
		t.Fatalf("unexpected initial snapshot: %+v", p)
	}

	reg.Advance("token", 4)
	p = reg.Progress("token")
	if p.Processed != 4 || p.Total != 10 {
		t.Fatalf("unexpected snapshot after advance: %+v", p)
	}

	reg.Clear("token")
	p = reg.Progress("token")
	if p.Processed != 0 || p.Total != 0 || p.Cancelled {
		t.Fatalf("expected zeroed snapshot after clear, got %+v", p)
	}
}

func TestSessionRegistryUnknownToken(t *testing.T) {
	reg := NewSessionRegistry()

	// Operations on unknown tokens are no-ops, not errors.
	reg.Advance("ghost", 3)
	reg.RequestCancel("ghost")
	reg.Clear("ghost")

	p := reg.Progress("ghost")
	if p.Processed != 0 || p.Total != 0 || p.Cancelled {
		t.Fatalf("expected zeroed snapshot for unknown token, got %+v", p)
	}
	if reg.IsCancelled("ghost") {
		t.Error("unknown token should not report cancelled")
	}
}

func TestSessionRegistryStartResets(t *testing.T) {
	reg := NewSessionRegistry()

	reg.Start("token", 5)
	reg.Advance("token", 5)
	reg.RequestCancel("token")

	reg.Start("token", 8)
	p := reg.Progress("token")
	if p.Processed != 0 || p.Total != 8 || p.Cancelled {
		t.Fatalf("expected fresh session after restart, got %+v", p)
	}
}

func TestSessionRegistryCancelSticks(t *testing.T) {
	reg := NewSessionRegistry()

	reg.Start("token", 5)
	reg.RequestCancel("token")
	if !reg.IsCancelled("token") {
		t.Fatal("expected token to be cancelled")
	}

	// Further writes do not unset the flag.
	reg.Advance("token", 2)
	if !reg.IsCancelled("token") {
		t.Error("cancel flag was lost after advance")
	}
}

func TestSessionRegistryConcurrentPollers(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Start("token", 100)

	var wg sync.WaitGroup
	done := make(chan struct{})

	// Pollers must never observe progress going backwards.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := 0
			for {
				select {
				case <-done:
					return
				default:
				}
				p := reg.Progress("token")
				if p.Processed < last {
					t.Errorf("progress went backwards: %d -> %d", last, p.Processed)
					return
				}
				last = p.Processed
			}
		}()
	}

	for i := 1; i <= 100; i++ {
		reg.Advance("token", i)
	}
	close(done)
	wg.Wait()

	p := reg.Progress("token")
	if p.Processed != 100 {
		t.Fatalf("expected final processed 100, got %d", p.Processed)
	}
}
