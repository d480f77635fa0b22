package synchronizer

import (
	"sync"
	"testing"
	"time"
)

// TestTokenAcquireRelease tests the weak-to-strong upgrade cycle.
func TestTokenAcquireRelease(t *testing.T) {
	s := New()
	tok := s.tok.Load()

	if tok.expired() {
		t.Fatal("fresh token must not be expired")
	}

	if !tok.acquire() {
		t.Fatal("expected acquire to succeed on a live token")
	}
	tok.release()

	if tok.expired() {
		t.Fatal("token must stay alive while the synchronizer owns it")
	}

	s.Join()
}

// TestTokenExpiryIsPermanent tests that acquire fails forever once the last
// strong reference is gone.
func TestTokenExpiryIsPermanent(t *testing.T) {
	s := New()
	tok := s.tok.Load()

	s.Join()

	if !tok.expired() {
		t.Fatal("expected token expired after join")
	}
	if tok.acquire() {
		t.Fatal("expected acquire to fail on an expired token")
	}
	if tok.acquire() {
		t.Fatal("expired token must never be resurrected")
	}
}

// TestTokenStopFlagSetOnJoin tests that join marks the token stopped before
// the token expires.
func TestTokenStopFlagSetOnJoin(t *testing.T) {
	s := New()
	tok := s.tok.Load()

	if tok.stop.Load() {
		t.Fatal("fresh token must not be stopped")
	}

	s.Join()

	if !tok.stop.Load() {
		t.Fatal("expected stop flag set after join")
	}
}

// TestTokenConcurrentAcquireRelease tests refcounting under contention.
func TestTokenConcurrentAcquireRelease(t *testing.T) {
	s := New()
	tok := s.tok.Load()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if tok.acquire() {
					tok.release()
				}
			}
		}()
	}
	wg.Wait()

	if tok.refs.Load() != 1 {
		t.Fatalf("expected only the synchronizer's reference to remain, got %d", tok.refs.Load())
	}

	s.Join()
	if !tok.expired() {
		t.Fatal("expected token expired after join")
	}
}

// TestTokenPinnedDuringExecution tests that an executing body keeps its
// strong reference until the body finishes: a concurrent Join must not
// observe expiry, and must not return, while the body runs.
func TestTokenPinnedDuringExecution(t *testing.T) {
	s := New()
	tok := s.tok.Load()

	entered := make(chan struct{})
	release := make(chan struct{})
	work := s.Wrap(func() {
		close(entered)
		<-release
	})

	go work()
	<-entered

	// Synchronizer's own reference plus the execution's pin.
	if refs := tok.refs.Load(); refs < 2 {
		t.Fatalf("expected the execution to hold a strong reference, refs=%d", refs)
	}

	joined := make(chan struct{})
	go func() {
		s.Join()
		close(joined)
	}()

	// Let Join request stop and drop the synchronizer's own reference.
	time.Sleep(50 * time.Millisecond)

	if tok.expired() {
		t.Fatal("token expired while a body was executing")
	}
	select {
	case <-joined:
		t.Fatal("join returned while a body was executing")
	default:
	}

	close(release)

	select {
	case <-joined:
	case <-time.After(2 * time.Second):
		t.Fatal("join did not return after the body finished")
	}
	if !tok.expired() {
		t.Fatal("expected token expired once the body finished")
	}
}

// TestTokenGenerations tests that reset installs a distinct fresh token.
func TestTokenGenerations(t *testing.T) {
	s := New()
	first := s.tok.Load()

	s.Reset()
	second := s.tok.Load()

	if first == second {
		t.Fatal("expected reset to install a new token")
	}
	if !first.expired() {
		t.Fatal("expected previous generation's token to be expired")
	}
	if second.expired() {
		t.Fatal("expected fresh token to be live")
	}

	s.Join()
}
