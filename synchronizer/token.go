package synchronizer

import "sync/atomic"

// token is the shared lifetime marker for one generation of adapters.
//
// Lifetime is tracked with an explicit strong-reference count rather than
// GC finalization: Join needs to observe "no strong holder remains" at a
// deterministic point, and the garbage collector gives no such guarantee.
// The synchronizer holds one reference while active; each adapter
// invocation holds one while deciding whether to run and, if it proceeds,
// until its body has finished. Idle adapters and bound tasks only observe
// the count, they never own a reference.
type token struct {
	// stop is set once a joining function has been called.
	// It never transitions back to false.
	stop atomic.Bool

	// refs counts strong references. Once it reaches zero it stays there:
	// acquire refuses to resurrect an expired token.
	refs atomic.Int64

	// owner receives the wakeup when the last reference is dropped.
	owner *Synchronizer
}

// newToken creates a token already owned by its synchronizer (refs = 1).
func newToken(owner *Synchronizer) *token {
	t := &token{owner: owner}
	t.refs.Store(1)
	return t
}

// acquire upgrades a weak reference into a strong one.
// It fails once the token has expired; expiry is permanent because only
// acquire increments the count and it requires the count to be positive.
func (t *token) acquire() bool {
	for {
		n := t.refs.Load()
		if n == 0 {
			return false
		}
		if t.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// release drops a strong reference. Dropping the last one wakes the owner:
// Join may be waiting for expiry even while the in-flight counter reads
// zero, because an invocation that pinned the token and then skipped never
// touched the counter at all.
func (t *token) release() {
	if t.refs.Add(-1) == 0 {
		t.owner.mu.Lock()
		t.owner.cond.Broadcast()
		t.owner.mu.Unlock()
	}
}

// expired reports whether no strong reference remains.
func (t *token) expired() bool {
	return t.refs.Load() == 0
}
