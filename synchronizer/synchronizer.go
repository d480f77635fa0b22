package synchronizer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Klaim/tasksync/logging"
	"github.com/Klaim/tasksync/telemetry"
	"github.com/Klaim/tasksync/trycall"
)

// Adapter is the gated callable produced by Wrap. It is safe for repeated
// and concurrent invocation from any goroutine, before and after Join.
// It returns whatever error the wrapped work returned, or nil when the
// invocation was skipped.
type Adapter func(args ...any) error

// Reschedulable is the contract consumed by Bind: a task exposing a
// builder-style configuration point to stop rescheduling once a predicate
// holds. See the reschedule package for one compatible implementation.
type Reschedulable[T any] interface {
	// Until sets the stop predicate and returns the configured task.
	Until(stop func() bool) T
}

// noCopy makes `go vet`'s copylocks check flag copies of a Synchronizer.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Synchronizer gates the execution of wrapped callables and provides a
// blocking Join that waits for every in-flight execution.
//
// A Synchronizer has identity: every live adapter holds a reference to the
// exact instance that produced it, so it must be shared as a *Synchronizer
// and never copied. The zero value is not usable; construct with New.
type Synchronizer struct {
	noCopy noCopy

	name   string
	logger *logging.Logger
	tracer *telemetry.Tracer

	// running counts executions that have committed to running their body.
	running atomic.Int64

	// tok is the current generation's token; nil once joined.
	tok atomic.Pointer[token]

	// mu and cond implement the blocking wait/notify handshake for Join.
	// They do not serialize counter or token updates, which are atomic.
	mu   sync.Mutex
	cond *sync.Cond
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithName sets the name used in join diagnostics.
func WithName(name string) Option {
	return func(s *Synchronizer) { s.name = name }
}

// WithLogger sets the logger receiving trace-level join diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Synchronizer) { s.logger = logger }
}

// WithTracer sets the tracer emitting a span per Join.
func WithTracer(tracer *telemetry.Tracer) Option {
	return func(s *Synchronizer) { s.tracer = tracer }
}

// New creates a Synchronizer with a fresh token and no running executions.
func New(opts ...Option) *Synchronizer {
	s := &Synchronizer{name: "<unnamed>"}
	for _, opt := range opts {
		opt(s)
	}
	s.cond = sync.NewCond(&s.mu)
	s.tok.Store(newToken(s))
	return s
}

// Wrap transforms the provided callable into a similar but synchronized one.
//
// On each invocation the adapter checks the token captured here at wrap
// time. If a joining function has been called since (or was called before
// Wrap), the invocation skips silently: no execution, no error, no side
// effect. Otherwise the execution is counted, the work is invoked through
// trycall.Call with the forwarded arguments, and the count is released on
// every exit path, panics included.
//
// Wrapping after the synchronizer is already joined is permitted and yields
// a permanently inert adapter.
//
// Note that wrapping a reschedulable task does not stop it from
// rescheduling itself after Join; use Bind for that.
func (s *Synchronizer) Wrap(work any) Adapter {
	remote := s.tok.Load()
	return func(args ...any) error {
		// Pinning a strong reference is the race-closing step: Join cannot
		// observe expiry until every invocation holding a pin has decided.
		if remote == nil || !remote.acquire() {
			return nil
		}
		if remote.stop.Load() {
			// Join was requested; don't add running executions.
			remote.release()
			return nil
		}
		s.running.Add(1)
		// The pin is held for the whole call and dropped only after the
		// decrement below: expiry then implies every counted execution
		// has finished, so Join's two-condition check cannot observe a
		// stale counter.
		defer remote.release()
		defer func() {
			s.mu.Lock()
			s.running.Add(-1)
			s.cond.Broadcast()
			s.mu.Unlock()
		}()
		return trycall.Call(work, args...)
	}
}

// Bind configures task to stop rescheduling itself once the synchronizer's
// current token expires, and returns the configured task.
//
// Unlike Wrap, bound tasks are not counted toward RunningCount: Join only
// needs them to stop rescheduling, not to have their execution fenced.
// Binding after Join yields a predicate that is immediately true.
func Bind[T Reschedulable[T]](s *Synchronizer, task T) T {
	remote := s.tok.Load()
	return task.Until(func() bool {
		return remote == nil || remote.expired()
	})
}

// Join notifies all synchronized adapters and blocks until every executing
// wrapped body is done.
//
// This is a joining function: once it returns, no wrapped body will be
// executed again (until Reset). Join is idempotent; a second call returns
// immediately. It never fails on its own — errors raised by wrapped work
// surface at the adapter's caller, never here.
//
// Calling Join from inside one of this synchronizer's own wrapped bodies
// deadlocks.
func (s *Synchronizer) Join() {
	if s.logger != nil {
		s.logger.JoinStart(s.name)
	}
	if s.tracer != nil {
		_, span := s.tracer.StartJoinSpan(context.Background(), s.name)
		// Waited is captured here: the executions in flight when the join
		// began, not whatever finished by the time the span ends.
		defer s.tracer.EndJoinSpan(span, telemetry.JoinSpanOptions{
			Synchronizer: s.name,
			Waited:       s.running.Load(),
		})
	}

	s.mu.Lock()
	tok := s.tok.Swap(nil)
	if tok == nil {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.JoinComplete(s.name)
		}
		return
	}

	tok.stop.Store(true)
	// Drop our own strong reference. release() would take mu for its
	// notification, which is already held here; the wait loop re-checks
	// expiry itself, so a plain decrement is enough.
	tok.refs.Add(-1)

	// Both conditions are required: an invocation that is mid-decision
	// holds a pin while the counter may transiently read zero.
	for s.running.Load() != 0 || !tok.expired() {
		s.cond.Wait()
	}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.JoinComplete(s.name)
	}
}

// Reset joins synchronized adapters and then re-arms the synchronizer as if
// it had just been constructed. After Reset, IsJoined reports false and
// adapters wrapped from now on execute normally; adapters from previous
// generations stay inert forever.
func (s *Synchronizer) Reset() {
	s.Join()
	s.mu.Lock()
	s.tok.Store(newToken(s))
	s.mu.Unlock()
}

// Name returns the name used in join diagnostics.
func (s *Synchronizer) Name() string { return s.name }

// IsJoined reports whether all synchronized adapters have been joined.
func (s *Synchronizer) IsJoined() bool {
	return s.tok.Load() == nil && s.running.Load() == 0
}

// RunningCount returns the number of wrapped bodies currently executing.
func (s *Synchronizer) RunningCount() int64 {
	return s.running.Load()
}
