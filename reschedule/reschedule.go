package reschedule

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Klaim/tasksync/logging"
	"github.com/Klaim/tasksync/telemetry"
)

// Common errors.
var (
	ErrAlreadyStarted = errors.New("task already started")
	ErrNotStarted     = errors.New("task not started")
)

// Task executes a function immediately and then at a fixed interval until
// stopped. Configuration is builder-style and must happen before Start.
type Task struct {
	id       string
	name     string
	interval time.Duration
	fn       func(context.Context)

	// until is checked before every execution; once it reports true the
	// task unschedules itself.
	until  func() bool
	logger *logging.Logger
	tracer *telemetry.Tracer

	runs    atomic.Int64
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a task that runs fn immediately on Start and then every
// interval.
func New(name string, interval time.Duration, fn func(context.Context)) *Task {
	return &Task{
		id:       uuid.New().String(),
		name:     name,
		interval: interval,
		fn:       fn,
	}
}

// Until sets the stop predicate and returns the task. The predicate is
// evaluated before every execution, from the task's own goroutine.
func (t *Task) Until(stop func() bool) *Task {
	t.until = stop
	return t
}

// WithLogger sets the logger receiving task lifecycle events.
func (t *Task) WithLogger(logger *logging.Logger) *Task {
	t.logger = logger
	return t
}

// WithTracer sets the tracer emitting one span per execution.
func (t *Task) WithTracer(tracer *telemetry.Tracer) *Task {
	t.tracer = tracer
	return t
}

// ID returns the task's unique identifier.
func (t *Task) ID() string { return t.id }

// Name returns the task's name.
func (t *Task) Name() string { return t.name }

// Interval returns the rescheduling interval.
func (t *Task) Interval() time.Duration { return t.interval }

// Running reports whether the task's loop is active.
func (t *Task) Running() bool { return t.running.Load() }

// Runs returns the number of completed executions.
func (t *Task) Runs() int64 { return t.runs.Load() }
