package reschedule

import (
	"context"
	"time"

	"github.com/Klaim/tasksync/telemetry"
)

// Start begins the reschedule loop. The first execution happens immediately
// unless the stop predicate already holds.
func (t *Task) Start(ctx context.Context) error {
	if t.running.Swap(true) {
		return ErrAlreadyStarted
	}

	if ctx == nil {
		ctx = context.Background()
	}

	// A previous loop may still be unwinding (after Stop cleared the flag
	// but before its goroutine returned). Wait it out, then re-assert the
	// flag: the old loop's deferred clear must not mark this start stopped.
	if t.doneCh != nil {
		<-t.doneCh
		t.running.Store(true)
	}

	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})

	if t.logger != nil {
		t.logger.TaskStart(t.name)
	}

	go t.run(ctx, t.stopCh, t.doneCh)
	return nil
}

// Stop stops the reschedule loop and waits for it to exit. A task that
// already unscheduled itself through its stop predicate reports
// ErrNotStarted.
func (t *Task) Stop() error {
	if !t.running.Swap(false) {
		return ErrNotStarted
	}
	// Capture before closing: a restart waiting on doneCh replaces the
	// fields once this generation's loop has exited.
	stopCh, doneCh := t.stopCh, t.doneCh
	close(stopCh)
	<-doneCh
	return nil
}

// run is the main reschedule loop. It owns exactly the channels of its own
// generation; the fields may be replaced by a restart after doneCh closes.
func (t *Task) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	defer t.running.Store(false)

	if t.stopped() {
		return
	}
	t.execute(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			if t.stopped() {
				if t.logger != nil {
					t.logger.TaskStop(t.name, t.runs.Load())
				}
				return
			}
			t.execute(ctx)
		}
	}
}

// stopped evaluates the stop predicate, if any.
func (t *Task) stopped() bool {
	return t.until != nil && t.until()
}

// execute runs one execution, with a span when a tracer is configured.
func (t *Task) execute(ctx context.Context) {
	if t.tracer != nil {
		spanCtx, span := t.tracer.StartTaskSpan(ctx, t.name)
		t.fn(spanCtx)
		t.runs.Add(1)
		t.tracer.EndTaskSpan(span, telemetry.TaskSpanOptions{
			Task:     t.name,
			Interval: t.interval,
			Runs:     t.runs.Load(),
		}, nil)
		return
	}
	t.fn(ctx)
	t.runs.Add(1)
}
