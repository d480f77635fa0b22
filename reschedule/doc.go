// Package reschedule provides a self-rescheduling task: a function executed
// immediately and then again at a fixed interval until its stop predicate
// holds, its context is cancelled, or Stop is called.
//
// The stop predicate is the integration point with the synchronizer
// package: synchronizer.Bind configures a task to stop rescheduling itself
// once the synchronizer is joined.
//
//	task := reschedule.New("poll", time.Second, func(ctx context.Context) {
//	    pollUpstream(ctx)
//	})
//	task = synchronizer.Bind(sync, task)
//
//	task.Start(ctx)
//	...
//	sync.Join() // the task stops rescheduling on its next tick
package reschedule
