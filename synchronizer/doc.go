// Package synchronizer coordinates the execution of callables running in
// multiple goroutines with the lifetime of a controlling object.
//
// # Overview
//
// A Synchronizer transforms any callable into a gated adapter. Once Join is
// called, adapters behave as follows:
//   - an adapter whose body was never entered before Join will never execute
//     its body when called afterwards;
//   - an adapter whose body is executing when Join is called keeps Join
//     blocked until that execution finishes.
//
// This makes it safe to destroy the state captured by the wrapped callables
// (and the owner of the Synchronizer itself) as soon as Join returns: no
// wrapped body can be running or start running after that point.
//
// # Architecture
//
//	┌───────────────────────────────────────────────────────────┐
//	│                       Synchronizer                        │
//	│  ┌─────────┐   strong ref   ┌─────────────────────────┐   │
//	│  │  token  │◄───────────────│ running executions      │   │
//	│  │ stop    │    weak ref    ├─────────────────────────┤   │
//	│  │ refs    │◄╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌│ idle adapters, bindings │   │
//	│  └─────────┘                └─────────────────────────┘   │
//	└───────────────────────────────────────────────────────────┘
//	                         ↑
//	                  Join() / Reset()
//
// Each generation of adapters shares one token. The Synchronizer holds a
// strong reference while active; an invocation holds one from the moment it
// starts deciding until its body has finished. Join requests stop, drops the
// Synchronizer's reference and waits until the in-flight counter is zero and
// the token has expired, which covers invocations still mid-decision.
//
// # Usage
//
//	sync := synchronizer.New(synchronizer.WithName("worker-pool"))
//
//	work := sync.Wrap(func() {
//	    processNextBatch()
//	})
//
//	go work() // from any goroutine, any number of times
//
//	sync.Join() // no wrapped body runs after this returns
//
// Reschedulable tasks stop scheduling themselves once the synchronizer is
// joined:
//
//	task := synchronizer.Bind(sync, reschedule.New("poll", time.Second, poll))
//	task.Start(ctx)
//
// # Caveats
//
//   - Calling Join from inside a wrapped body deadlocks. This is not
//     detected; it is the caller's responsibility to avoid it.
//   - A Synchronizer must not be copied after first use; share it as a
//     *Synchronizer.
package synchronizer
