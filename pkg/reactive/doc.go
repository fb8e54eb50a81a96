// Package reactive provides the dependency-tracking core of Reflow.
//
// State is made observable by wrapping plain Go values with Runtime.Wrap.
// map[string]any becomes an *Object and []any becomes an *Array; anything
// else is returned unchanged. Reads performed while a Computation runs
// register that computation with the Subscription of the property read, and
// writes notify every registered computation.
//
//	rt := reactive.New(reactive.WithDeferrer(queue))
//	state := rt.Wrap(map[string]any{"count": 1}).(*reactive.Object)
//
//	rt.NewComputation(func() {
//	    fmt.Println("count is", state.Get("count"))
//	}, reactive.Scheduled())
//
//	state.Set("count", 2)
//	state.Set("count", 3)
//	queue.Drain() // prints "count is 3" once
//
// # Scheduling
//
// A Scheduled computation does not re-run when notified. It is handed to the
// runtime's Scheduler which deduplicates by computation ID and arms exactly
// one deferred flush per batch through the configured Deferrer. Work
// enqueued while a flush is running starts a new batch and flushes in a
// later turn.
//
// # Threading
//
// A Runtime is single-threaded. It may be bound to one goroutine with Bind,
// after which any use from another goroutine panics. EventLoop provides a
// goroutine that owns a runtime and accepts work from others via Post.
package reactive
