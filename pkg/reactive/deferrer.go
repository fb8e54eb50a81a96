package reactive

import (
	"context"
	"sync"
)

// Deferrer is the single deferred-callback primitive the scheduler arms.
// Callbacks run after the current synchronous turn ends, in FIFO order.
type Deferrer interface {
	Defer(fn func())
}

// DeferFunc adapts a function to the Deferrer interface.
type DeferFunc func(fn func())

// Defer implements Deferrer.
func (f DeferFunc) Defer(fn func()) {
	f(fn)
}

// ManualQueue is a Deferrer whose turn ends when the owner says so. Tests and
// batch tools call Drain where a browser would end the microtask checkpoint.
type ManualQueue struct {
	tasks []func()
}

// NewManualQueue creates an empty ManualQueue.
func NewManualQueue() *ManualQueue {
	return &ManualQueue{}
}

// Defer implements Deferrer.
func (q *ManualQueue) Defer(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Len returns the number of callbacks waiting.
func (q *ManualQueue) Len() int {
	return len(q.tasks)
}

// Step runs the callbacks queued at the time of the call. Callbacks they
// defer stay queued.
func (q *ManualQueue) Step() int {
	tasks := q.tasks
	q.tasks = nil
	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Drain runs callbacks until the queue is empty, including callbacks deferred
// while draining. It returns the number run.
func (q *ManualQueue) Drain() int {
	n := 0
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		fn()
		n++
	}
	return n
}

// EventLoop is a goroutine that runs posted tasks one at a time and drains
// the microtask queue after each task. It implements Deferrer for the
// microtask side, so a Runtime driven by it flushes after each task.
type EventLoop struct {
	tasks   chan func()
	micro   []func()
	stopped chan struct{}
	once    sync.Once
}

// NewEventLoop creates a loop with the given task buffer size.
func NewEventLoop(buffer int) *EventLoop {
	return &EventLoop{
		tasks:   make(chan func(), buffer),
		stopped: make(chan struct{}),
	}
}

// Defer queues a microtask. It must be called from the loop goroutine.
func (l *EventLoop) Defer(fn func()) {
	l.micro = append(l.micro, fn)
}

// Post queues a task from any goroutine.
func (l *EventLoop) Post(fn func()) error {
	select {
	case <-l.stopped:
		return ErrLoopClosed
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.stopped:
		return ErrLoopClosed
	}
}

// Do posts fn and waits until fn and the microtasks queued before it
// returned have run.
func (l *EventLoop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	err := l.Post(func() {
		fn()
		l.Defer(func() { close(done) })
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrLoopClosed
	}
}

// Run processes tasks until ctx is cancelled.
func (l *EventLoop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.runTask(fn)
		}
	}
}

func (l *EventLoop) runTask(fn func()) {
	fn()
	for len(l.micro) > 0 {
		m := l.micro[0]
		l.micro = l.micro[1:]
		m()
	}
}
