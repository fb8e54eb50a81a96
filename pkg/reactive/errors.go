package reactive

import rerrors "github.com/vango-dev/reflow/internal/errors"

var (
	// ErrStackUnderflow is raised when the active-computation stack is popped
	// while empty.
	ErrStackUnderflow = rerrors.New("R004")

	// ErrForeignGoroutine is raised when a bound runtime is used from a
	// goroutine other than the one that bound it.
	ErrForeignGoroutine = rerrors.New("R003")

	// ErrLoopClosed is returned by EventLoop.Post and EventLoop.Do after the
	// loop has stopped.
	ErrLoopClosed = rerrors.Newf(rerrors.CategoryReactive, "reactive: event loop closed")
)
