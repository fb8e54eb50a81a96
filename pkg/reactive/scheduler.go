package reactive

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FlushStats describes one completed flush.
type FlushStats struct {
	// Seq is the flush sequence number, starting at 1.
	Seq uint64

	// Batch is the number of computations run.
	Batch int

	// Duration is the wall time spent running the batch.
	Duration time.Duration
}

// Scheduler coalesces notified computations into one deferred flush per
// batch. The pending queue is ordered by first enqueue and deduplicated by
// computation ID.
type Scheduler struct {
	rt       *Runtime
	deferrer Deferrer
	tracer   trace.Tracer

	queue []*Computation
	has   map[uint64]struct{}

	// waiting is set once a flush has been armed for the current batch.
	waiting bool

	// callbacks run in the next deferred turn; pending is set once that turn
	// has been requested from the deferrer.
	callbacks []func()
	pending   bool

	flushing  bool
	chain     int
	chainWarn int
	seq       uint64

	listeners []func(FlushStats)
}

func newScheduler(rt *Runtime, d Deferrer, tracer trace.Tracer, chainWarn int) *Scheduler {
	return &Scheduler{
		rt:        rt,
		deferrer:  d,
		tracer:    tracer,
		has:       make(map[uint64]struct{}),
		chainWarn: chainWarn,
	}
}

// Enqueue adds c to the pending batch unless it is already there, arming a
// deferred flush if this is the first enqueue since the last flush.
func (s *Scheduler) Enqueue(c *Computation) {
	if _, ok := s.has[c.id]; ok {
		return
	}
	s.queue = append(s.queue, c)
	s.has[c.id] = struct{}{}

	if s.waiting {
		return
	}
	s.waiting = true

	if s.flushing {
		s.chain++
		if s.chainWarn > 0 && s.chain == s.chainWarn {
			s.rt.logger.Warn("flush chain keeps re-arming",
				"chain", s.chain,
				"computation", c.id,
				"name", c.name)
		}
	} else {
		s.chain = 0
	}

	s.NextTick(s.flush)
}

// NextTick registers fn for the next deferred turn. The deferrer is asked
// for a turn at most once until that turn runs.
func (s *Scheduler) NextTick(fn func()) {
	s.callbacks = append(s.callbacks, fn)
	if s.pending {
		return
	}
	s.pending = true
	s.deferrer.Defer(s.runCallbacks)
}

// Pending returns the number of computations waiting for the next flush.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Flushing reports whether a flush is currently running.
func (s *Scheduler) Flushing() bool {
	return s.flushing
}

// OnFlush registers fn to be called after every flush.
func (s *Scheduler) OnFlush(fn func(FlushStats)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Scheduler) runCallbacks() {
	cbs := s.callbacks
	s.callbacks = nil
	s.pending = false
	for _, cb := range cbs {
		cb()
	}
}

// flush runs the batch captured at its start. Computations enqueued while it
// runs form the next batch.
func (s *Scheduler) flush() {
	batch := s.queue
	s.queue = nil
	s.has = make(map[uint64]struct{})
	s.waiting = false

	s.seq++
	seq := s.seq
	start := time.Now()

	_, span := s.tracer.Start(context.Background(), "reflow.flush",
		trace.WithAttributes(
			attribute.Int64("reflow.flush.seq", int64(seq)),
			attribute.Int("reflow.flush.batch", len(batch)),
		))
	s.flushing = true
	defer func() {
		s.flushing = false
		span.End()
	}()

	s.rt.logger.Debug("flush start", "seq", seq, "batch", len(batch))
	for _, c := range batch {
		c.Run()
	}

	stats := FlushStats{Seq: seq, Batch: len(batch), Duration: time.Since(start)}
	s.rt.logger.Debug("flush end", "seq", seq, "batch", len(batch), "duration", stats.Duration)
	for _, fn := range s.listeners {
		fn(stats)
	}
}
